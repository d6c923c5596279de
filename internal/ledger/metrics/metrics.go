package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the compliance ledger.
type Metrics struct {
	Operations   *prometheus.CounterVec
	Denials      *prometheus.CounterVec
	UnitsMoved   *prometheus.CounterVec
	FrozenChange *prometheus.CounterVec
}

// New registers ledger metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "propledger_ledger_operations_total",
			Help: "Ledger operations by kind and outcome",
		}, []string{"operation", "outcome"}),
		Denials: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "propledger_ledger_transfer_denials_total",
			Help: "Transfers rejected by the compliance gate, by reason",
		}, []string{"reason"}),
		UnitsMoved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "propledger_ledger_units_moved_total",
			Help: "Units moved by transfer kind",
		}, []string{"kind"}), // transfer, delegated, forced
		FrozenChange: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "propledger_ledger_freeze_changes_total",
			Help: "Freeze and unfreeze calls",
		}, []string{"action"}),
	}
}

// IncOperation records an operation outcome (ok, denied, error).
func (m *Metrics) IncOperation(op, outcome string) {
	if m != nil {
		m.Operations.WithLabelValues(op, outcome).Inc()
	}
}

// IncDenial records a compliance denial.
func (m *Metrics) IncDenial(reason string) {
	if m != nil {
		m.Denials.WithLabelValues(reason).Inc()
	}
}

// AddMoved records units moved.
func (m *Metrics) AddMoved(kind string, amount uint64) {
	if m != nil {
		m.UnitsMoved.WithLabelValues(kind).Add(float64(amount))
	}
}

// IncFreeze records a freeze or unfreeze.
func (m *Metrics) IncFreeze(action string) {
	if m != nil {
		m.FrozenChange.WithLabelValues(action).Inc()
	}
}
