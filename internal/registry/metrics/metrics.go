package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the verification registry.
type Metrics struct {
	Transitions     *prometheus.CounterVec
	ActiveInvestors prometheus.Gauge
	Queries         *prometheus.CounterVec
}

// New registers registry metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Metrics{
		Transitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "propledger_registry_transitions_total",
			Help: "Investor lifecycle transitions by kind",
		}, []string{"transition"}), // registered, level_updated, revoked
		ActiveInvestors: factory.NewGauge(prometheus.GaugeOpts{
			Name: "propledger_registry_active_investors",
			Help: "Currently active investor records",
		}),
		Queries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "propledger_registry_verification_queries_total",
			Help: "Verification queries by result",
		}, []string{"result"}), // verified, unverified, error
	}
}

// IncTransition records a lifecycle transition.
func (m *Metrics) IncTransition(kind string) {
	if m != nil {
		m.Transitions.WithLabelValues(kind).Inc()
	}
}

// SetActive records the active investor count.
func (m *Metrics) SetActive(n int) {
	if m != nil {
		m.ActiveInvestors.Set(float64(n))
	}
}

// IncQuery records a verification query outcome.
func (m *Metrics) IncQuery(result string) {
	if m != nil {
		m.Queries.WithLabelValues(result).Inc()
	}
}
