package service

import (
	"context"
	"log/slog"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"propledger/internal/compliance"
	"propledger/internal/ledger/metrics"
	"propledger/internal/ledger/models"
	"propledger/internal/ledger/ports"
	id "propledger/pkg/domain"
	dErrors "propledger/pkg/domain-errors"
	audit "propledger/pkg/platform/audit"
	"propledger/pkg/requestcontext"
)

const tracerName = "propledger/internal/ledger"

// Store holds balances, allowances, freeze flags, limits and asset metadata.
// Mutators never fail; the service validates before calling them.
type Store interface {
	compliance.LedgerView
	TotalSupply() uint64
	Mint(to id.Address, amount uint64)
	Move(from, to id.Address, amount uint64)
	Holders() []id.Address
	Allowance(owner, spender id.Address) uint64
	SetAllowance(owner, spender id.Address, amount uint64)
	SetFrozen(addr id.Address, frozen bool)
	Limits() models.Limits
	SetLimits(l models.Limits)
	Token() models.Token
	Asset() models.Asset
	SetLegalDocument(ref string)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the compliance ledger. Every mutating call holds mu for its
// whole duration, so calls apply one at a time in arrival order. Each call
// validates, emits its event, then mutates; a failure at any step leaves the
// state untouched.
type Service struct {
	mu             sync.Mutex
	admin          id.Address
	registry       ports.VerificationRegistry
	evaluator      *compliance.Evaluator
	state          Store
	auditPublisher AuditPublisher
	logger         *slog.Logger
	metrics        *metrics.Metrics
	tracer         trace.Tracer
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithAuditPublisher(publisher AuditPublisher) Option {
	return func(s *Service) {
		s.auditPublisher = publisher
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New validates the initialization inputs and issues the asset's total units
// to the admin when the store holds no supply yet.
func New(admin id.Address, registry ports.VerificationRegistry, state Store, opts ...Option) (*Service, error) {
	if registry == nil {
		return nil, dErrors.New(dErrors.CodeInvalidRegistry, "verification registry is required")
	}
	if admin.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidIdentity, "ledger admin address is required")
	}
	if state == nil {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "ledger store is required")
	}
	if state.Token().Decimals > models.MaxDecimals {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "token decimals out of range")
	}
	if l := state.Limits(); l.Min >= l.Max {
		return nil, dErrors.New(dErrors.CodeInvalidLimits, "minimum investment must be below maximum investment")
	}

	s := &Service{
		admin:     admin,
		registry:  registry,
		evaluator: compliance.NewEvaluator(admin, registry),
		state:     state,
		logger:    slog.Default(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if state.TotalSupply() == 0 {
		state.Mint(admin, state.Asset().TotalUnits)
	}
	return s, nil
}

func (s *Service) Admin() id.Address {
	return s.admin
}

// Transfer moves amount from the caller to to, subject to the compliance gate.
func (s *Service) Transfer(ctx context.Context, to id.Address, amount uint64) (err error) {
	from := requestcontext.Caller(ctx)
	ctx, span := s.startSpan(ctx, "Transfer", from, to, amount)
	defer func() { s.endSpan(span, "transfer", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRecipient(to); err != nil {
		return err
	}
	if err := s.gate(ctx, from, to, amount); err != nil {
		return err
	}
	if err := s.emit(ctx, audit.Event{
		Action:       audit.ActionTransfer,
		Subject:      from,
		Counterparty: to,
		Amount:       amount,
	}); err != nil {
		return err
	}
	s.state.Move(from, to, amount)

	s.metrics.AddMoved("transfer", amount)
	s.logger.InfoContext(ctx, "transfer applied",
		"request_id", requestcontext.RequestID(ctx),
		"from", from,
		"to", to,
		"amount", amount,
	)
	return nil
}

// Approve sets the caller's allowance for spender. No compliance check applies.
func (s *Service) Approve(ctx context.Context, spender id.Address, amount uint64) (err error) {
	owner := requestcontext.Caller(ctx)
	ctx, span := s.startSpan(ctx, "Approve", owner, spender, amount)
	defer func() { s.endSpan(span, "approve", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.emit(ctx, audit.Event{
		Action:  audit.ActionApproval,
		Subject: owner,
		Spender: spender,
		Amount:  amount,
	}); err != nil {
		return err
	}
	s.state.SetAllowance(owner, spender, amount)

	s.logger.InfoContext(ctx, "allowance set",
		"request_id", requestcontext.RequestID(ctx),
		"owner", owner,
		"spender", spender,
		"amount", amount,
	)
	return nil
}

// TransferFrom moves amount from from to to on behalf of from, spending the
// caller's allowance. The compliance gate runs before the allowance check.
func (s *Service) TransferFrom(ctx context.Context, from, to id.Address, amount uint64) (err error) {
	spender := requestcontext.Caller(ctx)
	ctx, span := s.startSpan(ctx, "TransferFrom", from, to, amount)
	span.SetAttributes(attribute.String("ledger.spender", spender.String()))
	defer func() { s.endSpan(span, "transfer_from", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireRecipient(to); err != nil {
		return err
	}
	if err := s.gate(ctx, from, to, amount); err != nil {
		return err
	}
	allowance := s.state.Allowance(from, spender)
	if allowance < amount {
		return dErrors.New(dErrors.CodeInsufficientAllowance, "allowance is below the transfer amount")
	}
	if err := s.emit(ctx, audit.Event{
		Action:       audit.ActionTransfer,
		Subject:      from,
		Counterparty: to,
		Spender:      spender,
		Amount:       amount,
	}); err != nil {
		return err
	}
	s.state.Move(from, to, amount)
	s.state.SetAllowance(from, spender, allowance-amount)

	s.metrics.AddMoved("delegated", amount)
	s.logger.InfoContext(ctx, "delegated transfer applied",
		"request_id", requestcontext.RequestID(ctx),
		"spender", spender,
		"from", from,
		"to", to,
		"amount", amount,
	)
	return nil
}

// ForceTransfer is the admin override. Freeze flags, verification and
// investment limits are ignored; only the balance must suffice.
func (s *Service) ForceTransfer(ctx context.Context, from, to id.Address, amount uint64) (err error) {
	ctx, span := s.startSpan(ctx, "ForceTransfer", from, to, amount)
	defer func() { s.endSpan(span, "force_transfer", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.requireRecipient(to); err != nil {
		return err
	}
	if s.state.BalanceOf(from) < amount {
		return dErrors.New(dErrors.CodeInsufficientBalance, "insufficient balance")
	}
	if err := s.emit(ctx, audit.Event{
		Action:       audit.ActionForcedTransfer,
		Subject:      from,
		Counterparty: to,
		Amount:       amount,
	}); err != nil {
		return err
	}
	s.state.Move(from, to, amount)

	s.metrics.AddMoved("forced", amount)
	s.logger.WarnContext(ctx, "forced transfer applied",
		"request_id", requestcontext.RequestID(ctx),
		"from", from,
		"to", to,
		"amount", amount,
	)
	return nil
}

// FreezeAccount sets the freeze flag. Repeated calls succeed and emit again.
func (s *Service) FreezeAccount(ctx context.Context, addr id.Address, reason string) (err error) {
	ctx, span := s.startSpan(ctx, "FreezeAccount", addr, "", 0)
	defer func() { s.endSpan(span, "freeze", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.emit(ctx, audit.Event{
		Action:  audit.ActionAccountFrozen,
		Subject: addr,
		Reason:  reason,
	}); err != nil {
		return err
	}
	s.state.SetFrozen(addr, true)

	s.metrics.IncFreeze("freeze")
	s.logger.InfoContext(ctx, "account frozen",
		"request_id", requestcontext.RequestID(ctx),
		"account", addr,
		"reason", reason,
	)
	return nil
}

// UnfreezeAccount clears the freeze flag. Repeated calls succeed and emit again.
func (s *Service) UnfreezeAccount(ctx context.Context, addr id.Address) (err error) {
	ctx, span := s.startSpan(ctx, "UnfreezeAccount", addr, "", 0)
	defer func() { s.endSpan(span, "unfreeze", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.emit(ctx, audit.Event{
		Action:  audit.ActionAccountUnfrozen,
		Subject: addr,
	}); err != nil {
		return err
	}
	s.state.SetFrozen(addr, false)

	s.metrics.IncFreeze("unfreeze")
	s.logger.InfoContext(ctx, "account unfrozen",
		"request_id", requestcontext.RequestID(ctx),
		"account", addr,
	)
	return nil
}

// SetInvestmentLimits replaces the limits for subsequent ordinary transfers.
// Existing balances are not re-checked.
func (s *Service) SetInvestmentLimits(ctx context.Context, minInvestment, maxInvestment uint64) (err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.SetInvestmentLimits", trace.WithAttributes(
		attribute.Int64("ledger.min", clampInt64(minInvestment)),
		attribute.Int64("ledger.max", clampInt64(maxInvestment)),
	))
	defer func() { s.endSpan(span, "set_limits", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	limits, err := models.NewLimits(minInvestment, maxInvestment)
	if err != nil {
		return err
	}
	if err := s.emit(ctx, audit.Event{
		Action:        audit.ActionInvestmentLimitsUpdated,
		MinInvestment: limits.Min,
		MaxInvestment: limits.Max,
	}); err != nil {
		return err
	}
	s.state.SetLimits(limits)

	s.logger.InfoContext(ctx, "investment limits updated",
		"request_id", requestcontext.RequestID(ctx),
		"min", limits.Min,
		"max", limits.Max,
	)
	return nil
}

// SetLegalDocument replaces the asset's legal document reference.
func (s *Service) SetLegalDocument(ctx context.Context, ref string) (err error) {
	ctx, span := s.tracer.Start(ctx, "ledger.SetLegalDocument")
	defer func() { s.endSpan(span, "set_document", err) }()

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if err := s.emit(ctx, audit.Event{
		Action:   audit.ActionLegalDocumentUpdated,
		Document: ref,
	}); err != nil {
		return err
	}
	s.state.SetLegalDocument(ref)

	s.logger.InfoContext(ctx, "legal document updated",
		"request_id", requestcontext.RequestID(ctx),
		"document", ref,
	)
	return nil
}

// CanTransfer answers the compliance gate for a prospective transfer without
// applying it. It never fails.
func (s *Service) CanTransfer(ctx context.Context, from, to id.Address, amount uint64) compliance.Decision {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.evaluator.CanTransfer(ctx, s.state, from, to, amount)
}

// GetOwnershipPercent returns addr's share of supply in basis points.
func (s *Service) GetOwnershipPercent(addr id.Address) uint64 {
	return models.OwnershipBps(s.state.BalanceOf(addr), s.state.TotalSupply())
}

// GetUnitValue returns the declared asset value per whole unit.
func (s *Service) GetUnitValue() uint64 {
	return models.UnitValue(s.state.Asset(), s.state.Token())
}

func (s *Service) BalanceOf(addr id.Address) uint64 {
	return s.state.BalanceOf(addr)
}

func (s *Service) Allowance(owner, spender id.Address) uint64 {
	return s.state.Allowance(owner, spender)
}

func (s *Service) TotalSupply() uint64 {
	return s.state.TotalSupply()
}

func (s *Service) IsFrozen(addr id.Address) bool {
	return s.state.IsFrozen(addr)
}

func (s *Service) InvestmentLimits() models.Limits {
	return s.state.Limits()
}

func (s *Service) Asset() models.Asset {
	return s.state.Asset()
}

func (s *Service) Token() models.Token {
	return s.state.Token()
}

// Holders lists addresses with a positive balance.
func (s *Service) Holders() []id.Address {
	return s.state.Holders()
}

func (s *Service) requireAdmin(ctx context.Context) error {
	caller := requestcontext.Caller(ctx)
	if caller != s.admin {
		s.logger.WarnContext(ctx, "unauthorized ledger call",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller,
		)
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not the ledger admin")
	}
	return nil
}

func (s *Service) requireRecipient(to id.Address) error {
	if to.IsNil() {
		return dErrors.New(dErrors.CodeInvalidRecipient, "recipient must not be the null address")
	}
	return nil
}

func (s *Service) gate(ctx context.Context, from, to id.Address, amount uint64) error {
	decision := s.evaluator.CanTransfer(ctx, s.state, from, to, amount)
	if decision.Allowed {
		return nil
	}
	s.metrics.IncDenial(string(decision.Reason))
	s.logger.WarnContext(ctx, "transfer denied",
		"request_id", requestcontext.RequestID(ctx),
		"from", from,
		"to", to,
		"amount", amount,
		"reason", decision.Reason,
	)
	return decision.Err()
}

func (s *Service) emit(ctx context.Context, event audit.Event) error {
	if s.auditPublisher == nil {
		return nil
	}
	event.Source = audit.SourceLedger
	event.Actor = requestcontext.Caller(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.Timestamp = requestcontext.Now(ctx)
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}

func (s *Service) startSpan(ctx context.Context, op string, from, to id.Address, amount uint64) (context.Context, trace.Span) {
	attrs := []attribute.KeyValue{
		attribute.String("ledger.caller", requestcontext.Caller(ctx).String()),
		attribute.String("ledger.from", from.String()),
	}
	if to != "" {
		attrs = append(attrs, attribute.String("ledger.to", to.String()))
	}
	if amount > 0 {
		attrs = append(attrs, attribute.Int64("ledger.amount", clampInt64(amount)))
	}
	return s.tracer.Start(ctx, "ledger."+op, trace.WithAttributes(attrs...))
}

func (s *Service) endSpan(span trace.Span, op string, err error) {
	defer span.End()
	if err == nil {
		s.metrics.IncOperation(op, "ok")
		return
	}
	if reason, ok := compliance.ReasonOf(err); ok {
		s.metrics.IncOperation(op, "denied")
		span.SetAttributes(attribute.String("ledger.denial", string(reason)))
	} else {
		s.metrics.IncOperation(op, string(dErrors.CodeOf(err)))
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func clampInt64(v uint64) int64 {
	if v > 1<<63-1 {
		return 1<<63 - 1
	}
	return int64(v)
}
