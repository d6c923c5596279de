package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"propledger/internal/registry/metrics"
	"propledger/internal/registry/models"
	id "propledger/pkg/domain"
	dErrors "propledger/pkg/domain-errors"
	audit "propledger/pkg/platform/audit"
	"propledger/pkg/platform/sentinel"
	"propledger/pkg/requestcontext"
)

// MaxValidDays bounds a registration's validity so expiry stays representable.
const MaxValidDays = 100 * 365

// Store persists investor records. FindByAddress returns sentinel.ErrNotFound
// for addresses never registered. Delete is only used to undo the first save
// of a record whose audit event could not be recorded.
type Store interface {
	FindByAddress(ctx context.Context, addr id.Address) (*models.Investor, error)
	Save(ctx context.Context, inv *models.Investor) error
	Delete(ctx context.Context, addr id.Address) error
	CountActive(ctx context.Context) (int, error)
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service is the verification registry. It owns investor records and the
// active counter; the admin address fixed at construction is the only caller
// allowed to mutate them.
type Service struct {
	admin          id.Address
	investors      Store
	tx             StoreTx
	auditPublisher AuditPublisher
	logger         *slog.Logger
	metrics        *metrics.Metrics
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

// WithStoreTx replaces the default in-memory lock with a transactional boundary.
func WithStoreTx(tx StoreTx) Option {
	return func(s *Service) {
		s.tx = tx
	}
}

// New constructs the registry.
func New(admin id.Address, investors Store, opts ...Option) (*Service, error) {
	if admin.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidIdentity, "registry admin address is required")
	}
	if investors == nil {
		return nil, errors.New("investor store is required")
	}
	s := &Service{
		admin:     admin,
		investors: investors,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tx == nil {
		s.tx = newInMemoryStoreTx()
	}
	return s, nil
}

// Admin returns the administrative address.
func (s *Service) Admin() id.Address {
	return s.admin
}

// Register creates or re-activates an investor record valid for validDays
// from the request time.
func (s *Service) Register(ctx context.Context, addr id.Address, level id.VerificationLevel, country uint16, validDays uint32) (*models.Investor, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if addr.IsNil() {
		return nil, dErrors.New(dErrors.CodeInvalidIdentity, "investor address must not be the null address")
	}
	if level == id.LevelNone || !level.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidLevel, "verification level must be basic, verified or accredited")
	}
	if validDays > MaxValidDays {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "validity period is too long")
	}

	now := requestcontext.Now(ctx)
	var registered *models.Investor
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		inv, err := s.load(txCtx, addr)
		if err != nil {
			return err
		}
		if err := inv.CanRegister(); err != nil {
			return err
		}
		previous := inv.Clone()
		if inv == nil {
			inv = &models.Investor{Address: addr}
		}
		inv.ApplyRegistration(level, country, models.ExpiryFor(now, validDays), now)

		if err := s.commit(txCtx, previous, inv, audit.Event{
			Action:    audit.ActionInvestorRegistered,
			Subject:   addr,
			Level:     level.String(),
			Country:   country,
			ExpiresAt: inv.ExpiresAt,
		}); err != nil {
			return err
		}
		registered = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition("registered")
	s.refreshActiveGauge(ctx)
	s.logger.InfoContext(ctx, "investor registered",
		"request_id", requestcontext.RequestID(ctx),
		"investor", addr,
		"level", level,
		"country", country,
		"expires_at", registered.ExpiresAt,
	)
	return registered, nil
}

// UpdateLevel replaces the level of an active record. Expiry and country are
// unchanged. LevelNone is accepted and leaves the record unverified.
func (s *Service) UpdateLevel(ctx context.Context, addr id.Address, level id.VerificationLevel) (*models.Investor, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	if !level.IsValid() {
		return nil, dErrors.New(dErrors.CodeInvalidLevel, "unknown verification level")
	}

	now := requestcontext.Now(ctx)
	var updated *models.Investor
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		inv, err := s.load(txCtx, addr)
		if err != nil {
			return err
		}
		if err := inv.RequireActive(); err != nil {
			return err
		}
		previous := inv.Clone()
		inv.ApplyLevel(level, now)

		if err := s.commit(txCtx, previous, inv, audit.Event{
			Action:  audit.ActionInvestorLevelUpdated,
			Subject: addr,
			Level:   level.String(),
			Reason:  "previous level " + previous.Level.String(),
		}); err != nil {
			return err
		}
		updated = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.IncTransition("level_updated")
	s.logger.InfoContext(ctx, "investor level updated",
		"request_id", requestcontext.RequestID(ctx),
		"investor", addr,
		"level", level,
	)
	return updated, nil
}

// Revoke deactivates an active record and decrements the active counter.
func (s *Service) Revoke(ctx context.Context, addr id.Address) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}

	now := requestcontext.Now(ctx)
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		inv, err := s.load(txCtx, addr)
		if err != nil {
			return err
		}
		if err := inv.RequireActive(); err != nil {
			return err
		}
		previous := inv.Clone()
		inv.ApplyRevocation(now)

		return s.commit(txCtx, previous, inv, audit.Event{
			Action:  audit.ActionInvestorRevoked,
			Subject: addr,
		})
	})
	if err != nil {
		return err
	}

	s.metrics.IncTransition("revoked")
	s.refreshActiveGauge(ctx)
	s.logger.InfoContext(ctx, "investor revoked",
		"request_id", requestcontext.RequestID(ctx),
		"investor", addr,
	)
	return nil
}

// IsVerified reports whether addr holds an active, leveled, unexpired record
// at the request time. It never fails: store errors read as unverified.
func (s *Service) IsVerified(ctx context.Context, addr id.Address) bool {
	return s.IsVerifiedAt(ctx, addr, requestcontext.Now(ctx))
}

// IsVerifiedAt is IsVerified against an explicit time.
func (s *Service) IsVerifiedAt(ctx context.Context, addr id.Address, now time.Time) bool {
	inv, ok := s.lookup(ctx, addr)
	verified := ok && inv.IsVerified(now)
	if verified {
		s.metrics.IncQuery("verified")
	} else {
		s.metrics.IncQuery("unverified")
	}
	return verified
}

// MeetsLevel reports whether addr is verified with at least the required level.
func (s *Service) MeetsLevel(ctx context.Context, addr id.Address, required id.VerificationLevel) bool {
	inv, ok := s.lookup(ctx, addr)
	return ok && inv.MeetsLevel(required, requestcontext.Now(ctx))
}

// Investor returns the stored record for addr, active or revoked.
func (s *Service) Investor(ctx context.Context, addr id.Address) (*models.Investor, error) {
	inv, err := s.investors.FindByAddress(ctx, addr)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotRegistered, "investor is not registered")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load investor")
	}
	return inv, nil
}

// ActiveInvestorCount returns the number of currently active records.
func (s *Service) ActiveInvestorCount(ctx context.Context) (int, error) {
	n, err := s.investors.CountActive(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "failed to count investors")
	}
	return n, nil
}

func (s *Service) requireAdmin(ctx context.Context) error {
	caller := requestcontext.Caller(ctx)
	if caller != s.admin {
		s.logger.WarnContext(ctx, "unauthorized registry call",
			"request_id", requestcontext.RequestID(ctx),
			"caller", caller,
		)
		return dErrors.New(dErrors.CodeUnauthorized, "caller is not the registry admin")
	}
	return nil
}

// load returns the record or nil when the address was never registered.
func (s *Service) load(ctx context.Context, addr id.Address) (*models.Investor, error) {
	inv, err := s.investors.FindByAddress(ctx, addr)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load investor")
	}
	return inv, nil
}

func (s *Service) lookup(ctx context.Context, addr id.Address) (*models.Investor, bool) {
	inv, err := s.investors.FindByAddress(ctx, addr)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.metrics.IncQuery("error")
			s.logger.ErrorContext(ctx, "investor lookup failed",
				"request_id", requestcontext.RequestID(ctx),
				"investor", addr,
				"error", err,
			)
		}
		return nil, false
	}
	return inv, true
}

// commit saves next and then records its event. The event is only recorded
// once the save has succeeded; if recording fails, previous is put back (or
// the record removed when previous is nil) so the operation leaves no trace
// in stores that do not share the audit sink's transaction.
func (s *Service) commit(ctx context.Context, previous, next *models.Investor, event audit.Event) error {
	if err := s.investors.Save(ctx, next); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save investor")
	}
	if err := s.emit(ctx, event); err != nil {
		if restoreErr := s.restore(ctx, previous, next.Address); restoreErr != nil {
			s.logger.ErrorContext(ctx, "CRITICAL: investor record not restored after audit failure",
				"request_id", requestcontext.RequestID(ctx),
				"investor", next.Address,
				"error", restoreErr,
			)
		}
		return err
	}
	return nil
}

func (s *Service) restore(ctx context.Context, previous *models.Investor, addr id.Address) error {
	if previous == nil {
		return s.investors.Delete(ctx, addr)
	}
	return s.investors.Save(ctx, previous)
}

func (s *Service) emit(ctx context.Context, event audit.Event) error {
	if s.auditPublisher == nil {
		return nil
	}
	event.Source = audit.SourceRegistry
	event.Actor = requestcontext.Caller(ctx)
	event.RequestID = requestcontext.RequestID(ctx)
	event.Timestamp = requestcontext.Now(ctx)
	if err := s.auditPublisher.Emit(ctx, event); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit event")
	}
	return nil
}

func (s *Service) refreshActiveGauge(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	if n, err := s.investors.CountActive(ctx); err == nil {
		s.metrics.SetActive(n)
	}
}
