package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Publisher emits events with synchronous, fail-closed semantics: the caller
// blocks until the store accepts the event, and a store failure is returned
// so the calling operation can abort before mutating state.
type Publisher struct {
	store   Store
	logger  *slog.Logger
	metrics *Metrics
	seq     atomic.Uint64
}

// Option configures the Publisher.
type Option func(*Publisher)

// WithLogger sets a logger for error reporting.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *Metrics) Option {
	return func(p *Publisher) {
		p.metrics = m
	}
}

// WithStartSequence continues numbering after an existing trail.
func WithStartSequence(last uint64) Option {
	return func(p *Publisher) {
		p.seq.Store(last)
	}
}

// NewPublisher creates a fail-closed publisher over store.
func NewPublisher(store Store, opts ...Option) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Emit assigns the event identity and sequence, then writes it to the store.
// Sequences are strictly increasing. A rejected append hands its number back;
// an append that succeeds inside a transaction the caller later rolls back
// leaves a gap, which readers of the outbox must tolerate.
func (p *Publisher) Emit(ctx context.Context, event Event) error {
	start := time.Now()

	if event.Action == "" {
		return fmt.Errorf("audit event requires Action")
	}
	if event.Source == "" {
		return fmt.Errorf("audit event requires Source")
	}
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	event.Sequence = p.seq.Add(1)

	if err := p.store.Append(ctx, event); err != nil {
		// Nothing was written, so the number is reused by the next event.
		p.seq.Add(^uint64(0))
		p.metrics.incPersistFailures()
		if p.logger != nil {
			p.logger.ErrorContext(ctx, "CRITICAL: audit persistence failed",
				"action", event.Action,
				"subject", event.Subject,
				"request_id", event.RequestID,
				"error", err,
			)
		}
		return fmt.Errorf("audit persistence failed: %w", err)
	}

	p.metrics.observePersistDuration(time.Since(start).Seconds())
	p.metrics.incEmitted(event)
	return nil
}
