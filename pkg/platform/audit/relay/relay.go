// Package relay publishes outbox entries to Kafka.
//
// The outbox is written in the same transaction as the state change it
// records; the relay is the only reader. Entries are marked published only
// after the broker acknowledged the whole batch, so delivery is at-least-once
// and consumers dedupe on the event id header.
package relay

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"propledger/pkg/platform/audit/store/postgres"
)

// Outbox is the subset of the postgres audit store the relay needs.
type Outbox interface {
	FetchUnpublished(ctx context.Context, limit int) ([]postgres.OutboxEntry, error)
	MarkPublished(ctx context.Context, ids []uuid.UUID) error
}

// Producer sends a batch of records and returns the first failure.
type Producer interface {
	Produce(ctx context.Context, records []*kgo.Record) error
}

// Relay drains the outbox on an interval.
type Relay struct {
	outbox    Outbox
	producer  Producer
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// Option configures the Relay.
type Option func(*Relay)

func WithLogger(logger *slog.Logger) Option {
	return func(r *Relay) {
		r.logger = logger
	}
}

func WithInterval(d time.Duration) Option {
	return func(r *Relay) {
		if d > 0 {
			r.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(r *Relay) {
		if n > 0 {
			r.batchSize = n
		}
	}
}

// New creates a relay.
func New(outbox Outbox, producer Producer, opts ...Option) *Relay {
	r := &Relay{
		outbox:    outbox,
		producer:  producer,
		logger:    slog.Default(),
		interval:  time.Second,
		batchSize: 100,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run drains until ctx is cancelled. Publish errors are logged and retried on
// the next tick.
func (r *Relay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := r.Drain(ctx); err != nil {
				r.logger.WarnContext(ctx, "outbox relay tick failed", "error", err)
			}
		}
	}
}

// Drain publishes batches until the outbox is empty and returns how many
// entries were published.
func (r *Relay) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		entries, err := r.outbox.FetchUnpublished(ctx, r.batchSize)
		if err != nil {
			return total, err
		}
		if len(entries) == 0 {
			return total, nil
		}

		records := make([]*kgo.Record, len(entries))
		ids := make([]uuid.UUID, len(entries))
		for i, e := range entries {
			records[i] = &kgo.Record{
				Key:   []byte(e.Key),
				Value: e.Payload,
				Headers: []kgo.RecordHeader{
					{Key: "event_id", Value: []byte(e.ID.String())},
					{Key: "event_type", Value: []byte(e.EventType)},
				},
			}
			ids[i] = e.ID
		}

		if err := r.producer.Produce(ctx, records); err != nil {
			return total, fmt.Errorf("produce outbox batch: %w", err)
		}
		if err := r.outbox.MarkPublished(ctx, ids); err != nil {
			return total, err
		}
		total += len(entries)
		if len(entries) < r.batchSize {
			return total, nil
		}
	}
}

// KafkaProducer adapts a franz-go client to Producer.
type KafkaProducer struct {
	client *kgo.Client
}

// NewKafkaProducer connects to brokers and produces to topic by default.
func NewKafkaProducer(brokers []string, topic string) (*KafkaProducer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &KafkaProducer{client: client}, nil
}

func (p *KafkaProducer) Produce(ctx context.Context, records []*kgo.Record) error {
	return p.client.ProduceSync(ctx, records...).FirstErr()
}

func (p *KafkaProducer) Close() {
	p.client.Close()
}
