// Package redisstream appends audit events to a Redis stream so observers can
// tail the trail with XREAD without polling Postgres.
package redisstream

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"

	audit "propledger/pkg/platform/audit"
)

// DefaultStream is the stream key used when none is configured.
const DefaultStream = "propledger:audit"

// Store implements audit.Store over a Redis stream.
type Store struct {
	client redis.Cmdable
	stream string
	maxLen int64
}

// Option configures the Store.
type Option func(*Store)

// WithStream overrides the stream key.
func WithStream(name string) Option {
	return func(s *Store) {
		if name != "" {
			s.stream = name
		}
	}
}

// WithMaxLen caps the stream length (approximate trimming). Zero keeps everything.
func WithMaxLen(n int64) Option {
	return func(s *Store) {
		s.maxLen = n
	}
}

// New creates a stream-backed audit store.
func New(client redis.Cmdable, opts ...Option) *Store {
	s := &Store{client: client, stream: DefaultStream}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Append adds one stream entry per event.
func (s *Store) Append(ctx context.Context, event audit.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit payload: %w", err)
	}
	args := &redis.XAddArgs{
		Stream: s.stream,
		Values: map[string]any{
			"id":       event.ID.String(),
			"sequence": strconv.FormatUint(event.Sequence, 10),
			"action":   string(event.Action),
			"category": string(event.Category()),
			"payload":  payload,
		},
	}
	if s.maxLen > 0 {
		args.MaxLen = s.maxLen
		args.Approx = true
	}
	if err := s.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("xadd audit event: %w", err)
	}
	return nil
}

// Range returns up to count events from the start of the stream.
func (s *Store) Range(ctx context.Context, count int64) ([]audit.Event, error) {
	msgs, err := s.client.XRangeN(ctx, s.stream, "-", "+", count).Result()
	if err != nil {
		return nil, fmt.Errorf("xrange audit stream: %w", err)
	}
	events := make([]audit.Event, 0, len(msgs))
	for _, msg := range msgs {
		raw, ok := msg.Values["payload"].(string)
		if !ok {
			return nil, fmt.Errorf("stream entry %s has no payload", msg.ID)
		}
		var e audit.Event
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("decode stream entry %s: %w", msg.ID, err)
		}
		events = append(events, e)
	}
	return events, nil
}
