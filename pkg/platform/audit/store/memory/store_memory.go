package memory

import (
	"context"
	"sync"

	id "propledger/pkg/domain"
	audit "propledger/pkg/platform/audit"
)

// InMemoryStore keeps the audit trail in append order.
type InMemoryStore struct {
	mu     sync.RWMutex
	events []audit.Event
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

func (s *InMemoryStore) Append(_ context.Context, event audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	return nil
}

// ListAll returns every event in emission order.
func (s *InMemoryStore) ListAll(_ context.Context) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]audit.Event{}, s.events...), nil
}

// Range returns up to count events from the start of the trail.
func (s *InMemoryStore) Range(_ context.Context, count int64) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := int64(len(s.events))
	if count < n {
		n = count
	}
	return append([]audit.Event{}, s.events[:n]...), nil
}

// ListByAddress returns events where addr is the subject or counterparty.
func (s *InMemoryStore) ListByAddress(_ context.Context, addr id.Address) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Event
	for _, e := range s.events {
		if e.Subject == addr || e.Counterparty == addr {
			out = append(out, e)
		}
	}
	return out, nil
}

// ListByAction returns events with the given action in emission order.
func (s *InMemoryStore) ListByAction(_ context.Context, action audit.Action) ([]audit.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []audit.Event
	for _, e := range s.events {
		if e.Action == action {
			out = append(out, e)
		}
	}
	return out, nil
}

// Clear drops all events.
func (s *InMemoryStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = nil
}
