package store

import (
	"context"
	"sync"

	"propledger/internal/registry/models"
	id "propledger/pkg/domain"
	"propledger/pkg/platform/sentinel"
)

// InMemory keeps investor records in a map and maintains the active counter
// incrementally on each save.
type InMemory struct {
	mu          sync.RWMutex
	investors   map[id.Address]*models.Investor
	activeCount int
}

func NewInMemory() *InMemory {
	return &InMemory{investors: make(map[id.Address]*models.Investor)}
}

func (s *InMemory) FindByAddress(_ context.Context, addr id.Address) (*models.Investor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	inv, ok := s.investors[addr]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return inv.Clone(), nil
}

// Save upserts the record and adjusts the counter by the active-flag delta.
func (s *InMemory) Save(_ context.Context, inv *models.Investor) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	prev, existed := s.investors[inv.Address]
	wasActive := existed && prev.Active
	switch {
	case inv.Active && !wasActive:
		s.activeCount++
	case !inv.Active && wasActive:
		s.activeCount--
	}
	s.investors[inv.Address] = inv.Clone()
	return nil
}

// Delete removes the record, if any, and releases its active slot.
func (s *InMemory) Delete(_ context.Context, addr id.Address) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if prev, ok := s.investors[addr]; ok && prev.Active {
		s.activeCount--
	}
	delete(s.investors, addr)
	return nil
}

func (s *InMemory) CountActive(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeCount, nil
}
