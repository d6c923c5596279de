package store

import (
	"slices"
	"sync"

	"propledger/internal/ledger/models"
	id "propledger/pkg/domain"
)

type allowanceKey struct {
	owner   id.Address
	spender id.Address
}

// InMemory holds the ledger state. Writes are applied by the ledger service
// after validation; the lock only guards concurrent readers.
type InMemory struct {
	mu         sync.RWMutex
	token      models.Token
	asset      models.Asset
	limits     models.Limits
	supply     uint64
	balances   map[id.Address]uint64
	allowances map[allowanceKey]uint64
	frozen     map[id.Address]bool
}

func NewInMemory(token models.Token, asset models.Asset, limits models.Limits) *InMemory {
	return &InMemory{
		token:      token,
		asset:      asset,
		limits:     limits,
		balances:   make(map[id.Address]uint64),
		allowances: make(map[allowanceKey]uint64),
		frozen:     make(map[id.Address]bool),
	}
}

func (s *InMemory) BalanceOf(addr id.Address) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.balances[addr]
}

func (s *InMemory) TotalSupply() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.supply
}

// Mint credits newly issued units.
func (s *InMemory) Mint(to id.Address, amount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[to] += amount
	s.supply += amount
}

// Move debits from and credits to. The caller has checked the balance.
func (s *InMemory) Move(from, to id.Address, amount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.balances[from] -= amount
	if s.balances[from] == 0 {
		delete(s.balances, from)
	}
	if amount > 0 {
		s.balances[to] += amount
	}
}

// Holders lists addresses with a positive balance in address order.
func (s *InMemory) Holders() []id.Address {
	s.mu.RLock()
	defer s.mu.RUnlock()
	holders := make([]id.Address, 0, len(s.balances))
	for addr := range s.balances {
		holders = append(holders, addr)
	}
	slices.Sort(holders)
	return holders
}

func (s *InMemory) Allowance(owner, spender id.Address) uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.allowances[allowanceKey{owner, spender}]
}

func (s *InMemory) SetAllowance(owner, spender id.Address, amount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := allowanceKey{owner, spender}
	if amount == 0 {
		delete(s.allowances, key)
		return
	}
	s.allowances[key] = amount
}

func (s *InMemory) IsFrozen(addr id.Address) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.frozen[addr]
}

func (s *InMemory) SetFrozen(addr id.Address, frozen bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if frozen {
		s.frozen[addr] = true
		return
	}
	delete(s.frozen, addr)
}

func (s *InMemory) Limits() models.Limits {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.limits
}

func (s *InMemory) MaxInvestment() uint64 {
	return s.Limits().Max
}

func (s *InMemory) SetLimits(l models.Limits) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limits = l
}

func (s *InMemory) Token() models.Token {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *InMemory) Asset() models.Asset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.asset
}

func (s *InMemory) SetLegalDocument(ref string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.asset.LegalDocument = ref
}
