// Package compliance decides whether an ordinary transfer may proceed.
//
// CanTransfer is pure with respect to the ledger: it reads a LedgerView and
// queries a Verifier but mutates neither. The ledger calls it as the mandatory
// gate of every non-override transfer path; the same function answers
// pre-flight queries.
package compliance

import (
	"context"

	id "propledger/pkg/domain"
)

// LedgerView is the read-only ledger state the evaluator consumes.
type LedgerView interface {
	IsFrozen(addr id.Address) bool
	BalanceOf(addr id.Address) uint64
	MaxInvestment() uint64
}

// Verifier answers verification queries. An error is treated as "not verified".
type Verifier interface {
	IsVerified(ctx context.Context, addr id.Address) (bool, error)
}

// Decision is the evaluator's verdict.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason"`
}

func allow() Decision {
	return Decision{Allowed: true, Reason: ReasonTransferAllowed}
}

func deny(r Reason) Decision {
	return Decision{Allowed: false, Reason: r}
}

// Evaluator applies the transfer rules. The admin address is treated as
// verified without consulting the Verifier.
type Evaluator struct {
	admin    id.Address
	verifier Verifier
}

// NewEvaluator binds the admin address and the verification source.
func NewEvaluator(admin id.Address, verifier Verifier) *Evaluator {
	return &Evaluator{admin: admin, verifier: verifier}
}

// CanTransfer evaluates the rules in order; the first failing rule wins:
//  1. sender frozen
//  2. receiver frozen
//  3. sender not verified (admin exempt)
//  4. receiver not verified (admin exempt)
//  5. sender balance below amount
//  6. receiver's resulting balance above the maximum investment
//
// The minimum investment is not checked here.
func (e *Evaluator) CanTransfer(ctx context.Context, view LedgerView, from, to id.Address, amount uint64) Decision {
	if view.IsFrozen(from) {
		return deny(ReasonSenderFrozen)
	}
	if view.IsFrozen(to) {
		return deny(ReasonReceiverFrozen)
	}
	if !e.isVerified(ctx, from) {
		return deny(ReasonSenderNotVerified)
	}
	if !e.isVerified(ctx, to) {
		return deny(ReasonReceiverNotVerified)
	}
	if view.BalanceOf(from) < amount {
		return deny(ReasonInsufficientBalance)
	}
	if exceeds(view.BalanceOf(to), amount, view.MaxInvestment()) {
		return deny(ReasonExceedsMaximum)
	}
	return allow()
}

func (e *Evaluator) isVerified(ctx context.Context, addr id.Address) bool {
	if addr == e.admin {
		return true
	}
	if e.verifier == nil {
		return false
	}
	ok, err := e.verifier.IsVerified(ctx, addr)
	return err == nil && ok
}

// exceeds reports whether current+amount > max without overflowing.
func exceeds(current, amount, max uint64) bool {
	return current > max || amount > max-current
}
