package compliance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"pgregory.net/rapid"

	id "propledger/pkg/domain"
	dErrors "propledger/pkg/domain-errors"
)

// =============================================================================
// Compliance Evaluator Test Suite
// =============================================================================
// Each rule is exercised in isolation, then rule precedence is checked by
// enabling several failures at once.

var (
	admin = id.MustParseAddress("0x00000000000000000000000000000000000000ad")
	alice = id.MustParseAddress("0x00000000000000000000000000000000000000a1")
	bob   = id.MustParseAddress("0x00000000000000000000000000000000000000b0")
)

type fakeView struct {
	frozen   map[id.Address]bool
	balances map[id.Address]uint64
	max      uint64
}

func newFakeView(max uint64) *fakeView {
	return &fakeView{frozen: map[id.Address]bool{}, balances: map[id.Address]uint64{}, max: max}
}

func (v *fakeView) IsFrozen(addr id.Address) bool    { return v.frozen[addr] }
func (v *fakeView) BalanceOf(addr id.Address) uint64 { return v.balances[addr] }
func (v *fakeView) MaxInvestment() uint64            { return v.max }

type fakeVerifier struct {
	verified map[id.Address]bool
	err      error
	calls    int
}

func (f *fakeVerifier) IsVerified(_ context.Context, addr id.Address) (bool, error) {
	f.calls++
	if f.err != nil {
		return false, f.err
	}
	return f.verified[addr], nil
}

type EvaluatorSuite struct {
	suite.Suite
	view      *fakeView
	verifier  *fakeVerifier
	evaluator *Evaluator
}

func TestEvaluatorSuite(t *testing.T) {
	suite.Run(t, new(EvaluatorSuite))
}

func (s *EvaluatorSuite) SetupTest() {
	s.view = newFakeView(1000)
	s.view.balances[alice] = 500
	s.view.balances[bob] = 100
	s.verifier = &fakeVerifier{verified: map[id.Address]bool{alice: true, bob: true}}
	s.evaluator = NewEvaluator(admin, s.verifier)
}

func (s *EvaluatorSuite) check(from, to id.Address, amount uint64) Decision {
	return s.evaluator.CanTransfer(context.Background(), s.view, from, to, amount)
}

func (s *EvaluatorSuite) TestSingleRules() {
	s.Run("allows a compliant transfer", func() {
		d := s.check(alice, bob, 100)
		s.True(d.Allowed)
		s.Equal(ReasonTransferAllowed, d.Reason)
	})

	s.Run("denies a frozen sender", func() {
		s.view.frozen[alice] = true
		defer delete(s.view.frozen, alice)
		s.Equal(deny(ReasonSenderFrozen), s.check(alice, bob, 1))
	})

	s.Run("denies a frozen receiver", func() {
		s.view.frozen[bob] = true
		defer delete(s.view.frozen, bob)
		s.Equal(deny(ReasonReceiverFrozen), s.check(alice, bob, 1))
	})

	s.Run("denies an unverified sender", func() {
		s.verifier.verified[alice] = false
		defer func() { s.verifier.verified[alice] = true }()
		s.Equal(deny(ReasonSenderNotVerified), s.check(alice, bob, 1))
	})

	s.Run("denies an unverified receiver", func() {
		s.verifier.verified[bob] = false
		defer func() { s.verifier.verified[bob] = true }()
		s.Equal(deny(ReasonReceiverNotVerified), s.check(alice, bob, 1))
	})

	s.Run("denies when the sender balance is short", func() {
		s.Equal(deny(ReasonInsufficientBalance), s.check(alice, bob, 501))
	})

	s.Run("denies when the receiver would exceed the maximum", func() {
		s.Equal(deny(ReasonExceedsMaximum), s.check(alice, bob, 401))
	})

	s.Run("allows reaching the maximum exactly", func() {
		s.True(s.check(alice, bob, 400).Allowed)
	})

	s.Run("allows a zero amount", func() {
		s.True(s.check(alice, bob, 0).Allowed)
	})
}

func (s *EvaluatorSuite) TestAdminIsAlwaysVerified() {
	s.view.balances[admin] = 900
	s.verifier.verified = map[id.Address]bool{bob: true}

	s.Run("admin as sender", func() {
		s.True(s.check(admin, bob, 100).Allowed)
	})

	s.Run("admin as receiver", func() {
		s.view.balances[bob] = 100
		s.True(s.check(bob, admin, 50).Allowed)
	})

	s.Run("maximum still applies to the admin as receiver", func() {
		s.Equal(deny(ReasonExceedsMaximum), s.check(bob, admin, 101))
	})
}

func (s *EvaluatorSuite) TestFailClosedVerification() {
	s.Run("verifier error denies", func() {
		s.verifier.err = errors.New("registry unreachable")
		defer func() { s.verifier.err = nil }()
		s.Equal(deny(ReasonSenderNotVerified), s.check(alice, bob, 1))
	})

	s.Run("missing verifier denies non-admin parties", func() {
		e := NewEvaluator(admin, nil)
		d := e.CanTransfer(context.Background(), s.view, alice, bob, 1)
		s.Equal(deny(ReasonSenderNotVerified), d)
	})
}

func (s *EvaluatorSuite) TestPrecedence() {
	s.Run("sender frozen wins over everything", func() {
		s.view.frozen[alice] = true
		s.view.frozen[bob] = true
		s.verifier.verified = map[id.Address]bool{}
		s.Equal(deny(ReasonSenderFrozen), s.check(alice, bob, 10_000))
	})

	s.Run("frozen checks do not query verification", func() {
		s.SetupTest()
		s.view.frozen[bob] = true
		s.check(alice, bob, 1)
		s.Zero(s.verifier.calls)
	})

	s.Run("verification is checked before balance", func() {
		s.SetupTest()
		s.verifier.verified[bob] = false
		s.Equal(deny(ReasonReceiverNotVerified), s.check(alice, bob, 10_000))
	})
}

func (s *EvaluatorSuite) TestDecisionErr() {
	s.Nil(allow().Err())

	err := deny(ReasonReceiverFrozen).Err()
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeAccountFrozen))
	reason, ok := ReasonOf(err)
	s.True(ok)
	s.Equal(ReasonReceiverFrozen, reason)

	_, ok = ReasonOf(errors.New("other"))
	s.False(ok)
}

func TestReasonCodes(t *testing.T) {
	cases := map[Reason]dErrors.Code{
		ReasonSenderFrozen:        dErrors.CodeAccountFrozen,
		ReasonReceiverFrozen:      dErrors.CodeAccountFrozen,
		ReasonSenderNotVerified:   dErrors.CodeNotVerified,
		ReasonReceiverNotVerified: dErrors.CodeNotVerified,
		ReasonInsufficientBalance: dErrors.CodeInsufficientBalance,
		ReasonExceedsMaximum:      dErrors.CodeExceedsMaximum,
	}
	for reason, code := range cases {
		assert.Equal(t, code, reason.Code(), string(reason))
		assert.NotEqual(t, string(reason), reason.Message())
	}
}

// TestCanTransferMatchesRuleOrder compares the evaluator with a direct
// reading of the rule list over random states.
func TestCanTransferMatchesRuleOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		view := newFakeView(rapid.Uint64Range(0, 2000).Draw(t, "max"))
		view.balances[alice] = rapid.Uint64Range(0, 2000).Draw(t, "fromBalance")
		view.balances[bob] = rapid.Uint64Range(0, 2000).Draw(t, "toBalance")
		view.frozen[alice] = rapid.Bool().Draw(t, "fromFrozen")
		view.frozen[bob] = rapid.Bool().Draw(t, "toFrozen")
		fromVerified := rapid.Bool().Draw(t, "fromVerified")
		toVerified := rapid.Bool().Draw(t, "toVerified")
		amount := rapid.Uint64Range(0, 3000).Draw(t, "amount")

		verifier := &fakeVerifier{verified: map[id.Address]bool{alice: fromVerified, bob: toVerified}}
		got := NewEvaluator(admin, verifier).CanTransfer(context.Background(), view, alice, bob, amount)

		var want Reason
		switch {
		case view.frozen[alice]:
			want = ReasonSenderFrozen
		case view.frozen[bob]:
			want = ReasonReceiverFrozen
		case !fromVerified:
			want = ReasonSenderNotVerified
		case !toVerified:
			want = ReasonReceiverNotVerified
		case view.balances[alice] < amount:
			want = ReasonInsufficientBalance
		case view.balances[bob]+amount > view.max:
			want = ReasonExceedsMaximum
		default:
			want = ReasonTransferAllowed
		}
		require.Equal(t, want, got.Reason)
		require.Equal(t, want == ReasonTransferAllowed, got.Allowed)
	})
}

func TestExceedsDoesNotOverflow(t *testing.T) {
	const maxUint = ^uint64(0)
	assert.True(t, exceeds(maxUint-1, 2, maxUint))
	assert.False(t, exceeds(maxUint-1, 1, maxUint))
	assert.True(t, exceeds(10, 0, 5))
}
