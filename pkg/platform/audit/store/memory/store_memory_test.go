package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "propledger/pkg/domain"
	audit "propledger/pkg/platform/audit"
)

func TestInMemoryStore(t *testing.T) {
	ctx := context.Background()
	alice := id.MustParseAddress("0x00000000000000000000000000000000000000a1")
	bob := id.MustParseAddress("0x00000000000000000000000000000000000000b0")

	s := NewInMemoryStore()
	require.NoError(t, s.Append(ctx, audit.Event{Action: audit.ActionInvestorRegistered, Subject: alice}))
	require.NoError(t, s.Append(ctx, audit.Event{Action: audit.ActionTransfer, Subject: alice, Counterparty: bob}))
	require.NoError(t, s.Append(ctx, audit.Event{Action: audit.ActionAccountFrozen, Subject: bob}))

	t.Run("range is bounded", func(t *testing.T) {
		head, err := s.Range(ctx, 2)
		require.NoError(t, err)
		require.Len(t, head, 2)
		assert.Equal(t, audit.ActionInvestorRegistered, head[0].Action)

		all, err := s.Range(ctx, 50)
		require.NoError(t, err)
		assert.Len(t, all, 3)
	})

	t.Run("by address matches either side", func(t *testing.T) {
		events, err := s.ListByAddress(ctx, bob)
		require.NoError(t, err)
		require.Len(t, events, 2)
		assert.Equal(t, audit.ActionTransfer, events[0].Action)
	})

	t.Run("by action", func(t *testing.T) {
		events, err := s.ListByAction(ctx, audit.ActionAccountFrozen)
		require.NoError(t, err)
		require.Len(t, events, 1)
	})

	t.Run("clear", func(t *testing.T) {
		s.Clear()
		events, err := s.ListAll(ctx)
		require.NoError(t, err)
		assert.Empty(t, events)
	})
}
