//go:build integration

package postgres_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	platformpg "propledger/internal/platform/postgres"
	id "propledger/pkg/domain"
	audit "propledger/pkg/platform/audit"
	"propledger/pkg/platform/audit/store/postgres"
	txcontext "propledger/pkg/platform/tx"
	"propledger/pkg/testutil/containers"
)

type OutboxSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *postgres.Store
}

func TestOutboxSuite(t *testing.T) {
	suite.Run(t, new(OutboxSuite))
}

func (s *OutboxSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(platformpg.Migrate(context.Background(), s.pg.DB))
	s.store = postgres.New(s.pg.DB)
}

func (s *OutboxSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background(), "outbox"))
}

func (s *OutboxSuite) event(seq uint64, action audit.Action) audit.Event {
	return audit.Event{
		ID:        uuid.New(),
		Sequence:  seq,
		Source:    audit.SourceLedger,
		Action:    action,
		Timestamp: time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC),
		Actor:     id.MustParseAddress("0x00000000000000000000000000000000000000ad"),
		Subject:   id.MustParseAddress("0x00000000000000000000000000000000000000a1"),
		Amount:    seq * 10,
	}
}

func (s *OutboxSuite) TestAppendFetchMark() {
	ctx := context.Background()
	first := s.event(1, audit.ActionTransfer)
	second := s.event(2, audit.ActionAccountFrozen)
	s.Require().NoError(s.store.Append(ctx, second))
	s.Require().NoError(s.store.Append(ctx, first))

	last, err := s.store.LastSequence(ctx)
	s.Require().NoError(err)
	s.Equal(uint64(2), last)

	entries, err := s.store.FetchUnpublished(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 2)
	s.Equal(first.ID, entries[0].ID, "ordered by sequence")
	s.Equal(string(audit.ActionTransfer), entries[0].EventType)
	s.Equal(first.Subject.String(), entries[0].Key)

	var decoded audit.Event
	s.Require().NoError(json.Unmarshal(entries[0].Payload, &decoded))
	s.Equal(uint64(10), decoded.Amount)

	s.Require().NoError(s.store.MarkPublished(ctx, []uuid.UUID{first.ID}))
	entries, err = s.store.FetchUnpublished(ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(entries, 1)
	s.Equal(second.ID, entries[0].ID)
}

func (s *OutboxSuite) TestEmptyOutbox() {
	last, err := s.store.LastSequence(context.Background())
	s.Require().NoError(err)
	s.Zero(last)
}

func (s *OutboxSuite) TestAppendJoinsCallerTransaction() {
	ctx := context.Background()
	rollback := errors.New("abort")
	err := txcontext.RunInTx(ctx, s.pg.DB, func(ctx context.Context) error {
		s.Require().NoError(s.store.Append(ctx, s.event(1, audit.ActionTransfer)))
		return rollback
	})
	s.ErrorIs(err, rollback)

	entries, err := s.store.FetchUnpublished(ctx, 10)
	s.Require().NoError(err)
	s.Empty(entries)
}
