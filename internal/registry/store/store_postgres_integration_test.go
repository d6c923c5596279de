//go:build integration

package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	platformpg "propledger/internal/platform/postgres"
	"propledger/internal/registry/models"
	id "propledger/pkg/domain"
	"propledger/pkg/platform/sentinel"
	txcontext "propledger/pkg/platform/tx"
	"propledger/pkg/testutil/containers"
)

type PostgresStoreSuite struct {
	suite.Suite
	pg    *containers.PostgresContainer
	store *PostgresStore
}

func TestPostgresStoreSuite(t *testing.T) {
	suite.Run(t, new(PostgresStoreSuite))
}

func (s *PostgresStoreSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	s.Require().NoError(platformpg.Migrate(context.Background(), s.pg.DB))
	s.store = NewPostgres(s.pg.DB)
}

func (s *PostgresStoreSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background(), "investors"))
}

func (s *PostgresStoreSuite) investor(addr string, active bool) *models.Investor {
	now := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	return &models.Investor{
		Address:      id.MustParseAddress(addr),
		Level:        id.LevelVerified,
		Country:      840,
		ExpiresAt:    models.ExpiryFor(now, 365),
		Active:       active,
		RegisteredAt: now,
		UpdatedAt:    now,
	}
}

func (s *PostgresStoreSuite) TestSaveAndFind() {
	ctx := context.Background()
	inv := s.investor("0x00000000000000000000000000000000000000a1", true)
	s.Require().NoError(s.store.Save(ctx, inv))

	got, err := s.store.FindByAddress(ctx, inv.Address)
	s.Require().NoError(err)
	s.Equal(inv.Address, got.Address)
	s.Equal(id.LevelVerified, got.Level)
	s.Equal(uint16(840), got.Country)
	s.True(got.ExpiresAt.Equal(inv.ExpiresAt))

	s.Run("save upserts", func() {
		inv.Level = id.LevelAccredited
		inv.Active = false
		s.Require().NoError(s.store.Save(ctx, inv))
		got, err := s.store.FindByAddress(ctx, inv.Address)
		s.Require().NoError(err)
		s.Equal(id.LevelAccredited, got.Level)
		s.False(got.Active)
	})

	s.Run("delete removes the record", func() {
		s.Require().NoError(s.store.Delete(ctx, inv.Address))
		_, err := s.store.FindByAddress(ctx, inv.Address)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("unknown address", func() {
		_, err := s.store.FindByAddress(ctx, id.MustParseAddress("0x00000000000000000000000000000000000000ff"))
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}

func (s *PostgresStoreSuite) TestCountActive() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, s.investor("0x00000000000000000000000000000000000000a1", true)))
	s.Require().NoError(s.store.Save(ctx, s.investor("0x00000000000000000000000000000000000000b0", true)))
	s.Require().NoError(s.store.Save(ctx, s.investor("0x00000000000000000000000000000000000000c0", false)))

	n, err := s.store.CountActive(ctx)
	s.Require().NoError(err)
	s.Equal(2, n)
}

func (s *PostgresStoreSuite) TestRollbackDiscardsWrites() {
	ctx := context.Background()
	inv := s.investor("0x00000000000000000000000000000000000000d0", true)

	err := txcontext.RunInTx(ctx, s.pg.DB, func(ctx context.Context) error {
		if err := s.store.Save(ctx, inv); err != nil {
			return err
		}
		return sentinel.ErrUnavailable
	})
	s.ErrorIs(err, sentinel.ErrUnavailable)

	_, err = s.store.FindByAddress(ctx, inv.Address)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
