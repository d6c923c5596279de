package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"propledger/internal/registry/models"
	id "propledger/pkg/domain"
	"propledger/pkg/platform/sentinel"
	txcontext "propledger/pkg/platform/tx"
)

// PostgresStore persists investor records in the investors table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgres constructs a PostgreSQL-backed investor store.
func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbQuerier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (s *PostgresStore) querier(ctx context.Context) dbQuerier {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) FindByAddress(ctx context.Context, addr id.Address) (*models.Investor, error) {
	query := `
		SELECT address, level, country, expires_at, active, registered_at, updated_at
		FROM investors
		WHERE address = $1
	`
	var (
		inv     models.Investor
		address string
		level   int16
		country int32
	)
	err := s.querier(ctx).QueryRowContext(ctx, query, string(addr)).Scan(
		&address, &level, &country, &inv.ExpiresAt, &inv.Active, &inv.RegisteredAt, &inv.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find investor: %w", err)
	}
	inv.Address = id.Address(address)
	inv.Level = id.VerificationLevel(level)
	inv.Country = uint16(country)
	return &inv, nil
}

func (s *PostgresStore) Save(ctx context.Context, inv *models.Investor) error {
	query := `
		INSERT INTO investors (address, level, country, expires_at, active, registered_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (address) DO UPDATE SET
			level = EXCLUDED.level,
			country = EXCLUDED.country,
			expires_at = EXCLUDED.expires_at,
			active = EXCLUDED.active,
			registered_at = EXCLUDED.registered_at,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.querier(ctx).ExecContext(ctx, query,
		string(inv.Address),
		int16(inv.Level),
		int32(inv.Country),
		inv.ExpiresAt,
		inv.Active,
		inv.RegisteredAt,
		inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("save investor: %w", err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, addr id.Address) error {
	if _, err := s.querier(ctx).ExecContext(ctx, `DELETE FROM investors WHERE address = $1`, string(addr)); err != nil {
		return fmt.Errorf("delete investor: %w", err)
	}
	return nil
}

func (s *PostgresStore) CountActive(ctx context.Context) (int, error) {
	var n int
	if err := s.querier(ctx).QueryRowContext(ctx, `SELECT COUNT(*) FROM investors WHERE active`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count active investors: %w", err)
	}
	return n, nil
}
