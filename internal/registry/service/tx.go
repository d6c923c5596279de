package service

import (
	"context"
	"database/sql"
	"sync"

	txcontext "propledger/pkg/platform/tx"
)

// StoreTx provides the serialization and atomicity boundary for registry
// mutations. Every mutation runs inside RunInTx, one at a time.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// inMemoryStoreTx serializes mutations with a single coarse lock.
type inMemoryStoreTx struct {
	mu sync.Mutex
}

func newInMemoryStoreTx() *inMemoryStoreTx {
	return &inMemoryStoreTx{}
}

func (t *inMemoryStoreTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return fn(ctx)
}

// PostgresStoreTx serializes mutations in-process and wraps each one in a SQL
// transaction so the record write and its outbox event commit together.
type PostgresStoreTx struct {
	mu sync.Mutex
	db *sql.DB
}

func NewPostgresStoreTx(db *sql.DB) *PostgresStoreTx {
	return &PostgresStoreTx{db: db}
}

func (t *PostgresStoreTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return txcontext.RunInTx(ctx, t.db, fn)
}
