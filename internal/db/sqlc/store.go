package db

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Store provides all functions to execute db queries and transactions.
type Store interface {
	Querier
	CreateVNPayPaymentTx(ctx context.Context, arg CreateVNPayPaymentTxParams) (Payment, error)
	HandleVNPayCallbackTx(ctx context.Context, arg HandleVNPayCallbackTxParams) (HandleVNPayCallbackTxResult, error)
	Ping(ctx context.Context) error
}

// ConnPool is the part of *pgxpool.Pool the store needs.
type ConnPool interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

type SQLStore struct {
	*Queries
	connPool ConnPool
}

// NewStore creates a new Store.
func NewStore(connPool ConnPool) Store {
	return &SQLStore{
		Queries:  New(connPool),
		connPool: connPool,
	}
}

// Ping checks if the database connection is alive.
func (store *SQLStore) Ping(ctx context.Context) error {
	return store.connPool.Ping(ctx)
}
