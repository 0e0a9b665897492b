package db

import (
	"errors"
	
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	UniqueViolationCode = "23505"
)

const (
	OnePendingPaymentConstraint = "payments_one_pending_per_order"
)

var (
	ErrRecordNotFound  = pgx.ErrNoRows
	ErrOrderNotPending = errors.New("order is not waiting for payment")
	ErrPaymentConflict = errors.New("another payment for this order is being created")
)

// ErrorDescription returns the error code and constraint name from a Postgres error.
func ErrorDescription(err error) (errCode string, constraintName string) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName
	}
	
	return
}
