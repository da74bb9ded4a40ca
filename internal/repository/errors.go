package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrDuplicate is returned when an insert violates a unique index. The
// ledger and mission claim paths turn it into a domain conflict so duplicate
// grants fail loudly instead of double-crediting.
var ErrDuplicate = errors.New("duplicate row")

const uniqueViolation = "23505"

func mapInsertErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return ErrDuplicate
	}
	return err
}
