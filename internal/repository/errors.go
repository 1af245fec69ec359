package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// SQLSTATE codes the store-access layer classifies.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// classify maps constraint violations to the supplied typed errors. Other
// errors are returned unchanged.
func classify(err error, onDuplicate, onInvalidReference error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgUniqueViolation:
		if onDuplicate != nil {
			return onDuplicate
		}
	case pgForeignKeyViolation:
		if onInvalidReference != nil {
			return onInvalidReference
		}
	}

	return err
}
