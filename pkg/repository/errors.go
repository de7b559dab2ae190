package repository

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// PostgreSQL SQLSTATE codes for constraint violations.
const (
	CodeUniqueViolation = "23505"
	CodeCheckViolation  = "23514"
)

// Errors is the set of domain errors a repository reports in place of
// driver errors. A nil field leaves the matching driver error unchanged.
type Errors struct {
	NotFound  error
	Duplicate error
	Invalid   error
}

// Map translates err into the domain error set. sql.ErrNoRows maps to
// NotFound, unique violations to Duplicate, and check constraint
// violations to Invalid. Other errors are returned unchanged.
func (e Errors) Map(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) && e.NotFound != nil {
		return e.NotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == CodeUniqueViolation && e.Duplicate != nil:
			return e.Duplicate
		case pgErr.Code == CodeCheckViolation && e.Invalid != nil:
			return e.Invalid
		}
	}

	return err
}

// MapError maps err with the not-found and duplicate errors only.
func MapError(err error, notFoundErr, duplicateErr error) error {
	return Errors{NotFound: notFoundErr, Duplicate: duplicateErr}.Map(err)
}
