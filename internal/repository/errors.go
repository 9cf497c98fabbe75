package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	ErrNotFound  = errors.New("account not found")
	ErrDuplicate = errors.New("account already exists")
	// ErrDuplicateToken means another account holds the same verification digest.
	ErrDuplicateToken = errors.New("verification token already in use")
	// ErrStale means the account changed after it was read.
	ErrStale = errors.New("account was modified concurrently")
)

// uniqueViolation is the postgres SQLSTATE for unique_violation.
const uniqueViolation = "23505"

const verifyTokenConstraint = "accounts_verify_token_hash_key"

// mapDBErr translates driver errors into repository errors.
func mapDBErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && string(pqErr.Code) == uniqueViolation {
		if pqErr.Constraint == verifyTokenConstraint {
			return ErrDuplicateToken
		}
		return ErrDuplicate
	}
	return err
}
