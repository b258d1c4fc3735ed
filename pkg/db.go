package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres SQLSTATE codes the repositories map to domain errors.
const (
	PgCodeUniqueViolation     = "23505"
	PgCodeForeignKeyViolation = "23503"
)

// PgErrorCode returns the SQLSTATE of a wrapped *pgconn.PgError, or "".
func PgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolationError reports a duplicate slug, page key or username.
func IsUniqueViolationError(err error) bool {
	return PgErrorCode(err) == PgCodeUniqueViolation
}

// IsForeignKeyViolationError reports a session insert for a missing admin.
func IsForeignKeyViolationError(err error) bool {
	return PgErrorCode(err) == PgCodeForeignKeyViolation
}
