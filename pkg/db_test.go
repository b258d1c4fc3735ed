package pkg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorClassification(t *testing.T) {
	uniqueErr := fmt.Errorf("insert project: %w", &pgconn.PgError{Code: PgCodeUniqueViolation})
	fkErr := fmt.Errorf("create session: %w", fmt.Errorf("insert session: %w", &pgconn.PgError{Code: PgCodeForeignKeyViolation}))
	otherErr := &pgconn.PgError{Code: "40001"}

	assert.Equal(t, PgCodeUniqueViolation, PgErrorCode(uniqueErr))
	assert.Equal(t, "40001", PgErrorCode(otherErr))
	assert.Empty(t, PgErrorCode(errors.New("boom")))
	assert.Empty(t, PgErrorCode(nil))

	assert.True(t, IsUniqueViolationError(uniqueErr))
	assert.False(t, IsForeignKeyViolationError(uniqueErr))
	assert.True(t, IsForeignKeyViolationError(fkErr))
	assert.False(t, IsUniqueViolationError(fkErr))
	assert.False(t, IsUniqueViolationError(otherErr))
	assert.False(t, IsUniqueViolationError(nil))
}
