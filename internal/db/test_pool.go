package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

const defaultTestDatabaseURL = "postgres://postgres@localhost:5432/neural_space_test?sslmode=disable"

// NewTestPool connects to TEST_DATABASE_URL (or a local default) and
// applies the schema. Used by the integration tests of the repositories.
func NewTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		dsn = defaultTestDatabaseURL
	}
	t.Logf("using test db: %s", dsn)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := NewDBPool(ctx, NewDBPoolParams{DatabaseURL: dsn, MaxConns: 4})
	require.NoError(t, err)
	require.NoError(t, Migrate(ctx, pool))

	t.Cleanup(pool.Close)
	return pool
}
