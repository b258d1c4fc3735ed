package db

import (
	"context"
	"fmt"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

const defaultHealthCheckPeriod = 30 * time.Second

type NewDBPoolParams struct {
	// DatabaseURL is a postgres:// connection string, e.g. the value of DATABASE_URL.
	DatabaseURL string
	// ApplicationName shows up in pg_stat_activity.
	ApplicationName string
	MaxConns        int32
	MaxConnIdleTime time.Duration
	TracingEnabled  bool
}

// PoolConfig parses the connection string and applies the overrides set in
// params. Zero values keep the pgxpool defaults.
func PoolConfig(params NewDBPoolParams) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(params.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	if params.MaxConns > 0 {
		poolConfig.MaxConns = params.MaxConns
	}
	if params.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = params.MaxConnIdleTime
	}
	poolConfig.HealthCheckPeriod = defaultHealthCheckPeriod
	if params.ApplicationName != "" {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = params.ApplicationName
	}
	if params.TracingEnabled {
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	return poolConfig, nil
}

// NewDBPool connects lazily; callers ping when they need the database up.
func NewDBPool(ctx context.Context, params NewDBPoolParams) (*pgxpool.Pool, error) {
	poolConfig, err := PoolConfig(params)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}
	return pool, nil
}
