// Package database provides PostgreSQL access for the matching service.
package database

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"tavara-care/internal/config"
	"tavara-care/internal/utils"
)

// lambdaMaxConns caps the pool per Lambda container; each invocation runs
// one assignment or listing at a time.
const lambdaMaxConns = 2

// DB wraps the pgx pool shared by the repositories.
type DB struct {
	pool *pgxpool.Pool
}

// New opens the pool and verifies it with a ping.
func New(ctx context.Context, cfg *config.Config) (*DB, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	poolConfig, err := pgxpool.ParseConfig(cfg.DatabaseURL())
	if err != nil {
		return nil, fmt.Errorf("failed to parse database URL: %w", err)
	}
	applyPoolLimits(poolConfig, cfg.DBMaxConns, os.Getenv("AWS_LAMBDA_FUNCTION_NAME") != "")

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	utils.Named("database").Debug("Connection pool ready",
		zap.String("host", poolConfig.ConnConfig.Host),
		zap.String("database", poolConfig.ConnConfig.Database),
		zap.Int32("max_conns", poolConfig.MaxConns),
	)
	return &DB{pool: pool}, nil
}

// applyPoolLimits sizes the pool. Lambda containers keep a small pool that
// drops idle connections quickly; the server and CLI use maxConns.
func applyPoolLimits(pc *pgxpool.Config, maxConns int, lambda bool) {
	if maxConns <= 0 {
		maxConns = 10
	}
	pc.MaxConns = int32(maxConns)
	pc.MinConns = 1
	pc.MaxConnLifetime = time.Hour
	pc.MaxConnIdleTime = 30 * time.Minute
	pc.HealthCheckPeriod = time.Minute

	if lambda {
		pc.MaxConns = min(pc.MaxConns, lambdaMaxConns)
		pc.MinConns = 0
		pc.MaxConnIdleTime = 5 * time.Minute
	}
}

func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// HealthCheck pings the database.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func (db *DB) QueryRowContext(ctx context.Context, sql string, args ...any) pgx.Row {
	return db.pool.QueryRow(ctx, sql, args...)
}

func (db *DB) QueryContext(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return db.pool.Query(ctx, sql, args...)
}

// WithTransaction runs fn in a transaction. An error from fn or the commit
// rolls it back.
func (db *DB) WithTransaction(ctx context.Context, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	if err = fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
