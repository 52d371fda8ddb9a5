package db

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"restaurant-site/pkg/config"
	"restaurant-site/pkg/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schema string

// ConnectDB opens the shared connection pool. Callers beyond MaxConnections
// wait for a free connection. The pool must be closed at shutdown.
func ConnectDB(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.MaxConnections > 0 {
		poolConfig.MaxConns = cfg.MaxConnections
	}

	return connect(ctx, poolConfig, log)
}

// ConnectURL opens a pool from a connection URL.
func ConnectURL(ctx context.Context, url string, log *logger.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection URL: %w", err)
	}
	return connect(ctx, poolConfig, log)
}

func connect(ctx context.Context, poolConfig *pgxpool.Config, log *logger.Logger) (*pgxpool.Pool, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Action("db_connected").Info("Connected to PostgreSQL database", "max_conns", poolConfig.MaxConns)
	return pool, nil
}

// Migrate creates the users, orders and reservations tables when missing.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
