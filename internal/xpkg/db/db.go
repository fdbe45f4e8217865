package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"orders-bot/internal/xpkg/config"
)

type DB struct {
	pool *pgxpool.Pool
}

// Start opens a connection pool and verifies it with a ping.
func Start(ctx context.Context, dbCfg *config.Postgres) (*DB, error) {
	dsn := fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		dbCfg.User,
		dbCfg.Password,
		dbCfg.Host,
		dbCfg.Port,
		dbCfg.Database,
	)

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

func (db *DB) GetPool() *pgxpool.Pool {
	return db.pool
}

// IsAlive reports whether the pool can still reach the database.
func (db *DB) IsAlive(ctx context.Context) error {
	if db.pool == nil {
		return fmt.Errorf("database pool is not initialized")
	}
	return db.pool.Ping(ctx)
}

func (db *DB) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}
