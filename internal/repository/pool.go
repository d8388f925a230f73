package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// NewPool opens a connection pool for dsn. A non-empty password replaces the
// one embedded in dsn, so the secret can live apart from the URL.
func NewPool(ctx context.Context, dsn, password string) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("repository: invalid db source: %w", err)
	}
	if password != "" {
		poolConfig.ConnConfig.Password = password
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("repository: cannot create pool: %w", err)
	}
	return pool, nil
}
