package db

import (
	"context"
	"fmt"

	"github.com/exaring/otelpgx"
	"github.com/jackc/pgx/v5/pgxpool"
)

type NewDBPoolParams struct {
	DBHost         string
	DBPort         string
	DBName         string
	DBUser         string
	DBPassword     string
	TracingEnabled bool
}

func (p NewDBPoolParams) connString() string {
	user := p.DBUser
	if user == "" {
		user = "postgres"
	}
	if p.DBPassword != "" {
		user += ":" + p.DBPassword
	}
	return fmt.Sprintf(
		"postgres://%s@%s:%s/%s",
		user, p.DBHost, p.DBPort, p.DBName,
	)
}

func NewDBPool(ctx context.Context, params NewDBPoolParams) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(params.connString())
	if err != nil {
		return nil, fmt.Errorf("parse db config: %w", err)
	}

	if params.TracingEnabled {
		poolConfig.ConnConfig.Tracer = otelpgx.NewTracer()
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	return db, nil
}

// Migrate creates the collection tables if missing.
func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

// Schema holds one table per document collection. Documents are stored as JSONB,
// with the owner id pulled out into its own column for equality filters.
const Schema = `
CREATE TABLE IF NOT EXISTS users
(
    id            UUID PRIMARY KEY,
    email         VARCHAR NOT NULL UNIQUE,
    password_hash VARCHAR NOT NULL,
    display_name  VARCHAR NOT NULL DEFAULT '',
    photo_url     VARCHAR NOT NULL DEFAULT '',
    created_at    TIMESTAMP WITH TIME ZONE NOT NULL
);

CREATE TABLE IF NOT EXISTS workouts
(
    id         UUID PRIMARY KEY,
    owner_id   UUID NOT NULL,
    data       JSONB NOT NULL,
    created_at TIMESTAMP WITH TIME ZONE NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_workouts_owner_id ON workouts USING btree (owner_id);

CREATE TABLE IF NOT EXISTS completed_workouts
(
    id           UUID PRIMARY KEY,
    owner_id     UUID NOT NULL,
    data         JSONB NOT NULL,
    completed_at TIMESTAMP WITH TIME ZONE NOT NULL
);
CREATE INDEX IF NOT EXISTS ix_completed_workouts_owner_id ON completed_workouts USING btree (owner_id);
`
