// Package dbtest starts a throwaway Postgres in docker for repo tests.
package dbtest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/fitmix/backend/internal/db"
)

const (
	testDBName     = "fitmix_test"
	testDBPassword = "postgres"
)

// Postgres returns a migrated pool connected to a fresh Postgres container.
// The test is skipped when running with -short or when docker is not reachable.
func Postgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres test in short mode")
	}

	dockerPool, err := dockertest.NewPool("")
	if err != nil {
		t.Skipf("could not create dockertest pool: %s", err)
	}
	if err := dockerPool.Client.Ping(); err != nil {
		t.Skipf("could not ping docker: %s", err)
	}

	pgResource, err := dockerPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16",
		Env: []string{
			"POSTGRES_USER=postgres",
			"POSTGRES_PASSWORD=" + testDBPassword,
			"POSTGRES_DB=" + testDBName,
		},
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		t.Fatalf("dockerpool run postgres: %s", err)
	}
	t.Cleanup(func() {
		if err := dockerPool.Purge(pgResource); err != nil {
			t.Logf("purge postgres container: %s", err)
		}
	})
	_ = pgResource.Expire(120)

	params := db.NewDBPoolParams{
		DBHost:     "localhost",
		DBPort:     pgResource.GetPort("5432/tcp"),
		DBName:     testDBName,
		DBUser:     "postgres",
		DBPassword: testDBPassword,
	}

	var pool *pgxpool.Pool
	dockerPool.MaxWait = time.Minute
	if err := dockerPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		p, err := db.NewDBPool(ctx, params)
		if err != nil {
			return err
		}
		if err := p.Ping(ctx); err != nil {
			p.Close()
			return fmt.Errorf("ping: %w", err)
		}
		pool = p
		return nil
	}); err != nil {
		t.Fatalf("connect to postgres: %s", err)
	}
	t.Cleanup(pool.Close)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.Migrate(ctx, pool); err != nil {
		t.Fatalf("migrate: %s", err)
	}

	return pool
}
