//go:build testutil
// +build testutil

package testdb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/esa-marseille/esa-manager/internal/app/migrations"
)

// DBHandle owns a throwaway PostgreSQL container with the full schema
// applied.
type DBHandle struct {
	Pool   *pgxpool.Pool
	cancel func()
	stop   func(context.Context) error
}

func (h *DBHandle) Close() {
	if h.Pool != nil {
		h.Pool.Close()
	}
	if h.stop != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = h.stop(ctx)
	}
	if h.cancel != nil {
		h.cancel()
	}
}

// Start launches a PostgreSQL container and runs the repository's
// migrations against it.
func Start(ctx context.Context) (*DBHandle, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)

	pg, err := postgres.RunContainer(ctx,
		tc.WithImage("postgres:17-alpine"),
		postgres.WithDatabase("esa_manager"),
		postgres.WithUsername("esa"),
		postgres.WithPassword("esa"),
	)
	if err != nil {
		cancel()
		return nil, err
	}

	uri, err := pg.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = pg.Terminate(ctx)
		cancel()
		return nil, err
	}

	pool, err := pgxpool.New(ctx, uri)
	if err != nil {
		_ = pg.Terminate(ctx)
		cancel()
		return nil, err
	}
	if err := waitReady(ctx, pool); err != nil {
		pool.Close()
		_ = pg.Terminate(ctx)
		cancel()
		return nil, err
	}

	if err := applyMigrations(pool); err != nil {
		pool.Close()
		_ = pg.Terminate(ctx)
		cancel()
		return nil, err
	}

	return &DBHandle{
		Pool:   pool,
		cancel: cancel,
		stop:   pg.Terminate,
	}, nil
}

func waitReady(ctx context.Context, pool *pgxpool.Pool) error {
	dead := time.Now().Add(20 * time.Second)
	for time.Now().Before(dead) {
		if err := pool.Ping(ctx); err == nil {
			return nil
		}
		time.Sleep(200 * time.Millisecond)
	}
	return errors.New("db not ready")
}

func repoRoot() (string, error) {
	wd, _ := os.Getwd()
	dir := wd
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", fmt.Errorf("go.mod not found from %s", wd)
}

func applyMigrations(pool *pgxpool.Pool) error {
	root, err := repoRoot()
	if err != nil {
		return err
	}
	return migrations.NewMigrator(pool).MigrateFromDirectory(filepath.Join(root, "migrations"))
}
