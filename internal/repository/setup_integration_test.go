//go:build integration
// +build integration

package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("flowtasks_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pool, err := pgxpool.New(ctx, connStr)
	require.NoError(t, err)
	require.NoError(t, pool.Ping(ctx))

	applyMigrations(t, pool)

	t.Cleanup(func() {
		pool.Close()
		require.NoError(t, container.Terminate(ctx))
	})

	return pool
}

func applyMigrations(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	paths := []string{
		filepath.Join("..", "..", "migrations", "0001_init.sql"),
		filepath.Join("migrations", "0001_init.sql"),
	}

	var sql []byte
	var err error
	for _, path := range paths {
		sql, err = os.ReadFile(path)
		if err == nil {
			break
		}
	}
	require.NoError(t, err, "migrations/0001_init.sql not found")

	_, err = pool.Exec(context.Background(), string(sql))
	require.NoError(t, err)
}
