// Package testutil holds helpers shared by integration tests.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// clientsLockKey serializes packages that rebuild the clients table.
const clientsLockKey int64 = 0x636c6e74

var emailSeq atomic.Uint64

// RequireEnv skips the test unless key is set.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

// LockClients holds a session advisory lock on a dedicated connection until
// the test finishes.
func LockClients(t testing.TB, ctx context.Context, pool *pgxpool.Pool) {
	t.Helper()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire connection: %v", err)
	}
	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", clientsLockKey); err != nil {
		conn.Release()
		t.Fatalf("take clients lock: %v", err)
	}

	t.Cleanup(func() {
		defer conn.Release()
		if _, err := conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", clientsLockKey); err != nil {
			t.Logf("release clients lock: %v", err)
		}
	})
}

// ResetClientsSchema recreates the clients table from the checked-in schema.
func ResetClientsSchema(ctx context.Context, pool *pgxpool.Pool) error {
	path, err := schemaPath()
	if err != nil {
		return err
	}
	ddl, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin schema reset: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, "DROP TABLE IF EXISTS clients"); err != nil {
		return fmt.Errorf("drop clients: %w", err)
	}
	if _, err := tx.Exec(ctx, string(ddl)); err != nil {
		return fmt.Errorf("create clients: %w", err)
	}
	return tx.Commit(ctx)
}

func schemaPath() (string, error) {
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("locate testutil source")
	}
	return filepath.Join(filepath.Dir(file), "..", "repository", "schema.sql"), nil
}

// FlushRedis empties the selected Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// UniqueEmail returns an address no other call in this process has returned.
func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%d-%d@example.com", prefix, time.Now().UnixNano(), emailSeq.Add(1))
}
