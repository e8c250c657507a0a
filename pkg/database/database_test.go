package database

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryConfig(t *testing.T) Config {
	return Config{
		Driver:       "sqlite3",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name()),
		MaxOpenConns: 1,
	}
}

func TestNewAndEnsureSchema(t *testing.T) {
	ctx := context.Background()

	db, err := New(ctx, memoryConfig(t))
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, "sqlite3", db.Driver())
	require.NoError(t, db.Ping(ctx))

	require.NoError(t, db.EnsureSchema(ctx))
	// second run is a no-op
	require.NoError(t, db.EnsureSchema(ctx))

	var n int
	require.NoError(t, db.SQL().QueryRowContext(ctx, `SELECT COUNT(*) FROM account_snapshots`).Scan(&n))
	assert.Zero(t, n)
	require.NoError(t, db.SQL().QueryRowContext(ctx, `SELECT COUNT(*) FROM bot_operations`).Scan(&n))
	assert.Zero(t, n)

	assert.Contains(t, db.String(), "sqlite3(")
}

func TestNewUnknownDriver(t *testing.T) {
	_, err := New(context.Background(), Config{Driver: "nope", DSN: "x"})
	assert.Error(t, err)
}

func TestNewRetriesThenFails(t *testing.T) {
	cfg := Config{
		Driver:         "sqlite3",
		DSN:            "file:/nonexistent-dir/for/sure/agent.db",
		ConnectRetries: 1,
		RetryInterval:  time.Millisecond,
	}

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "after 2 attempts")
}

func TestNewStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := Config{
		Driver:         "sqlite3",
		DSN:            "file:/nonexistent-dir/for/sure/agent.db",
		ConnectRetries: 5,
		RetryInterval:  time.Hour,
	}

	_, err := New(ctx, cfg)
	assert.Error(t, err)
}

func TestEnsureSchemaUnknownDriver(t *testing.T) {
	db, err := New(context.Background(), memoryConfig(t))
	require.NoError(t, err)
	defer db.Close()

	other := Wrap(db.SQL(), "mysql")
	assert.Error(t, other.EnsureSchema(context.Background()))
}
