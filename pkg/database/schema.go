package database

import (
	"context"

	"github.com/pkg/errors"
)

// Tables are owned by the trading bot. EnsureSchema only creates them when
// missing so the API can start against a fresh database; it never touches rows.
var schemas = map[string][]string{
	"postgres": {
		`CREATE TABLE IF NOT EXISTS account_snapshots (
			id BIGSERIAL PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			balance_usd NUMERIC(20, 8) NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_account_snapshots_created_at ON account_snapshots (created_at)`,
		`CREATE TABLE IF NOT EXISTS bot_operations (
			id BIGSERIAL PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			operation TEXT NOT NULL,
			symbol TEXT,
			direction TEXT,
			reason TEXT,
			raw_payload JSONB
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bot_operations_created_at ON bot_operations (created_at)`,
	},
	"sqlite3": {
		`CREATE TABLE IF NOT EXISTS account_snapshots (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			balance_usd NUMERIC NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_account_snapshots_created_at ON account_snapshots (created_at)`,
		`CREATE TABLE IF NOT EXISTS bot_operations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			operation TEXT NOT NULL,
			symbol TEXT,
			direction TEXT,
			reason TEXT,
			raw_payload TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_bot_operations_created_at ON bot_operations (created_at)`,
	},
}

// EnsureSchema creates the snapshot and operation tables if they do not exist
func (d *DB) EnsureSchema(ctx context.Context) error {
	stmts, ok := schemas[d.driver]
	if !ok {
		return errors.Errorf("no schema for driver %q", d.driver)
	}

	for _, stmt := range stmts {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "ensure schema")
		}
	}
	return nil
}
