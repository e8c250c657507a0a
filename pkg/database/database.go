package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Config holds database connection configuration
type Config struct {
	Driver          string
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectRetries  int
	RetryInterval   time.Duration
}

// DB wraps a sql.DB pool together with the driver it was opened with
type DB struct {
	db     *sql.DB
	driver string
}

// New opens a connection pool and verifies it with a ping, retrying with
// doubling backoff up to cfg.ConnectRetries extra attempts.
func New(ctx context.Context, cfg Config) (*DB, error) {
	sqlDB, err := sql.Open(cfg.Driver, cfg.DSN)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s database", cfg.Driver)
	}

	if cfg.MaxOpenConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	interval := cfg.RetryInterval
	if interval <= 0 {
		interval = time.Second
	}

	for attempt := 0; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err = sqlDB.PingContext(pingCtx)
		cancel()
		if err == nil {
			break
		}
		if attempt >= cfg.ConnectRetries {
			sqlDB.Close()
			return nil, errors.Wrapf(err, "connect to %s database after %d attempts", cfg.Driver, attempt+1)
		}

		select {
		case <-ctx.Done():
			sqlDB.Close()
			return nil, ctx.Err()
		case <-time.After(interval):
		}
		interval *= 2
	}

	return &DB{db: sqlDB, driver: cfg.Driver}, nil
}

// Wrap adopts an already opened pool
func Wrap(sqlDB *sql.DB, driver string) *DB {
	return &DB{db: sqlDB, driver: driver}
}

// SQL returns the underlying pool
func (d *DB) SQL() *sql.DB {
	return d.db
}

// Driver returns the driver name the pool was opened with
func (d *DB) Driver() string {
	return d.driver
}

// Ping tests the connection
func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

// Close closes the pool
func (d *DB) Close() error {
	return d.db.Close()
}

// String describes the pool for logs without leaking credentials
func (d *DB) String() string {
	stats := d.db.Stats()
	return fmt.Sprintf("%s(open=%d idle=%d)", d.driver, stats.OpenConnections, stats.Idle)
}
