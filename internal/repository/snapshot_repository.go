// Package repository provides read-only access to the tables written by the trading bot.
package repository

import (
	"context"
	"database/sql"

	"tradingagent/backend/internal/model"
	"tradingagent/backend/pkg/database"

	"github.com/pkg/errors"
)

type SnapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *database.DB) *SnapshotRepository {
	return &SnapshotRepository{
		db: db.SQL(),
	}
}

// Latest returns the most recent snapshot. found is false when the table is empty.
func (r *SnapshotRepository) Latest(ctx context.Context) (snapshot model.AccountSnapshot, found bool, err error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, created_at, balance_usd
		FROM account_snapshots
		ORDER BY created_at DESC, id DESC
		LIMIT 1`)

	err = row.Scan(&snapshot.ID, &snapshot.CreatedAt, &snapshot.BalanceUSD)
	if errors.Is(err, sql.ErrNoRows) {
		return model.AccountSnapshot{}, false, nil
	}
	if err != nil {
		return model.AccountSnapshot{}, false, errors.Wrap(err, "query latest account snapshot")
	}

	return snapshot, true, nil
}

// ListBalancesAsc returns every snapshot's time and balance, oldest first
func (r *SnapshotRepository) ListBalancesAsc(ctx context.Context) ([]model.BalancePoint, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT created_at, balance_usd
		FROM account_snapshots
		ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, errors.Wrap(err, "query account snapshots")
	}
	defer rows.Close()

	var points []model.BalancePoint
	for rows.Next() {
		var p model.BalancePoint
		if err := rows.Scan(&p.CreatedAt, &p.BalanceUSD); err != nil {
			return nil, errors.Wrap(err, "scan account snapshot")
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate account snapshots")
	}

	return points, nil
}
