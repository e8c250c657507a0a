package repository

import (
	"context"
	"database/sql"
	"encoding/json"

	"tradingagent/backend/internal/model"
	"tradingagent/backend/pkg/database"

	"github.com/pkg/errors"
)

// ErrInvalidLimit is returned for a row limit below one
var ErrInvalidLimit = errors.New("limit must be a positive integer")

type OperationRepository struct {
	db *sql.DB
}

func NewOperationRepository(db *database.DB) *OperationRepository {
	return &OperationRepository{
		db: db.SQL(),
	}
}

// ListRecent returns at most limit operations, newest first
func (r *OperationRepository) ListRecent(ctx context.Context, limit int) ([]model.BotOperation, error) {
	if limit < 1 {
		return nil, ErrInvalidLimit
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, created_at, operation, symbol, direction, reason, raw_payload
		FROM bot_operations
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "query bot operations")
	}
	defer rows.Close()

	ops := make([]model.BotOperation, 0, limit)
	for rows.Next() {
		var (
			op                        model.BotOperation
			symbol, direction, reason sql.NullString
			payload                   []byte
		)
		if err := rows.Scan(&op.ID, &op.CreatedAt, &op.Operation, &symbol, &direction, &reason, &payload); err != nil {
			return nil, errors.Wrap(err, "scan bot operation")
		}

		op.Symbol = nullableString(symbol)
		op.Direction = nullableString(direction)
		op.Reason = nullableString(reason)
		if len(payload) > 0 && json.Valid(payload) {
			op.RawPayload = json.RawMessage(payload)
		}

		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate bot operations")
	}

	return ops, nil
}

// CountByType returns the number of operations per operation label
func (r *OperationRepository) CountByType(ctx context.Context) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT operation, COUNT(*)
		FROM bot_operations
		GROUP BY operation`)
	if err != nil {
		return nil, errors.Wrap(err, "count bot operations")
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var (
			operation string
			n         int64
		)
		if err := rows.Scan(&operation, &n); err != nil {
			return nil, errors.Wrap(err, "scan operation count")
		}
		counts[operation] = n
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate operation counts")
	}

	return counts, nil
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
