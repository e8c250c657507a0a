package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AccountSnapshot is a timestamped recording of the account balance written by the bot
type AccountSnapshot struct {
	ID         int64           `json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	BalanceUSD decimal.Decimal `json:"balance_usd"`
}

// MarshalJSON emits the balance as a JSON number rather than a quoted string
func (s AccountSnapshot) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID         int64       `json:"id"`
		CreatedAt  time.Time   `json:"created_at"`
		BalanceUSD json.Number `json:"balance_usd"`
	}{
		ID:         s.ID,
		CreatedAt:  s.CreatedAt,
		BalanceUSD: json.Number(s.BalanceUSD.String()),
	})
}

// BalancePoint is the slice of a snapshot needed for performance math
type BalancePoint struct {
	CreatedAt  time.Time
	BalanceUSD decimal.Decimal
}
