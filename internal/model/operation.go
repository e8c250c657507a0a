package model

import (
	"encoding/json"
	"time"
)

// BotOperation is a categorized action executed by the bot.
// Only CreatedAt and Operation carry meaning here; the rest is passed through.
type BotOperation struct {
	ID         int64           `json:"id"`
	CreatedAt  time.Time       `json:"created_at"`
	Operation  string          `json:"operation"`
	Symbol     *string         `json:"symbol,omitempty"`
	Direction  *string         `json:"direction,omitempty"`
	Reason     *string         `json:"reason,omitempty"`
	RawPayload json.RawMessage `json:"raw_payload,omitempty"`
}
