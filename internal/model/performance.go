package model

// PerformanceSummary is the derived report over the full snapshot history.
// TotalReturnPercent is nil when the initial balance is zero.
type PerformanceSummary struct {
	InitialBalance     float64          `json:"initial_balance"`
	CurrentBalance     float64          `json:"current_balance"`
	TotalReturnPercent *float64         `json:"total_return_percent"`
	TotalSnapshots     int              `json:"total_snapshots"`
	OperationsByType   map[string]int64 `json:"operations_by_type"`
	FirstSnapshot      string           `json:"first_snapshot"`
	LastSnapshot       string           `json:"last_snapshot"`
}
