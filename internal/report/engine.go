package report

import (
	"slices"
	"strconv"
	"strings"
	"time"

	"tradingagent/backend/internal/model"

	"github.com/shopspring/decimal"
)

const (
	// DisplayPlaces is the rounding applied to every number in a summary
	DisplayPlaces = 2

	// TimestampLayout is ISO 8601 with sub-second precision when present
	TimestampLayout = time.RFC3339Nano
)

var hundred = decimal.NewFromInt(100)

// NormalizeLimit parses a caller supplied row limit. Missing, non-numeric or
// non-positive input falls back to def; anything above max is clamped.
func NormalizeLimit(raw string, def, max int) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return ClampLimit(def, def, max)
	}
	return ClampLimit(limit, def, max)
}

// ClampLimit replaces a non-positive limit with def and caps it at max (when max > 0)
func ClampLimit(limit, def, max int) int {
	if limit < 1 {
		limit = def
	}
	if max > 0 && limit > max {
		limit = max
	}
	return limit
}

// AccountStatus passes the latest snapshot through, or reports no data
func AccountStatus(snapshot model.AccountSnapshot, found bool) Result {
	if !found {
		return NoData("No account snapshots found")
	}
	return OK(snapshot)
}

// OperationsListing returns the operations as-is with the number returned
func OperationsListing(ops []model.BotOperation) Result {
	if ops == nil {
		ops = []model.BotOperation{}
	}
	return OKList(ops, len(ops))
}

// ReturnPercent computes (current-initial)/initial*100 at full precision.
// ok is false when initial is zero and the return is undefined.
func ReturnPercent(initial, current decimal.Decimal) (pct decimal.Decimal, ok bool) {
	if initial.IsZero() {
		return decimal.Zero, false
	}
	return current.Sub(initial).Div(initial).Mul(hundred), true
}

// Performance derives the performance summary from the full balance history
// and the per-type operation counts.
func Performance(points []model.BalancePoint, countsByType map[string]int64) Result {
	if len(points) < 2 {
		return InsufficientData("Need at least 2 snapshots to calculate performance")
	}

	if !slices.IsSortedFunc(points, compareByTime) {
		points = slices.Clone(points)
		slices.SortStableFunc(points, compareByTime)
	}

	first, last := points[0], points[len(points)-1]

	if countsByType == nil {
		countsByType = map[string]int64{}
	}

	summary := model.PerformanceSummary{
		InitialBalance:   first.BalanceUSD.Round(DisplayPlaces).InexactFloat64(),
		CurrentBalance:   last.BalanceUSD.Round(DisplayPlaces).InexactFloat64(),
		TotalSnapshots:   len(points),
		OperationsByType: countsByType,
		FirstSnapshot:    first.CreatedAt.Format(TimestampLayout),
		LastSnapshot:     last.CreatedAt.Format(TimestampLayout),
	}

	pct, ok := ReturnPercent(first.BalanceUSD, last.BalanceUSD)
	if !ok {
		return UndefinedMetric(summary, "Initial balance is zero, total return percent is undefined")
	}

	rounded := pct.Round(DisplayPlaces).InexactFloat64()
	summary.TotalReturnPercent = &rounded

	return OK(summary)
}

func compareByTime(a, b model.BalancePoint) int {
	return a.CreatedAt.Compare(b.CreatedAt)
}
