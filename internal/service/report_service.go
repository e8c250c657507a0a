package service

import (
	"context"
	"time"

	"tradingagent/backend/internal/model"
	"tradingagent/backend/internal/report"
	"tradingagent/backend/internal/util"
	"tradingagent/backend/pkg/logger"
	"tradingagent/backend/pkg/redis"
)

// SnapshotStore reads account snapshots
type SnapshotStore interface {
	Latest(ctx context.Context) (model.AccountSnapshot, bool, error)
	ListBalancesAsc(ctx context.Context) ([]model.BalancePoint, error)
}

// OperationStore reads bot operations
type OperationStore interface {
	ListRecent(ctx context.Context, limit int) ([]model.BotOperation, error)
	CountByType(ctx context.Context) (map[string]int64, error)
}

// Cache stores JSON values with a TTL
type Cache interface {
	GetJSON(ctx context.Context, key string, dest interface{}) error
	SetJSON(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Limits bounds the operations listing
type Limits struct {
	Default int
	Max     int
}

type cachedPerformance struct {
	Status  report.Status             `json:"status"`
	Message string                    `json:"message,omitempty"`
	Summary *model.PerformanceSummary `json:"summary"`
}

type ReportService struct {
	snapshots  SnapshotStore
	operations OperationStore
	limits     Limits
	cache      Cache
	cacheTTL   time.Duration
	log        *logger.Logger
}

func NewReportService(snapshots SnapshotStore, operations OperationStore, limits Limits, log *logger.Logger) *ReportService {
	return &ReportService{
		snapshots:  snapshots,
		operations: operations,
		limits:     limits,
		log:        log,
	}
}

// WithCache enables caching of performance summaries. A nil cache or
// non-positive ttl leaves caching off.
func (s *ReportService) WithCache(cache Cache, ttl time.Duration) *ReportService {
	if cache != nil && ttl > 0 {
		s.cache = cache
		s.cacheTTL = ttl
	}
	return s
}

// Limits returns the configured listing bounds
func (s *ReportService) Limits() Limits {
	return s.limits
}

// Status reports the latest account snapshot
func (s *ReportService) Status(ctx context.Context) (report.Result, error) {
	snapshot, found, err := s.snapshots.Latest(ctx)
	if err != nil {
		return report.Result{}, util.ErrStore("Failed to load account status", err)
	}
	return report.AccountStatus(snapshot, found), nil
}

// Operations lists the most recent operations, newest first
func (s *ReportService) Operations(ctx context.Context, limit int) (report.Result, error) {
	limit = report.ClampLimit(limit, s.limits.Default, s.limits.Max)

	ops, err := s.operations.ListRecent(ctx, limit)
	if err != nil {
		return report.Result{}, util.ErrStore("Failed to load bot operations", err)
	}
	return report.OperationsListing(ops), nil
}

// Performance computes the performance summary over the full history
func (s *ReportService) Performance(ctx context.Context) (report.Result, error) {
	if result, ok := s.cachedPerformance(ctx); ok {
		return result, nil
	}

	points, err := s.snapshots.ListBalancesAsc(ctx)
	if err != nil {
		return report.Result{}, util.ErrStore("Failed to load account snapshots", err)
	}

	// no need to count operations when there is nothing to report on
	if len(points) < 2 {
		return report.Performance(points, nil), nil
	}

	counts, err := s.operations.CountByType(ctx)
	if err != nil {
		return report.Result{}, util.ErrStore("Failed to count bot operations", err)
	}

	result := report.Performance(points, counts)
	s.storePerformance(ctx, result)

	return result, nil
}

func (s *ReportService) cachedPerformance(ctx context.Context) (report.Result, bool) {
	if s.cache == nil {
		return report.Result{}, false
	}

	var cached cachedPerformance
	if err := s.cache.GetJSON(ctx, redis.PerformanceReportKey(), &cached); err != nil {
		if !redis.IsMiss(err) {
			s.log.Error("Failed to read cached performance summary", err)
		}
		return report.Result{}, false
	}
	if cached.Summary == nil {
		return report.Result{}, false
	}

	return report.Result{
		Status:  cached.Status,
		Data:    *cached.Summary,
		Message: cached.Message,
	}, true
}

func (s *ReportService) storePerformance(ctx context.Context, result report.Result) {
	if s.cache == nil {
		return
	}

	summary, ok := result.Data.(model.PerformanceSummary)
	if !ok {
		return
	}

	entry := cachedPerformance{Status: result.Status, Message: result.Message, Summary: &summary}
	if err := s.cache.SetJSON(ctx, redis.PerformanceReportKey(), entry, s.cacheTTL); err != nil {
		s.log.Error("Failed to cache performance summary", err)
	}
}
