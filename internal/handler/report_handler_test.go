package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tradingagent/backend/internal/report"
	"tradingagent/backend/internal/repository"
	"tradingagent/backend/internal/service"
	"tradingagent/backend/internal/util"
	"tradingagent/backend/pkg/database"
	"tradingagent/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var base = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)

type envelope struct {
	Status    string          `json:"status"`
	Count     *int            `json:"count"`
	Data      json.RawMessage `json:"data"`
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	Timestamp string          `json:"timestamp"`
}

type testServer struct {
	router *gin.Engine
	db     *database.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()

	db, err := database.New(ctx, database.Config{
		Driver:       "sqlite3",
		DSN:          fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_")),
		MaxOpenConns: 1,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.EnsureSchema(ctx))

	svc := service.NewReportService(
		repository.NewSnapshotRepository(db),
		repository.NewOperationRepository(db),
		service.Limits{Default: 50, Max: 500},
		logger.Nop(),
	)

	router := gin.New()
	NewReportHandler(svc).Register(router)

	return &testServer{router: router, db: db}
}

func (s *testServer) snapshot(t *testing.T, at time.Time, balance string) {
	t.Helper()
	_, err := s.db.SQL().Exec(`INSERT INTO account_snapshots (created_at, balance_usd) VALUES ($1, $2)`, at, balance)
	require.NoError(t, err)
}

func (s *testServer) operation(t *testing.T, at time.Time, label string) {
	t.Helper()
	_, err := s.db.SQL().Exec(`INSERT INTO bot_operations (created_at, operation) VALUES ($1, $2)`, at, label)
	require.NoError(t, err)
}

func get(t *testing.T, r http.Handler, path string) (int, envelope) {
	t.Helper()
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func TestHealthAndIndex(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var health map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, ServiceName, health["service"])
	assert.NotEmpty(t, health["timestamp"])

	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"/performance"`)
	assert.Contains(t, w.Body.String(), ServiceVersion)
}

func TestGetStatus(t *testing.T) {
	s := newTestServer(t)

	code, env := get(t, s.router, "/status")
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "no_data", env.Status)
	assert.Equal(t, "No account snapshots found", env.Message)

	s.snapshot(t, base, "1000.00")
	s.snapshot(t, base.Add(time.Hour), "1012.34")

	code, env = get(t, s.router, "/status")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)
	assert.NotEmpty(t, env.Timestamp)

	var data struct {
		ID         int64   `json:"id"`
		BalanceUSD float64 `json:"balance_usd"`
		CreatedAt  string  `json:"created_at"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, int64(2), data.ID)
	assert.Equal(t, 1012.34, data.BalanceUSD)
}

func TestGetOperations(t *testing.T) {
	s := newTestServer(t)

	code, env := get(t, s.router, "/operations")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)
	require.NotNil(t, env.Count)
	assert.Equal(t, 0, *env.Count)
	assert.JSONEq(t, `[]`, string(env.Data))

	for i := 0; i < 5; i++ {
		s.operation(t, base.Add(time.Duration(i)*time.Minute), fmt.Sprintf("op%d", i))
	}

	code, env = get(t, s.router, "/operations?limit=3")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 3, *env.Count)

	var ops []struct {
		Operation string `json:"operation"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &ops))
	require.Len(t, ops, 3)
	assert.Equal(t, "op4", ops[0].Operation)
	assert.Equal(t, "op3", ops[1].Operation)
	assert.Equal(t, "op2", ops[2].Operation)

	for _, q := range []string{"", "?limit=abc", "?limit=0", "?limit=-2"} {
		code, env = get(t, s.router, "/operations"+q)
		assert.Equal(t, http.StatusOK, code, q)
		assert.Equal(t, 5, *env.Count, q)
	}
}

func TestGetPerformance(t *testing.T) {
	s := newTestServer(t)

	code, env := get(t, s.router, "/performance")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "insufficient_data", env.Status)
	assert.Equal(t, "Need at least 2 snapshots to calculate performance", env.Message)
	assert.Empty(t, env.Data)

	s.snapshot(t, base, "1000.00")

	code, env = get(t, s.router, "/performance")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "insufficient_data", env.Status)
	assert.Equal(t, "Need at least 2 snapshots to calculate performance", env.Message)
	assert.Empty(t, env.Data)

	s.snapshot(t, base.Add(24*time.Hour), "1100.00")
	s.operation(t, base, "open")
	s.operation(t, base.Add(time.Minute), "hold")
	s.operation(t, base.Add(2*time.Minute), "hold")

	code, env = get(t, s.router, "/performance")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "success", env.Status)
	assert.JSONEq(t, `{
		"initial_balance": 1000,
		"current_balance": 1100,
		"total_return_percent": 10,
		"total_snapshots": 2,
		"operations_by_type": {"open": 1, "hold": 2},
		"first_snapshot": "2025-03-01T08:00:00Z",
		"last_snapshot": "2025-03-02T08:00:00Z"
	}`, string(env.Data))

	_, again := get(t, s.router, "/performance")
	assert.JSONEq(t, string(env.Data), string(again.Data))
}

func TestGetPerformanceZeroInitialBalance(t *testing.T) {
	s := newTestServer(t)
	s.snapshot(t, base, "0.00")
	s.snapshot(t, base.Add(time.Hour), "50.00")

	code, env := get(t, s.router, "/performance")
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "undefined_metric", env.Status)
	assert.NotEmpty(t, env.Message)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Contains(t, data, "total_return_percent")
	assert.Nil(t, data["total_return_percent"])
	assert.Equal(t, 50.0, data["current_balance"])
}

type MockReporter struct {
	mock.Mock
}

func (m *MockReporter) Status(ctx context.Context) (report.Result, error) {
	args := m.Called(ctx)
	return args.Get(0).(report.Result), args.Error(1)
}

func (m *MockReporter) Operations(ctx context.Context, limit int) (report.Result, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).(report.Result), args.Error(1)
}

func (m *MockReporter) Performance(ctx context.Context) (report.Result, error) {
	args := m.Called(ctx)
	return args.Get(0).(report.Result), args.Error(1)
}

func (m *MockReporter) Limits() service.Limits {
	return service.Limits{Default: 50, Max: 100}
}

func TestStoreFailuresBecomeErrorEnvelopes(t *testing.T) {
	reporter := new(MockReporter)
	cause := errors.New("dial tcp 10.0.0.5:5432: connection refused")
	reporter.On("Status", mock.Anything).Return(report.Result{}, util.ErrStore("Failed to load account status", cause))
	reporter.On("Operations", mock.Anything, 100).Return(report.Result{}, util.ErrStore("Failed to load bot operations", cause))
	reporter.On("Performance", mock.Anything).Return(report.Result{}, cause)

	router := gin.New()
	NewReportHandler(reporter).Register(router)

	code, env := get(t, router, "/status")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Failed to load account status", env.Message)

	// limit above max is clamped before reaching the service
	code, env = get(t, router, "/operations?limit=100000")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Failed to load bot operations", env.Message)

	code, env = get(t, router, "/performance")
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "error", env.Status)
	assert.Equal(t, "Internal server error", env.Message)

	reporter.AssertExpectations(t)
}

func TestStoreOutage(t *testing.T) {
	s := newTestServer(t)
	require.NoError(t, s.db.Close())

	for _, path := range []string{"/status", "/operations", "/performance"} {
		code, env := get(t, s.router, path)
		assert.Equal(t, http.StatusInternalServerError, code, path)
		assert.Equal(t, "error", env.Status, path)
		assert.NotContains(t, env.Message, "sql:", path)
	}
}
