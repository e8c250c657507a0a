package handler

import (
	"context"
	"net/http"

	"tradingagent/backend/internal/report"
	"tradingagent/backend/internal/service"
	"tradingagent/backend/internal/util"

	"github.com/gin-gonic/gin"
)

const (
	ServiceName    = "Trading Agent API"
	ServiceVersion = "1.0.0"
)

// Reporter is the read-side the handlers call into
type Reporter interface {
	Status(ctx context.Context) (report.Result, error)
	Operations(ctx context.Context, limit int) (report.Result, error)
	Performance(ctx context.Context) (report.Result, error)
	Limits() service.Limits
}

type ReportHandler struct {
	reporter Reporter
}

func NewReportHandler(reporter Reporter) *ReportHandler {
	return &ReportHandler{
		reporter: reporter,
	}
}

// Register mounts the report routes on r
func (h *ReportHandler) Register(r gin.IRoutes) {
	r.GET("/", h.Index)
	r.GET("/health", h.Health)
	r.GET("/status", h.GetStatus)
	r.GET("/operations", h.GetOperations)
	r.GET("/performance", h.GetPerformance)
}

// Index handles GET /
func (h *ReportHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": ServiceName,
		"version": ServiceVersion,
		"endpoints": gin.H{
			"/health":      "Health check",
			"/status":      "Current account status",
			"/operations":  "Recent bot operations (param: limit)",
			"/performance": "Performance metrics",
		},
		"timestamp": util.Now(),
	})
}

// Health handles GET /health
func (h *ReportHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": util.Now(),
		"service":   ServiceName,
	})
}

// GetStatus handles GET /status
func (h *ReportHandler) GetStatus(c *gin.Context) {
	result, err := h.reporter.Status(c.Request.Context())
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendResult(c, result)
}

// GetOperations handles GET /operations?limit=N
func (h *ReportHandler) GetOperations(c *gin.Context) {
	limits := h.reporter.Limits()
	limit := report.NormalizeLimit(c.Query("limit"), limits.Default, limits.Max)

	result, err := h.reporter.Operations(c.Request.Context(), limit)
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendResult(c, result)
}

// GetPerformance handles GET /performance
func (h *ReportHandler) GetPerformance(c *gin.Context) {
	result, err := h.reporter.Performance(c.Request.Context())
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendResult(c, result)
}
