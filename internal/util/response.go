package util

import (
	"net/http"
	"time"

	"tradingagent/backend/internal/report"

	"github.com/gin-gonic/gin"
)

// Response is the envelope every report endpoint answers with
type Response struct {
	Status    report.Status `json:"status"`
	Count     *int          `json:"count,omitempty"`
	Data      interface{}   `json:"data,omitempty"`
	Code      string        `json:"code,omitempty"`
	Message   string        `json:"message,omitempty"`
	Timestamp string        `json:"timestamp"`
}

// Now returns the envelope timestamp
func Now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// StatusCode maps a report status onto an HTTP status
func StatusCode(status report.Status) int {
	switch status {
	case report.StatusNoData:
		return http.StatusNotFound
	case report.StatusError:
		return http.StatusInternalServerError
	default:
		return http.StatusOK
	}
}

// SendResult renders a report result
func SendResult(c *gin.Context, result report.Result) {
	c.JSON(StatusCode(result.Status), Response{
		Status:    result.Status,
		Count:     result.Count,
		Data:      result.Data,
		Message:   result.Message,
		Timestamp: Now(),
	})
}

// SendError renders err as an error envelope. Only AppError messages reach
// the client; anything else becomes a generic internal error.
func SendError(c *gin.Context, err error) {
	appErr := GetAppError(err)
	if appErr == nil {
		appErr = ErrInternalServer("Internal server error")
	}

	// surfaced to the request logger
	_ = c.Error(err)

	c.JSON(appErr.StatusCode, Response{
		Status:    report.StatusError,
		Code:      appErr.Code,
		Message:   appErr.Message,
		Timestamp: Now(),
	})
}

// SendCustomError sends an error envelope with an explicit status and code
func SendCustomError(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Response{
		Status:    report.StatusError,
		Code:      code,
		Message:   message,
		Timestamp: Now(),
	})
}

// AbortWithError aborts the request with an error envelope
func AbortWithError(c *gin.Context, err error) {
	SendError(c, err)
	c.Abort()
}

// AbortWithCustomError aborts the request with a custom error
func AbortWithCustomError(c *gin.Context, statusCode int, code, message string) {
	SendCustomError(c, statusCode, code, message)
	c.Abort()
}
