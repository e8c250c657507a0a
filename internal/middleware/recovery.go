package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"tradingagent/backend/internal/util"
	"tradingagent/backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery middleware recovers from panics and answers with an error envelope
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID, _ := c.Get(RequestIDKey)

				log.WithFields(map[string]interface{}{
					"request_id": requestID,
					"panic":      err,
					"stack":      string(debug.Stack()),
				}).Error("Panic recovered", fmt.Errorf("%v", err))

				util.AbortWithCustomError(c, http.StatusInternalServerError,
					util.ErrCodeInternal, "Internal server error")
			}
		}()

		c.Next()
	}
}
