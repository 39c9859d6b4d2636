package simulation

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kilianp07/iexsim/core/logger"
	"github.com/kilianp07/iexsim/core/monitoring"
	"github.com/kilianp07/iexsim/internal/report"
)

// RequestLogger logs one structured line per request.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Debugw("http request", map[string]any{
			"method":     c.Request.Method,
			"path":       c.FullPath(),
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"client_ip":  c.ClientIP(),
		})
	}
}

// ErrorHandler recovers from panics, reports them and answers with an
// INTERNAL_ERROR body.
func ErrorHandler() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		monitoring.CaptureException(fmt.Errorf("panic: %v", recovered), map[string]string{
			"module": "api",
			"path":   c.FullPath(),
		})
		writeError(c, http.StatusInternalServerError, report.ErrorBody{
			Code:    report.CodeInternal,
			Message: "An unexpected error occurred",
		})
	})
}
