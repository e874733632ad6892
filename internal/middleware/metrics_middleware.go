package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/esa-marseille/esa-manager/internal/metrics"
	"github.com/esa-marseille/esa-manager/internal/pkg/logger"
)

// RequestMetrics observes each request's latency and status. The route template
// is used as the path label so IDs do not explode the cardinality.
func RequestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, path, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

// RequestLogger writes one structured log line per request.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		event := logger.Info()
		if c.Writer.Status() >= 500 {
			event = logger.Error()
		}
		event.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	}
}
