// internal/server/middleware.go
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"recruitment-backend/internal/common/logger"
	"recruitment-backend/internal/common/metrics"
	"recruitment-backend/internal/common/observability"
)

const requestIDHeader = "X-Request-ID"

// RequestID assigns every request a UUID unless the caller supplied one.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Set("requestId", id)
		c.Writer.Header().Set(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs one line per request with latency and status.
func RequestLogger(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request handled", map[string]interface{}{
			"method":    c.Request.Method,
			"path":      c.FullPath(),
			"status":    c.Writer.Status(),
			"latencyMs": time.Since(start).Milliseconds(),
			"requestId": c.GetString("requestId"),
		})
	}
}

// Instrument records Prometheus and OTel request metrics.
func Instrument(obs *observability.Observability) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		elapsed := time.Since(start)
		status := statusLabel(c.Writer.Status())

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, path).Observe(elapsed.Seconds())
		if obs != nil {
			obs.RecordRequest(c.Request.Context(), path, status)
			obs.RecordRequestDuration(c.Request.Context(), elapsed, path)
		}
	}
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
