package middleware

import (
	"context"
	"time"

	"storefront-service/common/metrics"

	"github.com/gin-gonic/gin"
)

// MetricsMiddleware creates a Gin middleware that tracks HTTP metrics
func MetricsMiddleware(recorder metrics.Recorder, serviceName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if recorder == nil {
			c.Next()
			return
		}

		start := time.Now()
		method := c.Request.Method

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()
		// Route template, so /cart/remove/:item_id is one series.
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		dimensions := map[string]string{
			"Service": serviceName,
			"Method":  method,
			"Path":    path,
			"Status":  metrics.StatusRange(statusCode),
		}

		// Record metrics asynchronously to avoid blocking
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			_ = recorder.RecordCount(ctx, metrics.MetricHTTPRequests, dimensions)
			_ = recorder.RecordLatency(ctx, metrics.MetricHTTPLatency, duration, dimensions)

			if statusCode >= 400 {
				_ = recorder.RecordCount(ctx, metrics.MetricHTTPErrors, dimensions)
				if statusCode < 500 {
					_ = recorder.RecordCount(ctx, metrics.MetricHTTP4xx, dimensions)
				} else {
					_ = recorder.RecordCount(ctx, metrics.MetricHTTP5xx, dimensions)
				}
			}
		}()
	}
}
