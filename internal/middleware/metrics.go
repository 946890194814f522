package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/hrlab/worktime-api/internal/service"
)

// Metrics records per-request counters and latency on the metrics service.
// Unmatched routes fall back to the raw URL path so 404 traffic stays visible.
func Metrics(metrics *service.MetricsService) gin.HandlerFunc {
	if metrics == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
