package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"foodgram/internal/metrics"
)

// Metrics records request count and latency by route pattern. Unmatched
// routes are grouped under "unmatched" to keep label cardinality bounded.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
