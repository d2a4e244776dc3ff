package middleware

import (
	"strconv"
	"time"

	"github.com/amitkhot2001/blogs/internal/metrics"
	"github.com/gin-gonic/gin"
)

// Metrics records request counts and latency per route template. Requests
// that match no route are grouped under "unmatched" to bound label values.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/metrics" {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		method := c.Request.Method
		metrics.HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(c.Writer.Status())).Inc()
		metrics.HTTPRequestDurationSeconds.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
	}
}
