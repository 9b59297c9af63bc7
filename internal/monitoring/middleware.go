package monitoring

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusMiddleware records request counts and latency per route template.
func PrometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "/metrics" {
			// Skip collecting metrics from metrics endpoint itself
			c.Next()
			return
		}
		if path == "" {
			path = "unmatched"
		}

		timer := prometheus.NewTimer(HttpRequestDuration.WithLabelValues(c.Request.Method, path))
		ActiveConnections.Inc()

		c.Next()

		timer.ObserveDuration()
		ActiveConnections.Dec()
		HttpRequestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
