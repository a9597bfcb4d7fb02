package ui

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"msmeinsights/internal/metrics"
)

// requestMetrics counts requests by method, route template and status
func requestMetrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		metrics.HTTPRequestTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
	}
}
