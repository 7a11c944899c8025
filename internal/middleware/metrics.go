package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/teamerhq/teamer/internal/metrics"
)

// Metrics records request count and latency, labelled by route template so
// path ids do not blow up cardinality.
func Metrics(m metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.ObserveRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start).Seconds())
	}
}
