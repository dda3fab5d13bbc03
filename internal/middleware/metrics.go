package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/creche-api/internal/service"
)

// unmatchedRoute labels requests no route matched, keeping raw URLs out of the series.
const unmatchedRoute = "unmatched"

// Liveness and scrape endpoints are not observed.
var unobservedRoutes = map[string]struct{}{
	"/health":  {},
	"/ready":   {},
	"/metrics": {},
}

// Metrics observes each API request under its route template, e.g. /api/v1/students/:id.
func Metrics(metricsSvc *service.MetricsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if metricsSvc == nil {
			c.Next()
			return
		}
		route := c.FullPath()
		if _, skip := unobservedRoutes[route]; skip {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()

		if route == "" {
			route = unmatchedRoute
		}
		metricsSvc.ObserveHTTPRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start))
	}
}
