package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"recommendations-backend/internal/shared/metrics"
	"recommendations-backend/internal/shared/telemetry"
)

// Logging emits a structured log and records request metrics per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()
		route := c.FullPath()

		metrics.ObserveRequest(c.Request.Method, route, status, latency)

		productID, _ := c.Get("productId")
		relatedProductID, _ := c.Get("relatedProductId")

		fields := map[string]any{
			"request_id":         RequestIDFromContext(c),
			"method":             c.Request.Method,
			"path":               c.Request.URL.Path,
			"route":              route,
			"status":             status,
			"duration_ms":        float64(latency.Microseconds()) / 1000.0,
			"product_id":         productID,
			"related_product_id": relatedProductID,
			"client_ip":          c.ClientIP(),
			"user_agent":         c.Request.UserAgent(),
		}
		if len(c.Errors) > 0 {
			fields["errors"] = c.Errors.String()
		}
		telemetry.Info("request.complete", fields)
	}
}
