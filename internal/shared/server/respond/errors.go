package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recommendations-backend/internal/shared/telemetry"
)

// ErrorResponse is the envelope returned for every failed request.
type ErrorResponse struct {
	Status  int    `json:"status"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Error sends a standardized error response and aborts the handler chain.
func Error(c *gin.Context, status int, message string) {
	fields := map[string]any{
		"status":     status,
		"message":    message,
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if status >= http.StatusInternalServerError {
		telemetry.Error("http.error", fields)
	} else {
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Status:  status,
		Error:   Label(status),
		Message: message,
	})
}

// Label returns the short error label for a status code.
func Label(status int) string {
	switch status {
	case http.StatusUnsupportedMediaType:
		return "Unsupported media type"
	case http.StatusTooManyRequests:
		return "Too Many Requests"
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "Error"
}
