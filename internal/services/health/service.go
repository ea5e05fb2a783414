package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"recommendations-backend/internal/shared/server/respond"
	"recommendations-backend/internal/shared/telemetry"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	Store string
	DB    Pinger
}

// NewService constructs a health service for the named store. db may be nil
// for stores without a connection (memory).
func NewService(store string, db Pinger) *Service {
	return &Service{Store: store, DB: db}
}

// Status reports whether the datastore answers a ping.
func (s *Service) Status(ctx context.Context) (map[string]any, bool) {
	payload := map[string]any{"ok": true, "store": s.Store}
	if s.DB == nil {
		return payload, true
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(pingCtx); err != nil {
		telemetry.Warn("health.ping_failed", map[string]any{"store": s.Store, "error": err})
		payload["ok"] = false
		return payload, false
	}
	return payload, true
}

// Handle serves the health route.
func (s *Service) Handle(c *gin.Context) {
	payload, ok := s.Status(c.Request.Context())
	if !ok {
		respond.JSON(c, http.StatusServiceUnavailable, payload)
		return
	}
	respond.OK(c, payload)
}
