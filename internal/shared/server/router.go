package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"recommendations-backend/internal/recommendations"
	"recommendations-backend/internal/services/health"
	"recommendations-backend/internal/shared/config"
	"recommendations-backend/internal/shared/metrics"
	"recommendations-backend/internal/shared/server/middleware"
	"recommendations-backend/internal/shared/server/respond"
)

const serviceName = "recommendations"

// Version is overridden at build time with -ldflags "-X ...server.Version=...".
var Version = "dev"

// RouterDeps carries the handlers mounted by NewRouter.
type RouterDeps struct {
	Config                config.Config
	RecommendationHandler *recommendations.Handler
	Health                *health.Service
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			Rules: map[string]middleware.RateLimitRule{
				middleware.RateLimitGroupRead: {
					Rate:  deps.Config.ReadRateLimit.Rate,
					Burst: deps.Config.ReadRateLimit.Burst,
				},
				middleware.RateLimitGroupWrite: {
					Rate:  deps.Config.WriteRateLimit.Rate,
					Burst: deps.Config.WriteRateLimit.Burst,
				},
			},
			GroupFor: middleware.GroupByMethod,
		}),
	)

	r.NoRoute(func(c *gin.Context) {
		respond.Error(c, http.StatusNotFound, "route not found")
	})

	r.GET("/", index)
	if deps.Health != nil {
		r.GET("/health", deps.Health.Handle)
	}
	r.GET("/metrics", metrics.Handler())

	if deps.RecommendationHandler != nil {
		deps.RecommendationHandler.RegisterRoutes(r.Group("/"))
	}

	return r
}

func index(c *gin.Context) {
	respond.OK(c, gin.H{
		"name":    serviceName,
		"version": Version,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
