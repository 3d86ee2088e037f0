package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/cinema-booking-engine/internal/config"
	"github.com/iliyamo/cinema-booking-engine/internal/handler"
	"github.com/iliyamo/cinema-booking-engine/internal/middleware"
	"github.com/iliyamo/cinema-booking-engine/internal/utils"
)

// Deps carries what the routes need besides the handler.  Redis may be
// nil, which disables rate limiting and response caching.  An empty
// JWTSecret leaves the session routes unauthenticated.
type Deps struct {
	JWTSecret string
	Redis     *redis.Client
	RateLimit config.RateLimitConfig
	Cache     config.CacheConfig
}

// RegisterRoutes registers the health check, the read-only browse routes
// and the session routes that drive the booking engine.
func RegisterRoutes(e *echo.Echo, h *handler.Handler, d Deps) {
	e.GET("/healthz", handler.Health)

	// Read-only views.  Cached per engine revision so a commit or a new
	// selection is visible on the very next request.
	cache := middleware.NewRedisCache(d.Cache, d.Redis, h.Engine.Revision)
	e.GET("/v1/theaters", h.ListTheaters)
	e.GET("/v1/theaters/:id", h.Snapshot, cache)
	e.GET("/v1/stats", h.Stats, cache)

	// Session routes change engine state.
	mw := []echo.MiddlewareFunc{}
	if d.JWTSecret != "" {
		mw = append(mw, middleware.JWTAuth(d.JWTSecret), middleware.RequireRole(utils.RoleOperator))
	}
	mw = append(mw, middleware.NewTokenBucket(d.RateLimit, d.Redis))

	g := e.Group("/v1/session", mw...)
	g.GET("", h.Session)
	g.PUT("/theater", h.SelectTheater)
	g.POST("/seat", h.SelectSeat)
	g.POST("/book", h.Book)
	g.POST("/cancel", h.Cancel)
}
