package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/railway-seat-reservation/internal/config"
	"github.com/iliyamo/railway-seat-reservation/internal/handler"
	"github.com/iliyamo/railway-seat-reservation/internal/middleware"
)

// RegisterRoutes registers the health check on the provided Echo instance.
// This endpoint can be used by load balancers or monitoring systems to
// verify that the service is up and running.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAPI registers the train query and order endpoints.  All /v1
// routes share the Redis token-bucket rate limiter; the read-only train
// queries additionally go through the short-TTL response cache.  Both
// middlewares become pass-throughs when rdb is nil.
func RegisterAPI(e *echo.Echo, th *handler.TrainHandler, oh *handler.OrderHandler, rdb *redis.Client) {
	v1 := e.Group("/v1")
	v1.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	// Availability and fares are pure reads over the inventory; a few
	// seconds of staleness on a listing page is acceptable, the booking
	// path below never goes through the cache.
	v1.GET("/trains/:train/availability", th.GetAvailability, cache)
	v1.GET("/trains/:train/fare", th.GetFare, cache)

	v1.POST("/orders", oh.Create)
	v1.GET("/orders/:id", oh.Get)
	v1.POST("/orders/:id/pay", oh.Pay)
	v1.POST("/orders/:id/cancel", oh.Cancel)
}
