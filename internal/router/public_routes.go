package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/mkalinic/travel-booking-api/internal/config"
	"github.com/mkalinic/travel-booking-api/internal/handler"
	"github.com/mkalinic/travel-booking-api/internal/middleware"
)

// RegisterPublic registers the unauthenticated catalog endpoints.  The
// listing routes sit behind the Redis response cache and the token
// bucket rate limiter; the capacity view is rate limited but never
// cached, because its whole point is a fresh figure.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, bk *handler.BookingHandler,
	cacheCfg config.CacheConfig, rlCfg config.RateLimitConfig, rdb *redis.Client) {

	limit := middleware.NewTokenBucket(rlCfg, rdb)
	cache := middleware.NewRedisCache(cacheCfg, rdb)

	g := e.Group("/v1", limit)
	g.GET("/trips", b.ListTrips, cache)
	g.GET("/trips/:id", b.GetTrip, cache)
	g.GET("/arrangements", b.ListArrangements, cache)
	g.GET("/arrangements/:id", b.GetArrangement, cache)
	g.GET("/arrangements/:id/capacity", bk.Capacity)
}
