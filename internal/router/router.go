// Package router wires HTTP routes to handlers and hangs the middleware
// chain (rate limiting, auth, role gates, response cache) off the Echo
// instance.
package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/driftdock/marina-api/internal/config"
	"github.com/driftdock/marina-api/internal/handler"
	"github.com/driftdock/marina-api/internal/middleware"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Auth         *handler.AuthHandler
	Merchant     *handler.MerchantHandler
	Crew         *handler.CrewHandler
	Boat         *handler.BoatHandler
	Product      *handler.ProductHandler
	Cart         *handler.CartHandler
	Booking      *handler.BookingHandler
	Order        *handler.OrderHandler
	Split        *handler.SplitHandler
	Notification *handler.NotificationHandler
	Review       *handler.ReviewHandler
}

// Register mounts all routes. rdb may be nil, in which case rate limiting
// and response caching degrade to no-ops.
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client, h Handlers) {
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	auth := middleware.JWTAuth(cfg.JWTSecret)
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	registerPublicRoutes(e, h, cache)
	registerAccountRoutes(e, h, auth)
	registerUserRoutes(e, h, auth)
	registerMerchantRoutes(e, h, auth)
	registerCrewRoutes(e, h, auth)
	registerAdminRoutes(e, h, auth)
}
