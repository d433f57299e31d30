package router

import (
	"github.com/labstack/echo/v4"

	"github.com/driftdock/marina-api/internal/handler"
)

// registerPublicRoutes mounts the unauthenticated surface: health probe and
// the browsable catalog. Catalog GETs sit behind the Redis response cache.
func registerPublicRoutes(e *echo.Echo, h Handlers, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	g := e.Group("", cache)
	g.GET("/boats", h.Boat.ListPublic)
	g.GET("/boats/:id", h.Boat.Get)
	g.GET("/products", h.Product.ListPublic)
	g.GET("/products/:id", h.Product.Get)
	g.GET("/products/:id/reviews", h.Review.ForProduct)
	g.GET("/merchants/:id", h.Merchant.PublicProfile)
	g.GET("/crews/:id", h.Crew.Profile)
}
