package router

import (
	"github.com/labstack/echo/v4"

	"github.com/driftdock/marina-api/internal/middleware"
	"github.com/driftdock/marina-api/internal/model"
)

// registerMerchantRoutes mounts the merchant back office: listings, inbound
// bookings and orders, crew management and the settlement view.
func registerMerchantRoutes(e *echo.Echo, h Handlers, auth echo.MiddlewareFunc) {
	m := e.Group("/merchant", auth, middleware.RequireRole(model.RoleMerchant))

	m.PUT("/profile", h.Merchant.UpdateProfile)

	m.POST("/boats", h.Boat.Create)
	m.GET("/boats", h.Boat.ListMine)
	m.PUT("/boats/:id", h.Boat.Update)
	m.PUT("/boats/:id/status", h.Boat.SetStatus)

	m.POST("/products", h.Product.Create)
	m.GET("/products", h.Product.ListMine)
	m.PUT("/products/:id", h.Product.Update)
	m.PUT("/products/:id/status", h.Product.SetStatus)

	m.GET("/bookings", h.Booking.ListForMerchant)
	m.POST("/bookings/:id/confirm", h.Booking.Confirm)
	m.POST("/bookings/:id/complete", h.Booking.Complete)
	m.POST("/bookings/:id/cancel", h.Booking.Cancel)

	m.GET("/orders", h.Order.ListForMerchant)
	m.POST("/orders/:id/ship", h.Order.Ship)
	m.POST("/orders/:id/cancel", h.Order.Cancel)

	m.GET("/crew-applications", h.Crew.ListApplications)
	m.POST("/crew-applications/:id/decide", h.Crew.Decide)
	m.GET("/crews", h.Crew.Roster)
	m.PUT("/crews/:id/status", h.Crew.SetStatus)

	m.GET("/settlements", h.Split.MyMerchantRecords)
}
