package router

import (
	"github.com/labstack/echo/v4"

	"github.com/driftdock/marina-api/internal/middleware"
	"github.com/driftdock/marina-api/internal/model"
)

// registerCrewRoutes mounts the crew member's view: assigned bookings and
// earned settlements.
func registerCrewRoutes(e *echo.Echo, h Handlers, auth echo.MiddlewareFunc) {
	cg := e.Group("/crew", auth, middleware.RequireRole(model.RoleCrew))

	cg.GET("/assignments", h.Booking.ListForCrew)
	cg.POST("/assignments/:id/complete", h.Booking.Complete)
	cg.GET("/settlements", h.Split.MyCrewRecords)
}
