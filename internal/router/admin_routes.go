package router

import (
	"github.com/labstack/echo/v4"

	"github.com/driftdock/marina-api/internal/middleware"
	"github.com/driftdock/marina-api/internal/model"
)

// registerAdminRoutes mounts platform administration: merchant vetting,
// split-rule management and the full settlement ledger.
func registerAdminRoutes(e *echo.Echo, h Handlers, auth echo.MiddlewareFunc) {
	a := e.Group("/admin", auth, middleware.RequireRole(model.RoleAdmin))

	a.GET("/merchant-applications", h.Merchant.ListPending)
	a.POST("/merchant-applications/:id/decide", h.Merchant.Decide)

	a.POST("/split-rules", h.Split.CreateRule)
	a.GET("/split-rules", h.Split.ListRules)

	a.GET("/settlements", h.Split.ListRecords)
	a.POST("/settlements/settle", h.Split.Settle)
}
