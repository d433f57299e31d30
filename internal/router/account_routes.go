package router

import "github.com/labstack/echo/v4"

// registerAccountRoutes mounts registration, the token pair endpoints and
// self-service profile management.
func registerAccountRoutes(e *echo.Echo, h Handlers, auth echo.MiddlewareFunc) {
	a := e.Group("/auth")
	a.POST("/register", h.Auth.Register)
	a.POST("/login", h.Auth.Login)
	a.POST("/refresh", h.Auth.Refresh)

	me := a.Group("", auth)
	me.POST("/logout", h.Auth.Logout)
	me.GET("/me", h.Auth.Me)
	me.PUT("/me", h.Auth.UpdateProfile)
	me.PUT("/me/password", h.Auth.ChangePassword)
}
