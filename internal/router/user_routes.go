package router

import "github.com/labstack/echo/v4"

// registerUserRoutes mounts everything any authenticated account can do:
// onboarding applications, the cart, bookings, orders, ratings and the
// notification inbox.
func registerUserRoutes(e *echo.Echo, h Handlers, auth echo.MiddlewareFunc) {
	u := e.Group("", auth)

	u.POST("/merchants/apply", h.Merchant.Apply)
	u.GET("/merchants/me/application", h.Merchant.MyApplication)
	u.POST("/crews/apply", h.Crew.Apply)
	u.GET("/crews/me/applications", h.Crew.MyApplications)

	u.GET("/cart", h.Cart.List)
	u.POST("/cart/items", h.Cart.Add)
	u.PUT("/cart/items/:product_id", h.Cart.SetQuantity)
	u.DELETE("/cart/items/:product_id", h.Cart.Remove)

	u.POST("/bookings", h.Booking.Create)
	u.GET("/bookings", h.Booking.ListMine)
	u.GET("/bookings/:id", h.Booking.Get)
	u.POST("/bookings/:id/cancel", h.Booking.Cancel)
	u.POST("/bookings/:id/rating", h.Review.Rate)
	u.GET("/bookings/:id/rating", h.Review.ForBooking)

	u.POST("/orders", h.Order.CreateDirect)
	u.POST("/orders/from-cart", h.Order.CreateFromCart)
	u.GET("/orders", h.Order.ListMine)
	u.GET("/orders/:id", h.Order.Get)
	u.POST("/orders/:id/pay", h.Order.Pay)
	u.POST("/orders/:id/complete", h.Order.Complete)
	u.POST("/orders/:id/cancel", h.Order.Cancel)
	u.POST("/orders/:id/items/:item_id/review", h.Review.RateProduct)

	u.GET("/notifications", h.Notification.List)
	u.GET("/notifications/unread-count", h.Notification.UnreadCount)
	u.POST("/notifications/:id/read", h.Notification.MarkRead)
	u.POST("/notifications/read-all", h.Notification.MarkAllRead)
}
