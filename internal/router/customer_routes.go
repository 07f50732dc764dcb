package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bike-rental-booking/internal/handler"
	"github.com/iliyamo/bike-rental-booking/internal/middleware"
)

// RegisterCustomer registers the booking lifecycle endpoints.  All
// routes require a valid JWT; admins are also allowed through so they
// can act on any booking.  Extra middleware (the stricter booking
// rate limiter) runs after authentication so its keys can include the
// rider identity.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, r *handler.ReviewHandler, jwtSecret string, mw ...echo.MiddlewareFunc) {
	g := e.Group(
		"/v1",
		append([]echo.MiddlewareFunc{
			middleware.JWTAuth(jwtSecret),
			middleware.RequireRole("CUSTOMER", "ADMIN"),
		}, mw...)...,
	)
	g.POST("/bookings", b.Create)
	g.GET("/my-bookings", b.ListMine)
	g.GET("/bookings/:id", b.Get)
	g.POST("/bookings/:id/start", b.Start)
	g.POST("/bookings/:id/end", b.End)
	g.POST("/bookings/:id/cancel", b.Cancel)

	g.POST("/bikes/:id/reviews", r.Create)
}
