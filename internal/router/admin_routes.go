package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/bike-rental-booking/internal/handler"
	"github.com/iliyamo/bike-rental-booking/internal/middleware"
)

// RegisterAdmin registers fleet and booking management under
// /v1/admin.  Every route requires the ADMIN role.
func RegisterAdmin(e *echo.Echo, a *handler.AdminHandler, jwtSecret string) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)
	g.POST("/bikes", a.CreateBike)
	g.PUT("/bikes/:id", a.UpdateBike)
	g.PATCH("/bikes/:id/status", a.SetBikeStatus)
	g.DELETE("/bikes/:id", a.DeleteBike)

	g.GET("/bookings", a.ListBookings)
	g.PATCH("/bookings/:id", a.PatchBooking)
}
