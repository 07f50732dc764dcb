// Package router wires HTTP routes to their handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/bike-rental-booking/internal/handler"
	"github.com/iliyamo/bike-rental-booking/internal/middleware"
)

// RegisterRoutes registers the operational endpoints: liveness and
// Prometheus metrics.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// RegisterAuth registers the authentication routes.  Unauthenticated
// operations live under /v1/auth; the profile endpoints under /v1
// require a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	// Logout accepts either a bearer token (revoke all sessions) or a
	// refresh_token body (revoke one), so it skips the JWT middleware.
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	)
	auth.GET("/me", a.Me)
	auth.PUT("/me", a.UpdateMe)
}

// RegisterPublic registers unauthenticated catalog browsing.  These
// routes are read-only and sit behind the response cache when Redis
// is available.
func RegisterPublic(e *echo.Echo, p *handler.PublicHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/bikes", p.ListBikes)
	g.GET("/bikes/:id", p.GetBike)
	g.GET("/bikes/:id/availability", p.BikeAvailability)
	g.GET("/bikes/:id/reviews", p.ListReviews)
}
