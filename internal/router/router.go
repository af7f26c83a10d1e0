// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"ticket-booking/internal/handler"
	"ticket-booking/internal/middleware"
)

// Handlers groups everything the router needs to wire the API surface.
type Handlers struct {
	Auth     *handler.AuthHandler
	Bookings *handler.BookingHandler
	Seats    *handler.SeatHandler
	Payments *handler.PaymentHandler
	Events   *handler.EventHandler
}

// Register wires all routes. Availability listing and the events catalog
// are public; reserving, confirming and provisioning require a valid
// access token.
func Register(e *echo.Echo, h Handlers, jwtSecret string) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	g := e.Group("/v1/auth")
	g.POST("/register", h.Auth.Register)
	g.POST("/login", h.Auth.Login)

	e.GET("/v1/seats/available", h.Seats.Available)
	e.GET("/v1/events", h.Events.List)
	e.GET("/v1/events/:id", h.Events.Get)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.POST("/bookings", h.Bookings.Create)
	auth.GET("/bookings/:id", h.Bookings.Get)
	auth.POST("/payments/confirm", h.Payments.Confirm)
	auth.POST("/events", h.Events.Create)
}
