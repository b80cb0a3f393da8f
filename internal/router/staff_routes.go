package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mkalinic/travel-booking-api/internal/handler"
	"github.com/mkalinic/travel-booking-api/internal/middleware"
)

// RegisterAgent registers catalog management endpoints under
// /v1/agent.  All routes require a valid JWT and the AGENT or ADMIN
// role.
func RegisterAgent(e *echo.Echo, a *handler.AgentHandler, jwtSecret string) {
	g := e.Group(
		"/v1/agent",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("AGENT", "ADMIN"),
	)
	g.POST("/trips", a.CreateTrip)
	g.DELETE("/trips/:id", a.DeleteTrip)
	g.POST("/arrangements", a.CreateArrangement)
	g.DELETE("/arrangements/:id", a.DeleteArrangement)
	g.GET("/arrangements/:id/travelers", a.ListTravelers)
	g.GET("/bookings", a.BookingOverview)
}

// RegisterFinance registers payment tracking endpoints under
// /v1/finance for FINANCE and ADMIN staff.
func RegisterFinance(e *echo.Echo, p *handler.PaymentHandler, jwtSecret string) {
	g := e.Group(
		"/v1/finance",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("FINANCE", "ADMIN"),
	)
	g.POST("/payments", p.Create)
	g.GET("/payments", p.List)
	g.DELETE("/payments/:id", p.Delete)
}
