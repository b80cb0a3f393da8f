package router

import (
	"github.com/labstack/echo/v4"

	"github.com/mkalinic/travel-booking-api/internal/handler"
	"github.com/mkalinic/travel-booking-api/internal/middleware"
)

// RegisterTraveler registers the booking endpoints under /v1.  All
// routes require a valid JWT and the TRAVELER role (ADMIN passes too,
// mainly for support tooling).
func RegisterTraveler(e *echo.Echo, bk *handler.BookingHandler, pay *handler.PaymentHandler, jwtSecret string) {
	g := e.Group(
		"/v1",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("TRAVELER", "ADMIN"),
	)
	g.POST("/arrangements/:id/reserve", bk.Reserve)
	g.PUT("/reservations/:id", bk.Modify)
	g.DELETE("/reservations/:id", bk.Cancel)
	g.GET("/my-bookings", bk.MyBookings)
	g.GET("/my-payments", pay.MyPayments)
}
