package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkalinic/travel-booking-api/internal/booking"
	"github.com/mkalinic/travel-booking-api/internal/model"
	"github.com/mkalinic/travel-booking-api/internal/queue"
	"github.com/mkalinic/travel-booking-api/internal/repository"
	queue_publisher "github.com/mkalinic/travel-booking-api/internal/service"
)

// ArrangementCatalog is the read-only arrangement lookup the handler
// uses to enrich confirmation events.
type ArrangementCatalog interface {
	GetByID(ctx context.Context, id uint64) (*model.Arrangement, error)
}

// TripCatalog resolves trip names for confirmation events.
type TripCatalog interface {
	GetByID(ctx context.Context, id uint64) (*model.Trip, error)
}

// ReservationReader covers the reservation reads the handler performs
// itself: the ownership check and the traveler's booking list.
type ReservationReader interface {
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	ListByTraveler(ctx context.Context, userID uint64) ([]repository.TravelerReservation, error)
}

// confirmedPublisher emits a reservation.confirmed event.
type confirmedPublisher func(context.Context, queue.ReservationConfirmedEvent) error

// BookingHandler exposes the traveler-facing reservation endpoints:
// reserve seats on an arrangement, modify or cancel an existing
// reservation and list the traveler's own bookings.  All capacity and
// pricing decisions are delegated to the booking service.
type BookingHandler struct {
	Svc          *booking.Service
	Reservations ReservationReader
	Arrangements ArrangementCatalog
	Trips        TripCatalog

	// publish may be nil, which disables event emission.
	publish confirmedPublisher
}

// NewBookingHandler constructs a BookingHandler wired to the RabbitMQ
// publisher and panics on nil deps.
func NewBookingHandler(svc *booking.Service, res ReservationReader, arr ArrangementCatalog, trips TripCatalog) *BookingHandler {
	if svc == nil || res == nil || arr == nil || trips == nil {
		panic("nil dependency passed to NewBookingHandler")
	}
	return &BookingHandler{
		Svc:          svc,
		Reservations: res,
		Arrangements: arr,
		Trips:        trips,
		publish:      queue_publisher.PublishReservationConfirmed,
	}
}

type reserveReq struct {
	Count uint32 `json:"count"`
}

type modifyReq struct {
	SeatCount uint32 `json:"seatCount"`
}

// Reserve handles POST /arrangements/:id/reserve.  On success it
// returns 201 with the booked seat count and the seats still available.
// A capacity failure returns 409 carrying the remaining count so the
// client does not need a second round-trip.
func (h *BookingHandler) Reserve(c echo.Context) error {
	arrangementID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid arrangement id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req reserveReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	result, err := h.Svc.Reserve(ctx, arrangementID, uid, req.Count)
	if err != nil {
		return bookingError(c, err)
	}

	h.publishConfirmed(result)

	return c.JSON(http.StatusCreated, echo.Map{
		"reserved":  result.Reservation.SeatCount,
		"remaining": result.Remaining,
	})
}

// Modify handles PUT /reservations/:id.  Travelers may only touch their
// own reservations.
func (h *BookingHandler) Modify(c echo.Context) error {
	reservationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var req modifyReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.authorizeOwner(ctx, c, reservationID, uid); err != nil {
		return err
	}

	result, err := h.Svc.Modify(ctx, reservationID, req.SeatCount)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"reservation": result.Reservation,
		"kapacitet":   result.Capacity,
		"novaCena":    result.Reservation.TotalPrice,
	})
}

// Cancel handles DELETE /reservations/:id.  Cancelling twice fails: the
// second call finds no reservation and returns 404.
func (h *BookingHandler) Cancel(c echo.Context) error {
	reservationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid reservation id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.authorizeOwner(ctx, c, reservationID, uid); err != nil {
		return err
	}

	result, err := h.Svc.Cancel(ctx, reservationID)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"releasedSeatCount": result.Released,
		"arrangementId":     result.ArrangementID,
	})
}

// MyBookings handles GET /my-bookings.
func (h *BookingHandler) MyBookings(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Reservations.ListByTraveler(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}

// Capacity handles GET /arrangements/:id/capacity, a read-only view.
func (h *BookingHandler) Capacity(c echo.Context) error {
	arrangementID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid arrangement id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	view, err := h.Svc.Capacity(ctx, arrangementID)
	if err != nil {
		return bookingError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

// authorizeOwner rejects travelers touching someone else's reservation.
// A missing reservation surfaces as 404 here already, which keeps the
// ownership check from leaking reservation existence.
func (h *BookingHandler) authorizeOwner(ctx context.Context, c echo.Context, reservationID, uid uint64) error {
	res, err := h.Reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	role, _ := c.Get("role").(string)
	if res.UserID != uid && role != "ADMIN" {
		return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
	}
	return nil
}

// publishConfirmed emits a reservation.confirmed event in the
// background.  A broker outage must not fail the booking, so errors are
// swallowed here (the publisher logs them).
func (h *BookingHandler) publishConfirmed(result *booking.ReserveResult) {
	pub := h.publish
	if pub == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ev := queue.ReservationConfirmedEvent{
			ReservationID: result.Reservation.ID,
			UserID:        result.Reservation.UserID,
			ArrangementID: result.Reservation.ArrangementID,
			SeatCount:     result.Reservation.SeatCount,
			TotalPrice:    result.Reservation.TotalPrice,
			Remaining:     result.Remaining,
			ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
		}
		if arr, err := h.Arrangements.GetByID(ctx, result.Reservation.ArrangementID); err == nil {
			ev.ArrangementName = arr.Name
			ev.DateFrom = arr.DateFrom.UTC().Format("2006-01-02")
			ev.DateTo = arr.DateTo.UTC().Format("2006-01-02")
			if trip, err := h.Trips.GetByID(ctx, arr.TripID); err == nil {
				ev.TripName = trip.Name
			}
		}
		_ = pub(ctx, ev)
	}()
}

// bookingError maps booking service failures onto HTTP responses.  The
// capacity error carries the remaining seat count in the body.
func bookingError(c echo.Context, err error) error {
	var capErr *booking.CapacityExceededError
	switch {
	case errors.Is(err, booking.ErrInvalidSeatCount):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.As(err, &capErr):
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "not enough seats available",
			"preostalo": capErr.Remaining,
		})
	case errors.Is(err, repository.ErrArrangementNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "arrangement not found"})
	case errors.Is(err, repository.ErrReservationNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "reservation not found"})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "operation failed"})
	}
}
