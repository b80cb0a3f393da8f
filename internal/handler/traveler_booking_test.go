package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkalinic/travel-booking-api/internal/booking"
	"github.com/mkalinic/travel-booking-api/internal/model"
	"github.com/mkalinic/travel-booking-api/internal/queue"
	"github.com/mkalinic/travel-booking-api/internal/repository"
)

// Minimal in-memory stores so the wire format can be exercised without
// a database or a broker.

type stubArrangements struct {
	mu   sync.Mutex
	byID map[uint64]model.Arrangement
}

func (s *stubArrangements) GetByID(_ context.Context, id uint64) (*model.Arrangement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrArrangementNotFound
	}
	cp := a
	return &cp, nil
}

type stubTrips struct {
	byID map[uint64]model.Trip
}

func (s *stubTrips) GetByID(_ context.Context, id uint64) (*model.Trip, error) {
	t, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrTripNotFound
	}
	cp := t
	return &cp, nil
}

type stubReservations struct {
	mu   sync.Mutex
	byID map[uint64]model.Reservation
	next uint64
}

func (s *stubReservations) Create(_ context.Context, res *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	res.ID = s.next
	s.byID[res.ID] = *res
	return nil
}

func (s *stubReservations) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	cp := r
	return &cp, nil
}

func (s *stubReservations) SumSeatsForArrangement(_ context.Context, arrangementID uint64) (uint32, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var sum uint32
	for _, r := range s.byID {
		if r.ArrangementID == arrangementID {
			sum += r.SeatCount
		}
	}
	return sum, nil
}

func (s *stubReservations) Update(_ context.Context, id uint64, seatCount uint32, totalPrice float64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrReservationNotFound
	}
	r.SeatCount = seatCount
	r.TotalPrice = totalPrice
	s.byID[id] = r
	cp := r
	return &cp, nil
}

func (s *stubReservations) Delete(_ context.Context, id uint64) (uint32, uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.byID[id]
	if !ok {
		return 0, 0, repository.ErrReservationNotFound
	}
	delete(s.byID, id)
	return r.SeatCount, r.ArrangementID, nil
}

func (s *stubReservations) ListByTraveler(_ context.Context, userID uint64) ([]repository.TravelerReservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]repository.TravelerReservation, 0)
	for _, r := range s.byID {
		if r.UserID == userID {
			out = append(out, repository.TravelerReservation{
				ID:            r.ID,
				ArrangementID: r.ArrangementID,
				SeatCount:     r.SeatCount,
				TotalPrice:    r.TotalPrice,
			})
		}
	}
	return out, nil
}

func (s *stubReservations) seed(r model.Reservation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byID[r.ID] = r
	if r.ID > s.next {
		s.next = r.ID
	}
}

func newTestBookingHandler(arrs ...model.Arrangement) (*BookingHandler, *stubReservations) {
	sa := &stubArrangements{byID: make(map[uint64]model.Arrangement)}
	for _, a := range arrs {
		sa.byID[a.ID] = a
	}
	st := &stubTrips{byID: map[uint64]model.Trip{
		1: {ID: 1, Name: "Greece"},
	}}
	sr := &stubReservations{byID: make(map[uint64]model.Reservation)}
	return &BookingHandler{
		Svc:          booking.NewService(sa, sr),
		Reservations: sr,
		Arrangements: sa,
		Trips:        st,
	}, sr
}

func newBookingContext(e *echo.Echo, method, path, id, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	c.SetParamNames("id")
	c.SetParamValues(id)
	c.Set("user_id", float64(7))
	c.Set("role", "TRAVELER")
	return c, rec
}

func newReserveContext(e *echo.Echo, arrangementID, body string) (echo.Context, *httptest.ResponseRecorder) {
	return newBookingContext(e, http.MethodPost, "/v1/arrangements/:id/reserve", arrangementID, body)
}

func TestReserveSuccessWireFormat(t *testing.T) {
	h, _ := newTestBookingHandler(model.Arrangement{ID: 1, TripID: 1, Name: "Athens week", BasePrice: 100, Capacity: 10})
	events := make(chan queue.ReservationConfirmedEvent, 1)
	h.publish = func(_ context.Context, ev queue.ReservationConfirmedEvent) error {
		events <- ev
		return nil
	}
	e := echo.New()

	c, rec := newReserveContext(e, "1", `{"count":3}`)
	require.NoError(t, h.Reserve(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"reserved":3`)
	assert.Contains(t, body, `"remaining":7`)

	select {
	case ev := <-events:
		assert.Equal(t, uint64(1), ev.ReservationID)
		assert.Equal(t, uint64(7), ev.UserID)
		assert.Equal(t, uint32(3), ev.SeatCount)
		assert.Equal(t, "Athens week", ev.ArrangementName)
		assert.Equal(t, "Greece", ev.TripName)
	case <-time.After(2 * time.Second):
		t.Fatal("no confirmation event published")
	}
}

func TestReserveSucceedsWithoutPublisher(t *testing.T) {
	// Event emission is optional; a handler with no publisher must still
	// complete the booking.
	h, _ := newTestBookingHandler(model.Arrangement{ID: 1, TripID: 1, BasePrice: 100, Capacity: 10})
	e := echo.New()

	c, rec := newReserveContext(e, "1", `{"count":2}`)
	require.NoError(t, h.Reserve(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Contains(t, rec.Body.String(), `"reserved":2`)
	assert.Contains(t, rec.Body.String(), `"remaining":8`)
}

func TestModifySuccessWireFormat(t *testing.T) {
	h, sr := newTestBookingHandler(model.Arrangement{ID: 1, TripID: 1, BasePrice: 100, Capacity: 10})
	sr.seed(model.Reservation{ID: 1, ArrangementID: 1, UserID: 7, SeatCount: 2, TotalPrice: 200})
	e := echo.New()

	c, rec := newBookingContext(e, http.MethodPut, "/v1/reservations/:id", "1", `{"seatCount":5}`)
	require.NoError(t, h.Modify(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"reservation"`)
	assert.Contains(t, body, `"seat_count":5`)
	assert.Contains(t, body, `"kapacitet":{"ukupno":10,"zauzeto":5,"dostupno":5}`)
	assert.Contains(t, body, `"novaCena":500`)
}

func TestModifyForeignReservationForbidden(t *testing.T) {
	h, sr := newTestBookingHandler(model.Arrangement{ID: 1, TripID: 1, BasePrice: 100, Capacity: 10})
	sr.seed(model.Reservation{ID: 1, ArrangementID: 1, UserID: 99, SeatCount: 2, TotalPrice: 200})
	e := echo.New()

	c, rec := newBookingContext(e, http.MethodPut, "/v1/reservations/:id", "1", `{"seatCount":5}`)
	require.NoError(t, h.Modify(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCancelSuccessWireFormat(t *testing.T) {
	h, sr := newTestBookingHandler(model.Arrangement{ID: 1, TripID: 1, BasePrice: 100, Capacity: 10})
	sr.seed(model.Reservation{ID: 1, ArrangementID: 1, UserID: 7, SeatCount: 4, TotalPrice: 400})
	e := echo.New()

	c, rec := newBookingContext(e, http.MethodDelete, "/v1/reservations/:id", "1", "")
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"releasedSeatCount":4`)
	assert.Contains(t, body, `"arrangementId":1`)

	// The second cancel finds nothing.
	c, rec = newBookingContext(e, http.MethodDelete, "/v1/reservations/:id", "1", "")
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestMyBookings(t *testing.T) {
	h, sr := newTestBookingHandler(model.Arrangement{ID: 1, TripID: 1, BasePrice: 100, Capacity: 10})
	sr.seed(model.Reservation{ID: 1, ArrangementID: 1, UserID: 7, SeatCount: 2, TotalPrice: 200})
	sr.seed(model.Reservation{ID: 2, ArrangementID: 1, UserID: 99, SeatCount: 1, TotalPrice: 100})
	e := echo.New()

	c, rec := newBookingContext(e, http.MethodGet, "/v1/my-bookings", "", "")
	require.NoError(t, h.MyBookings(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"seat_count":2`)
	assert.NotContains(t, body, `"seat_count":1`)
}

func TestReserveCapacityFailureCarriesRemaining(t *testing.T) {
	h, _ := newTestBookingHandler(model.Arrangement{ID: 1, TripID: 1, BasePrice: 100, Capacity: 3})
	e := echo.New()

	c, rec := newReserveContext(e, "1", `{"count":4}`)
	require.NoError(t, h.Reserve(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), `"preostalo":3`)
}

func TestReserveRejectsBadInput(t *testing.T) {
	h, _ := newTestBookingHandler(model.Arrangement{ID: 1, TripID: 1, BasePrice: 100, Capacity: 3})
	e := echo.New()

	c, rec := newReserveContext(e, "1", `{"count":0}`)
	require.NoError(t, h.Reserve(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	c, rec = newReserveContext(e, "abc", `{"count":1}`)
	require.NoError(t, h.Reserve(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReserveUnknownArrangement(t *testing.T) {
	h, _ := newTestBookingHandler()
	e := echo.New()

	c, rec := newReserveContext(e, "5", `{"count":1}`)
	require.NoError(t, h.Reserve(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCapacityViewWireFormat(t *testing.T) {
	h, sr := newTestBookingHandler(model.Arrangement{ID: 1, TripID: 1, BasePrice: 100, Capacity: 10})
	sr.seed(model.Reservation{ID: 1, ArrangementID: 1, UserID: 7, SeatCount: 4, TotalPrice: 400})
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/v1/arrangements/1/capacity", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath("/v1/arrangements/:id/capacity")
	c.SetParamNames("id")
	c.SetParamValues("1")

	require.NoError(t, h.Capacity(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `"ukupno":10`)
	assert.Contains(t, body, `"zauzeto":4`)
	assert.Contains(t, body, `"dostupno":6`)
}
