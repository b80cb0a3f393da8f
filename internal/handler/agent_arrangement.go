package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkalinic/travel-booking-api/internal/model"
	"github.com/mkalinic/travel-booking-api/internal/repository"
)

// AgentHandler bundles the agent-facing catalog management endpoints:
// trips, arrangements, itineraries and booking overviews.
type AgentHandler struct {
	Trips        *repository.TripRepo
	Arrangements *repository.ArrangementRepo
	Plans        *repository.PlanRepo
	Reservations *repository.ReservationRepo
}

// NewAgentHandler constructs an AgentHandler and panics on nil deps.
func NewAgentHandler(trips *repository.TripRepo, arr *repository.ArrangementRepo, plans *repository.PlanRepo, res *repository.ReservationRepo) *AgentHandler {
	if trips == nil || arr == nil || plans == nil || res == nil {
		panic("nil repository passed to NewAgentHandler")
	}
	return &AgentHandler{Trips: trips, Arrangements: arr, Plans: plans, Reservations: res}
}

type createTripReq struct {
	Name        string   `json:"name"`
	Description *string  `json:"description"`
	Location    string   `json:"location"`
	ImageURL    *string  `json:"image_url"`
	PriceFrom   *float64 `json:"price_from"`
}

type planEntryReq struct {
	Day         uint32 `json:"day"`
	Description string `json:"description"`
}

type createArrangementReq struct {
	TripID          uint64         `json:"trip_id"`
	Name            string         `json:"name"`
	DateFrom        string         `json:"date_from"` // YYYY-MM-DD
	DateTo          string         `json:"date_to"`   // YYYY-MM-DD
	BasePrice       float64        `json:"base_price"`
	DiscountPercent float64        `json:"discount_percent"`
	Capacity        uint32         `json:"capacity"`
	Plan            []planEntryReq `json:"plan"`
}

// CreateTrip handles POST /agent/trips.
func (h *AgentHandler) CreateTrip(c echo.Context) error {
	var req createTripReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Location = strings.TrimSpace(req.Location)
	if req.Name == "" || req.Location == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and location required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	trip := &model.Trip{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		ImageURL:    req.ImageURL,
		PriceFrom:   req.PriceFrom,
	}
	if err := h.Trips.Create(ctx, trip); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create trip failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"trip": toTripResp(*trip)})
}

// DeleteTrip handles DELETE /agent/trips/:id.  Trips with arrangements
// cannot be removed.
func (h *AgentHandler) DeleteTrip(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Trips.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrTripNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "trip still has arrangements"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete trip failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// CreateArrangement handles POST /agent/arrangements, optionally with
// an inline day-by-day plan.
func (h *AgentHandler) CreateArrangement(c echo.Context) error {
	var req createArrangementReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.TripID == 0 || req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "trip_id and name required"})
	}
	if req.Capacity < 1 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "capacity must be at least 1"})
	}
	if req.BasePrice < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "base_price must not be negative"})
	}
	if req.DiscountPercent < 0 || req.DiscountPercent > 100 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "discount_percent must be in [0,100]"})
	}
	dateFrom, err := time.Parse("2006-01-02", req.DateFrom)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date_from"})
	}
	dateTo, err := time.Parse("2006-01-02", req.DateTo)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date_to"})
	}
	if dateTo.Before(dateFrom) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "date_to before date_from"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	arr := &model.Arrangement{
		TripID:          req.TripID,
		Name:            req.Name,
		DateFrom:        dateFrom,
		DateTo:          dateTo,
		BasePrice:       req.BasePrice,
		DiscountPercent: req.DiscountPercent,
		Capacity:        req.Capacity,
	}
	if err := h.Arrangements.Create(ctx, arr); err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create arrangement failed"})
	}

	if len(req.Plan) > 0 {
		entries := make([]model.PlanEntry, 0, len(req.Plan))
		for _, p := range req.Plan {
			entries = append(entries, model.PlanEntry{
				ArrangementID: arr.ID,
				Day:           p.Day,
				Description:   p.Description,
			})
		}
		if err := h.Plans.CreateBulk(ctx, entries); err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create plan failed"})
		}
	}
	return c.JSON(http.StatusCreated, echo.Map{"arrangement": toArrangementResp(*arr)})
}

// DeleteArrangement handles DELETE /agent/arrangements/:id.  An
// arrangement with live reservations cannot be removed.
func (h *AgentHandler) DeleteArrangement(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid arrangement id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Arrangements.Delete(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrArrangementNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "arrangement not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "arrangement still has reservations"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete arrangement failed"})
		}
	}
	return c.NoContent(http.StatusNoContent)
}

// ListTravelers handles GET /agent/arrangements/:id/travelers: who is
// booked on one arrangement.
func (h *AgentHandler) ListTravelers(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid arrangement id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Arrangements.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrArrangementNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "arrangement not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	list, err := h.Reservations.ListByArrangement(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"reservations": list})
}

// BookingOverview handles GET /agent/bookings: booked seats per
// arrangement across the whole catalog, including empty arrangements.
func (h *AgentHandler) BookingOverview(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	counts, err := h.Reservations.CountGroupedByArrangement(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"arrangements": counts})
}
