// This file defines handlers for the public browsing API.  These routes
// let unauthenticated users browse trips, arrangements and itineraries;
// internal fields (capacity, timestamps) are filtered from responses.

package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkalinic/travel-booking-api/internal/model"
	"github.com/mkalinic/travel-booking-api/internal/pricing"
	"github.com/mkalinic/travel-booking-api/internal/repository"
)

// BrowseHandler serves the public catalog: trips, upcoming arrangements
// and per-day itineraries.  These endpoints need no authentication and
// sit behind the response cache.
type BrowseHandler struct {
	Trips        *repository.TripRepo
	Arrangements *repository.ArrangementRepo
	Plans        *repository.PlanRepo
}

// NewBrowseHandler constructs a BrowseHandler and panics on nil deps.
func NewBrowseHandler(trips *repository.TripRepo, arr *repository.ArrangementRepo, plans *repository.PlanRepo) *BrowseHandler {
	if trips == nil || arr == nil || plans == nil {
		panic("nil repository passed to NewBrowseHandler")
	}
	return &BrowseHandler{Trips: trips, Arrangements: arr, Plans: plans}
}

// tripResp is the public shape of a trip.
type tripResp struct {
	ID          uint64   `json:"id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Location    string   `json:"location"`
	ImageURL    *string  `json:"image_url,omitempty"`
	PriceFrom   *float64 `json:"price_from,omitempty"`
}

// arrangementResp is the public shape of an arrangement.  Capacity and
// occupancy are intentionally absent; clients get those from the
// dedicated capacity endpoint so a cached catalog page never shows a
// stale figure.
type arrangementResp struct {
	ID              uint64  `json:"id"`
	TripID          uint64  `json:"trip_id"`
	Name            string  `json:"name"`
	DateFrom        string  `json:"date_from"`
	DateTo          string  `json:"date_to"`
	BasePrice       float64 `json:"base_price"`
	DiscountPercent float64 `json:"discount_percent"`
	UnitPrice       float64 `json:"unit_price"`
}

// planEntryResp is the public shape of one itinerary day.
type planEntryResp struct {
	Day         uint32 `json:"day"`
	Description string `json:"description"`
}

func toTripResp(t model.Trip) tripResp {
	return tripResp{
		ID:          t.ID,
		Name:        t.Name,
		Description: t.Description,
		Location:    t.Location,
		ImageURL:    t.ImageURL,
		PriceFrom:   t.PriceFrom,
	}
}

func toArrangementResp(a model.Arrangement) arrangementResp {
	return arrangementResp{
		ID:              a.ID,
		TripID:          a.TripID,
		Name:            a.Name,
		DateFrom:        a.DateFrom.UTC().Format("2006-01-02"),
		DateTo:          a.DateTo.UTC().Format("2006-01-02"),
		BasePrice:       a.BasePrice,
		DiscountPercent: a.DiscountPercent,
		UnitPrice:       pricing.UnitPrice(a.BasePrice, a.DiscountPercent),
	}
}

func arrangementList(arrs []model.Arrangement) []arrangementResp {
	out := make([]arrangementResp, 0, len(arrs))
	for _, a := range arrs {
		out = append(out, toArrangementResp(a))
	}
	return out
}

func planList(entries []model.PlanEntry) []planEntryResp {
	out := make([]planEntryResp, 0, len(entries))
	for _, e := range entries {
		out = append(out, planEntryResp{Day: e.Day, Description: e.Description})
	}
	return out
}

// ListTrips handles GET /trips.
func (h *BrowseHandler) ListTrips(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	trips, err := h.Trips.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]tripResp, 0, len(trips))
	for _, t := range trips {
		out = append(out, toTripResp(t))
	}
	return c.JSON(http.StatusOK, echo.Map{"trips": out})
}

// GetTrip handles GET /trips/:id with its upcoming arrangements inlined.
func (h *BrowseHandler) GetTrip(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid trip id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	trip, err := h.Trips.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTripNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "trip not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	arrs, err := h.Arrangements.ListByTrip(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"trip":         toTripResp(*trip),
		"arrangements": arrangementList(arrs),
	})
}

// ListArrangements handles GET /arrangements (upcoming only).
func (h *BrowseHandler) ListArrangements(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	arrs, err := h.Arrangements.ListActive(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"arrangements": arrangementList(arrs)})
}

// GetArrangement handles GET /arrangements/:id including its itinerary.
func (h *BrowseHandler) GetArrangement(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid arrangement id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	arr, err := h.Arrangements.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrArrangementNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "arrangement not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	plan, err := h.Plans.ListByArrangement(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"arrangement": toArrangementResp(*arr),
		"plan":        planList(plan),
	})
}
