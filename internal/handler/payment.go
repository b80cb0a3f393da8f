package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/mkalinic/travel-booking-api/internal/model"
	"github.com/mkalinic/travel-booking-api/internal/repository"
)

// PaymentHandler records and lists installment payments travelers make
// towards their bookings.  Creation and deletion are finance-staff
// operations; travelers can list their own payments.
type PaymentHandler struct {
	Payments     *repository.PaymentRepo
	Reservations *repository.ReservationRepo
}

// NewPaymentHandler constructs a PaymentHandler and panics on nil deps.
func NewPaymentHandler(payments *repository.PaymentRepo, res *repository.ReservationRepo) *PaymentHandler {
	if payments == nil || res == nil {
		panic("nil repository passed to NewPaymentHandler")
	}
	return &PaymentHandler{Payments: payments, Reservations: res}
}

type createPaymentReq struct {
	ArrangementID uint64  `json:"arrangement_id"`
	UserID        uint64  `json:"user_id"`
	Amount        float64 `json:"amount"`
	PaidAt        string  `json:"paid_at"` // YYYY-MM-DD, defaults to today
}

// Create handles POST /finance/payments.  The payer must hold a
// reservation on the arrangement, and the running total of their
// payments may not exceed the reservation's total price.
func (h *PaymentHandler) Create(c echo.Context) error {
	var req createPaymentReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ArrangementID == 0 || req.UserID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "arrangement_id and user_id required"})
	}
	if req.Amount <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "amount must be positive"})
	}
	paidAt := time.Now().UTC()
	if req.PaidAt != "" {
		var err error
		paidAt, err = time.Parse("2006-01-02", req.PaidAt)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid paid_at"})
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res, err := h.Reservations.GetForUserAndArrangement(ctx, req.UserID, req.ArrangementID)
	if err != nil {
		if errors.Is(err, repository.ErrReservationNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "traveler has no reservation on this arrangement"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	paid, err := h.Payments.SumForReservation(ctx, req.UserID, req.ArrangementID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if paid+req.Amount > res.TotalPrice {
		return c.JSON(http.StatusConflict, echo.Map{
			"error":     "payment exceeds reservation total",
			"total":     res.TotalPrice,
			"paid":      paid,
			"remaining": res.TotalPrice - paid,
		})
	}

	p := &model.Payment{
		ArrangementID: req.ArrangementID,
		UserID:        req.UserID,
		Amount:        req.Amount,
		PaidAt:        paidAt,
	}
	if err := h.Payments.Create(ctx, p); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create payment failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"payment": p})
}

// List handles GET /finance/payments, optionally filtered by
// arrangement via ?arrangement_id=.
func (h *PaymentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if raw := c.QueryParam("arrangement_id"); raw != "" {
		id, err := parseQueryID(raw)
		if err != nil {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid arrangement_id"})
		}
		list, err := h.Payments.ListByArrangement(ctx, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		return c.JSON(http.StatusOK, echo.Map{"payments": list})
	}

	list, err := h.Payments.List(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": list})
}

// MyPayments handles GET /my-payments for the authenticated traveler.
func (h *PaymentHandler) MyPayments(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	list, err := h.Payments.ListByUser(ctx, uid)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"payments": list})
}

// Delete handles DELETE /finance/payments/:id, used to void a
// mistakenly entered installment.
func (h *PaymentHandler) Delete(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid payment id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Payments.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "payment not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete payment failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
