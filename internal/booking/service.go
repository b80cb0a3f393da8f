// Package booking implements the reservation core: admission control
// against arrangement capacity, price computation and the reserve /
// modify / cancel state transitions.  Remaining capacity is always
// re-derived from the sum of live reservations, never cached, and the
// check-then-write sequence for each arrangement runs under a
// per-arrangement mutex so concurrent requests cannot oversell.
package booking

import (
	"context"

	"github.com/mkalinic/travel-booking-api/internal/capacity"
	"github.com/mkalinic/travel-booking-api/internal/model"
	"github.com/mkalinic/travel-booking-api/internal/pricing"
)

// ArrangementStore is the read-only view of the catalog the service
// needs.  Price, discount and capacity are read fresh on every
// operation; they may change out of band between calls.
type ArrangementStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Arrangement, error)
}

// ReservationStore is the persistence surface for reservations.  Every
// mutation must be atomic on its own; the service provides the
// serialization around check-then-write sequences.
type ReservationStore interface {
	Create(ctx context.Context, res *model.Reservation) error
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	SumSeatsForArrangement(ctx context.Context, arrangementID uint64) (uint32, error)
	Update(ctx context.Context, id uint64, seatCount uint32, totalPrice float64) (*model.Reservation, error)
	Delete(ctx context.Context, id uint64) (released uint32, arrangementID uint64, err error)
}

// Service orchestrates the capacity ledger, the price calculator and
// the reservation store.  It holds no state between calls other than
// the lock table.
type Service struct {
	arrangements ArrangementStore
	reservations ReservationStore
	locks        *arrangementLocks
}

// NewService constructs a Service.  Both stores must be non-nil.
func NewService(arrangements ArrangementStore, reservations ReservationStore) *Service {
	if arrangements == nil || reservations == nil {
		panic("nil store passed to booking.NewService")
	}
	return &Service{
		arrangements: arrangements,
		reservations: reservations,
		locks:        newArrangementLocks(),
	}
}

// ReserveResult is returned by Reserve.
type ReserveResult struct {
	Reservation *model.Reservation
	Remaining   uint32
}

// ModifyResult is returned by Modify.  PriceDelta is the difference
// between the new and the previous total price and can be negative.
type ModifyResult struct {
	Reservation *model.Reservation
	Capacity    CapacityView
	PriceDelta  float64
}

// CancelResult is returned by Cancel.
type CancelResult struct {
	Released      uint32
	ArrangementID uint64
	Remaining     uint32
}

// CapacityView is the read-only capacity summary of one arrangement.
type CapacityView struct {
	Total     uint32 `json:"ukupno"`
	Booked    uint32 `json:"zauzeto"`
	Available uint32 `json:"dostupno"`
}

// Reserve books seatCount seats on an arrangement for a traveler.  It
// fails with ErrInvalidSeatCount for a count below one, with the
// arrangement store's not-found error when the arrangement is missing,
// and with *CapacityExceededError when fewer seats remain than
// requested.  On success the stored total price equals the
// arrangement's current discounted unit price times seatCount.
func (s *Service) Reserve(ctx context.Context, arrangementID, travelerID uint64, seatCount uint32) (*ReserveResult, error) {
	if seatCount < 1 {
		return nil, ErrInvalidSeatCount
	}

	lock := s.locks.get(arrangementID)
	lock.Lock()
	defer lock.Unlock()

	arr, err := s.arrangements.GetByID(ctx, arrangementID)
	if err != nil {
		return nil, err
	}
	booked, err := s.reservations.SumSeatsForArrangement(ctx, arrangementID)
	if err != nil {
		return nil, err
	}
	remaining := capacity.Remaining(arr.Capacity, booked)
	if seatCount > remaining {
		return nil, &CapacityExceededError{Remaining: remaining}
	}

	unit := pricing.UnitPrice(arr.BasePrice, arr.DiscountPercent)
	res := &model.Reservation{
		ArrangementID: arrangementID,
		UserID:        travelerID,
		SeatCount:     seatCount,
		TotalPrice:    pricing.Total(unit, seatCount),
	}
	if err := s.reservations.Create(ctx, res); err != nil {
		return nil, err
	}

	// Re-derive remaining from the ledger after the insert instead of
	// trusting the pre-insert figure.
	booked, err = s.reservations.SumSeatsForArrangement(ctx, arrangementID)
	if err != nil {
		return nil, err
	}
	return &ReserveResult{
		Reservation: res,
		Remaining:   capacity.Remaining(arr.Capacity, booked),
	}, nil
}

// Modify changes the seat count of an existing reservation.  Growing a
// reservation re-checks capacity for the delta only: the current booked
// sum already contains the reservation's old seats.  The total price is
// always recomputed from the arrangement's current price and discount,
// even when shrinking.  A failed capacity check leaves the reservation
// untouched.
func (s *Service) Modify(ctx context.Context, reservationID uint64, newSeatCount uint32) (*ModifyResult, error) {
	if newSeatCount < 1 {
		return nil, ErrInvalidSeatCount
	}

	// A first unserialized read resolves which arrangement to lock.
	// The reservation is re-read under the lock before it is trusted.
	peek, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	lock := s.locks.get(peek.ArrangementID)
	lock.Lock()
	defer lock.Unlock()

	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	arr, err := s.arrangements.GetByID(ctx, res.ArrangementID)
	if err != nil {
		return nil, err
	}
	booked, err := s.reservations.SumSeatsForArrangement(ctx, res.ArrangementID)
	if err != nil {
		return nil, err
	}

	if newSeatCount > res.SeatCount {
		delta := newSeatCount - res.SeatCount
		if !capacity.CanAdmit(arr.Capacity, booked, delta) {
			return nil, &CapacityExceededError{Remaining: capacity.Remaining(arr.Capacity, booked)}
		}
	}

	unit := pricing.UnitPrice(arr.BasePrice, arr.DiscountPercent)
	newTotal := pricing.Total(unit, newSeatCount)
	priceDelta := newTotal - res.TotalPrice

	updated, err := s.reservations.Update(ctx, reservationID, newSeatCount, newTotal)
	if err != nil {
		return nil, err
	}

	booked, err = s.reservations.SumSeatsForArrangement(ctx, res.ArrangementID)
	if err != nil {
		return nil, err
	}
	return &ModifyResult{
		Reservation: updated,
		Capacity: CapacityView{
			Total:     arr.Capacity,
			Booked:    booked,
			Available: capacity.Remaining(arr.Capacity, booked),
		},
		PriceDelta: priceDelta,
	}, nil
}

// Cancel deletes a reservation, releasing its seats back to the
// arrangement immediately.  Cancelling the same reservation twice is
// not idempotent: the second call fails with the store's not-found
// error, because cancellation is a one-time terminal transition.
func (s *Service) Cancel(ctx context.Context, reservationID uint64) (*CancelResult, error) {
	peek, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	lock := s.locks.get(peek.ArrangementID)
	lock.Lock()
	defer lock.Unlock()

	released, arrangementID, err := s.reservations.Delete(ctx, reservationID)
	if err != nil {
		return nil, err
	}

	arr, err := s.arrangements.GetByID(ctx, arrangementID)
	if err != nil {
		return nil, err
	}
	booked, err := s.reservations.SumSeatsForArrangement(ctx, arrangementID)
	if err != nil {
		return nil, err
	}
	return &CancelResult{
		Released:      released,
		ArrangementID: arrangementID,
		Remaining:     capacity.Remaining(arr.Capacity, booked),
	}, nil
}

// Capacity returns the capacity summary of an arrangement.  It is a
// read-only view and takes no lock; a concurrent reservation may make
// it stale the moment it is produced.
func (s *Service) Capacity(ctx context.Context, arrangementID uint64) (*CapacityView, error) {
	arr, err := s.arrangements.GetByID(ctx, arrangementID)
	if err != nil {
		return nil, err
	}
	booked, err := s.reservations.SumSeatsForArrangement(ctx, arrangementID)
	if err != nil {
		return nil, err
	}
	return &CapacityView{
		Total:     arr.Capacity,
		Booked:    booked,
		Available: capacity.Remaining(arr.Capacity, booked),
	}, nil
}
