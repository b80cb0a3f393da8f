package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/mkalinic/travel-booking-api/internal/model"
)

// ReservationRepo provides CRUD operations for reservations plus the
// aggregate seat-sum query the capacity check is built on.  Each method
// is a single atomic statement (or a read), so a cancelled or timed-out
// call never leaves a partially mutated row behind.  Serialization of
// check-then-write sequences is the booking service's job, not the
// repository's.
type ReservationRepo struct {
	db *sql.DB
}

// NewReservationRepo returns a ReservationRepo bound to the given database.
func NewReservationRepo(db *sql.DB) *ReservationRepo { return &ReservationRepo{db: db} }

const reservationCols = `id, arrangement_id, user_id, seat_count, total_price, created_at, updated_at`

// Create inserts a new reservation and reads the row back to populate
// the generated ID and DB-default timestamps on the provided record.
// It returns ErrArrangementNotFound when the arrangement foreign key
// does not resolve.
func (r *ReservationRepo) Create(ctx context.Context, res *model.Reservation) error {
	const q = `INSERT INTO reservations (arrangement_id, user_id, seat_count, total_price) VALUES (?, ?, ?, ?)`
	result, err := r.db.ExecContext(ctx, q, res.ArrangementID, res.UserID, res.SeatCount, res.TotalPrice)
	if err != nil {
		// 1452 = foreign key violation -> arrangement or user missing
		if strings.Contains(err.Error(), "1452") {
			return ErrArrangementNotFound
		}
		return err
	}
	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	res.ID = uint64(id)
	const sel = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, res.ID).Scan(
		&res.ID, &res.ArrangementID, &res.UserID, &res.SeatCount, &res.TotalPrice,
		&res.CreatedAt, &res.UpdatedAt)
}

// GetByID returns a single reservation or ErrReservationNotFound.
func (r *ReservationRepo) GetByID(ctx context.Context, id uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations WHERE id = ?`
	var res model.Reservation
	err := r.db.QueryRowContext(ctx, q, id).Scan(
		&res.ID, &res.ArrangementID, &res.UserID, &res.SeatCount, &res.TotalPrice,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// SumSeatsForArrangement returns the sum of seat_count across all
// reservations for the arrangement, 0 when there are none.  This is the
// authoritative "booked" figure: remaining capacity is always derived
// from it rather than from a cached counter, so it cannot drift.
func (r *ReservationRepo) SumSeatsForArrangement(ctx context.Context, arrangementID uint64) (uint32, error) {
	const q = `SELECT COALESCE(SUM(seat_count), 0) FROM reservations WHERE arrangement_id = ?`
	var booked uint32
	if err := r.db.QueryRowContext(ctx, q, arrangementID).Scan(&booked); err != nil {
		return 0, err
	}
	return booked, nil
}

// Update overwrites seat_count and total_price in one statement and
// returns the updated row.  ErrReservationNotFound is returned when the
// id is absent.
func (r *ReservationRepo) Update(ctx context.Context, id uint64, seatCount uint32, totalPrice float64) (*model.Reservation, error) {
	const q = `UPDATE reservations SET seat_count = ?, total_price = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, q, seatCount, totalPrice, id)
	if err != nil {
		return nil, err
	}
	// RowsAffected is 0 both for a missing row and for a no-op update,
	// so existence is confirmed by the read-back below.
	if _, err := res.RowsAffected(); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes the reservation and reports the seats it freed along
// with the arrangement they belonged to, so the caller can recompute
// remaining capacity.  ErrReservationNotFound is returned when the id
// is absent; a second delete of the same id therefore fails, which is
// the intended one-time cancellation semantics.
func (r *ReservationRepo) Delete(ctx context.Context, id uint64) (released uint32, arrangementID uint64, err error) {
	const sel = `SELECT seat_count, arrangement_id FROM reservations WHERE id = ?`
	if err = r.db.QueryRowContext(ctx, sel, id).Scan(&released, &arrangementID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, 0, ErrReservationNotFound
		}
		return 0, 0, err
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM reservations WHERE id = ?`, id)
	if err != nil {
		return 0, 0, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, 0, err
	}
	if affected == 0 {
		return 0, 0, ErrReservationNotFound
	}
	return released, arrangementID, nil
}

// ListByTraveler returns all reservations made by the given user,
// newest first, joined with arrangement and trip names for "my
// bookings" views.
func (r *ReservationRepo) ListByTraveler(ctx context.Context, userID uint64) ([]TravelerReservation, error) {
	const q = `SELECT r.id, r.arrangement_id, r.seat_count, r.total_price, r.created_at,
	                  a.name, a.date_from, a.date_to, t.name
	           FROM reservations r
	           JOIN arrangements a ON a.id = r.arrangement_id
	           JOIN trips t ON t.id = a.trip_id
	           WHERE r.user_id = ?
	           ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]TravelerReservation, 0)
	for rows.Next() {
		var tr TravelerReservation
		if err := rows.Scan(&tr.ID, &tr.ArrangementID, &tr.SeatCount, &tr.TotalPrice,
			&tr.CreatedAt, &tr.ArrangementName, &tr.DateFrom, &tr.DateTo, &tr.TripName); err != nil {
			return nil, err
		}
		out = append(out, tr)
	}
	return out, rows.Err()
}

// ListByArrangement returns all reservations on one arrangement with
// the booking traveler's email, for agent views.
func (r *ReservationRepo) ListByArrangement(ctx context.Context, arrangementID uint64) ([]ArrangementReservation, error) {
	const q = `SELECT r.id, r.user_id, u.email, r.seat_count, r.total_price, r.created_at
	           FROM reservations r
	           JOIN users u ON u.id = r.user_id
	           WHERE r.arrangement_id = ?
	           ORDER BY r.created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, arrangementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ArrangementReservation, 0)
	for rows.Next() {
		var ar ArrangementReservation
		if err := rows.Scan(&ar.ID, &ar.UserID, &ar.Email, &ar.SeatCount, &ar.TotalPrice, &ar.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, ar)
	}
	return out, rows.Err()
}

// CountGroupedByArrangement returns, per arrangement, how many seats
// are booked in total.  Arrangements with no reservations are included
// with a zero count so agents see the full catalog.
func (r *ReservationRepo) CountGroupedByArrangement(ctx context.Context) ([]ArrangementBookingCount, error) {
	const q = `SELECT a.id, a.name, a.capacity, COALESCE(SUM(r.seat_count), 0)
	           FROM arrangements a
	           LEFT JOIN reservations r ON r.arrangement_id = a.id
	           GROUP BY a.id, a.name, a.capacity
	           ORDER BY a.id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]ArrangementBookingCount, 0)
	for rows.Next() {
		var bc ArrangementBookingCount
		if err := rows.Scan(&bc.ArrangementID, &bc.ArrangementName, &bc.Capacity, &bc.BookedSeats); err != nil {
			return nil, err
		}
		out = append(out, bc)
	}
	return out, rows.Err()
}

// GetForUserAndArrangement returns the reservation a user holds on an
// arrangement, used by the payments flow to verify that the payer is
// actually booked.  ErrReservationNotFound is returned when none exists.
func (r *ReservationRepo) GetForUserAndArrangement(ctx context.Context, userID, arrangementID uint64) (*model.Reservation, error) {
	const q = `SELECT ` + reservationCols + ` FROM reservations
	           WHERE user_id = ? AND arrangement_id = ? LIMIT 1`
	var res model.Reservation
	err := r.db.QueryRowContext(ctx, q, userID, arrangementID).Scan(
		&res.ID, &res.ArrangementID, &res.UserID, &res.SeatCount, &res.TotalPrice,
		&res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	return &res, nil
}

// TravelerReservation is a reservation joined with arrangement and trip
// context for the traveler's own booking list.
type TravelerReservation struct {
	ID              uint64    `json:"id"`
	ArrangementID   uint64    `json:"arrangement_id"`
	SeatCount       uint32    `json:"seat_count"`
	TotalPrice      float64   `json:"total_price"`
	CreatedAt       time.Time `json:"created_at"`
	ArrangementName string    `json:"arrangement_name"`
	DateFrom        time.Time `json:"date_from"`
	DateTo          time.Time `json:"date_to"`
	TripName        string    `json:"trip_name"`
}

// ArrangementReservation is a reservation with traveler identity, shown
// to agents listing who is booked on an arrangement.
type ArrangementReservation struct {
	ID         uint64    `json:"id"`
	UserID     uint64    `json:"user_id"`
	Email      string    `json:"email"`
	SeatCount  uint32    `json:"seat_count"`
	TotalPrice float64   `json:"total_price"`
	CreatedAt  time.Time `json:"created_at"`
}

// ArrangementBookingCount aggregates booked seats per arrangement.
type ArrangementBookingCount struct {
	ArrangementID   uint64 `json:"arrangement_id"`
	ArrangementName string `json:"arrangement_name"`
	Capacity        uint32 `json:"capacity"`
	BookedSeats     uint32 `json:"booked_seats"`
}
