package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/mkalinic/travel-booking-api/internal/model"
)

// ArrangementRepo manages persistence for arrangements.  The reservation
// core only ever reads arrangements; create and delete exist for the
// agent-facing catalog endpoints.  All timestamps are stored in UTC.
type ArrangementRepo struct {
	db *sql.DB
}

// NewArrangementRepo returns an ArrangementRepo bound to the given database.
func NewArrangementRepo(db *sql.DB) *ArrangementRepo { return &ArrangementRepo{db: db} }

const arrangementCols = `id, trip_id, name, date_from, date_to, base_price, discount_percent, capacity, created_at, updated_at`

func scanArrangement(row *sql.Row) (*model.Arrangement, error) {
	var a model.Arrangement
	err := row.Scan(&a.ID, &a.TripID, &a.Name, &a.DateFrom, &a.DateTo,
		&a.BasePrice, &a.DiscountPercent, &a.Capacity, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrArrangementNotFound
		}
		return nil, err
	}
	return &a, nil
}

// GetByID returns a single arrangement or ErrArrangementNotFound.
func (r *ArrangementRepo) GetByID(ctx context.Context, id uint64) (*model.Arrangement, error) {
	const q = `SELECT ` + arrangementCols + ` FROM arrangements WHERE id = ?`
	return scanArrangement(r.db.QueryRowContext(ctx, q, id))
}

// Create inserts a new arrangement and reads the row back so that
// DB-default fields (timestamps) are populated on the given value.
func (r *ArrangementRepo) Create(ctx context.Context, a *model.Arrangement) error {
	const q = `INSERT INTO arrangements (trip_id, name, date_from, date_to, base_price, discount_percent, capacity)
	           VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, a.TripID, a.Name, a.DateFrom, a.DateTo,
		a.BasePrice, a.DiscountPercent, a.Capacity)
	if err != nil {
		// 1452 = foreign key violation -> the trip does not exist
		if strings.Contains(err.Error(), "1452") {
			return ErrTripNotFound
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	a.ID = uint64(id)
	const sel = `SELECT ` + arrangementCols + ` FROM arrangements WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, a.ID).Scan(
		&a.ID, &a.TripID, &a.Name, &a.DateFrom, &a.DateTo,
		&a.BasePrice, &a.DiscountPercent, &a.Capacity, &a.CreatedAt, &a.UpdatedAt)
}

// ListActive returns arrangements whose start date is still in the
// future, ordered by start date.  This mirrors what travelers see when
// browsing the catalog.
func (r *ArrangementRepo) ListActive(ctx context.Context) ([]model.Arrangement, error) {
	const q = `SELECT ` + arrangementCols + ` FROM arrangements
	           WHERE date_from > UTC_DATE() ORDER BY date_from ASC`
	return r.list(ctx, q)
}

// ListByTrip returns upcoming arrangements for a single trip.
func (r *ArrangementRepo) ListByTrip(ctx context.Context, tripID uint64) ([]model.Arrangement, error) {
	const q = `SELECT ` + arrangementCols + ` FROM arrangements
	           WHERE trip_id = ? AND date_from > UTC_DATE() ORDER BY date_from ASC`
	return r.list(ctx, q, tripID)
}

func (r *ArrangementRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Arrangement, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Arrangement, 0)
	for rows.Next() {
		var a model.Arrangement
		if err := rows.Scan(&a.ID, &a.TripID, &a.Name, &a.DateFrom, &a.DateTo,
			&a.BasePrice, &a.DiscountPercent, &a.Capacity, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Delete removes an arrangement.  It refuses with ErrConflict when
// reservations still reference it, so bookings are never orphaned.
func (r *ArrangementRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	const cnt = `SELECT COUNT(*) FROM reservations WHERE arrangement_id = ?`
	if err := r.db.QueryRowContext(ctx, cnt, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM arrangements WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrArrangementNotFound
	}
	return nil
}
