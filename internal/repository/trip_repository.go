package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/mkalinic/travel-booking-api/internal/model"
)

// TripRepo manages persistence for the destination catalog.
type TripRepo struct {
	db *sql.DB
}

// NewTripRepo returns a TripRepo bound to the given database.
func NewTripRepo(db *sql.DB) *TripRepo { return &TripRepo{db: db} }

const tripCols = `id, name, description, location, image_url, price_from, created_at, updated_at`

// List returns all trips ordered by name.
func (r *TripRepo) List(ctx context.Context) ([]model.Trip, error) {
	const q = `SELECT ` + tripCols + ` FROM trips ORDER BY name`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Trip, 0)
	for rows.Next() {
		var t model.Trip
		if err := rows.Scan(&t.ID, &t.Name, &t.Description, &t.Location,
			&t.ImageURL, &t.PriceFrom, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// GetByID returns a single trip or ErrTripNotFound.
func (r *TripRepo) GetByID(ctx context.Context, id uint64) (*model.Trip, error) {
	const q = `SELECT ` + tripCols + ` FROM trips WHERE id = ?`
	var t model.Trip
	err := r.db.QueryRowContext(ctx, q, id).Scan(&t.ID, &t.Name, &t.Description,
		&t.Location, &t.ImageURL, &t.PriceFrom, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTripNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create inserts a new trip and populates ID and timestamps on it.
func (r *TripRepo) Create(ctx context.Context, t *model.Trip) error {
	const q = `INSERT INTO trips (name, description, location, image_url, price_from) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, t.Name, t.Description, t.Location, t.ImageURL, t.PriceFrom)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	t.ID = uint64(id)
	const sel = `SELECT ` + tripCols + ` FROM trips WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, t.ID).Scan(&t.ID, &t.Name, &t.Description,
		&t.Location, &t.ImageURL, &t.PriceFrom, &t.CreatedAt, &t.UpdatedAt)
}

// Delete removes a trip.  It refuses with ErrConflict when arrangements
// still reference it.
func (r *TripRepo) Delete(ctx context.Context, id uint64) error {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM arrangements WHERE trip_id = ?`, id).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return ErrConflict
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM trips WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrTripNotFound
	}
	return nil
}
