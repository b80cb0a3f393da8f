package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mkalinic/travel-booking-api/internal/model"
)

// PlanRepo manages per-day itinerary entries of arrangements.
type PlanRepo struct {
	db *sql.DB
}

// NewPlanRepo returns a PlanRepo bound to the given database.
func NewPlanRepo(db *sql.DB) *PlanRepo { return &PlanRepo{db: db} }

// ListByArrangement returns the itinerary of an arrangement ordered by day.
func (r *PlanRepo) ListByArrangement(ctx context.Context, arrangementID uint64) ([]model.PlanEntry, error) {
	const q = `SELECT id, arrangement_id, day, description, created_at
	           FROM arrangement_plans WHERE arrangement_id = ? ORDER BY day`
	rows, err := r.db.QueryContext(ctx, q, arrangementID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.PlanEntry, 0)
	for rows.Next() {
		var p model.PlanEntry
		if err := rows.Scan(&p.ID, &p.ArrangementID, &p.Day, &p.Description, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CreateBulk inserts multiple itinerary entries for one arrangement in
// a single statement.  Passing an empty slice has no effect.
func (r *PlanRepo) CreateBulk(ctx context.Context, entries []model.PlanEntry) error {
	if len(entries) == 0 {
		return nil
	}
	query := `INSERT INTO arrangement_plans (arrangement_id, day, description) VALUES `
	args := make([]interface{}, 0, len(entries)*3)
	for i, e := range entries {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?)"
		args = append(args, e.ArrangementID, e.Day, e.Description)
	}
	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil && strings.Contains(err.Error(), "1452") {
		return ErrArrangementNotFound
	}
	return err
}
