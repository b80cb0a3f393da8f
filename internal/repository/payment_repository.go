package repository

import (
	"context"
	"database/sql"

	"github.com/mkalinic/travel-booking-api/internal/model"
)

// PaymentRepo manages payment records.  Business rules, like capping a
// payment at the reservation's total price, live in the handler layer;
// the repository only persists and lists rows.
type PaymentRepo struct {
	db *sql.DB
}

// NewPaymentRepo returns a PaymentRepo bound to the given database.
func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{db: db} }

const paymentCols = `id, arrangement_id, user_id, amount, paid_at, created_at`

// Create inserts a payment and populates ID and timestamps on it.
func (r *PaymentRepo) Create(ctx context.Context, p *model.Payment) error {
	const q = `INSERT INTO payments (arrangement_id, user_id, amount, paid_at) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, q, p.ArrangementID, p.UserID, p.Amount, p.PaidAt)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = uint64(id)
	const sel = `SELECT ` + paymentCols + ` FROM payments WHERE id = ?`
	return r.db.QueryRowContext(ctx, sel, p.ID).Scan(
		&p.ID, &p.ArrangementID, &p.UserID, &p.Amount, &p.PaidAt, &p.CreatedAt)
}

// List returns all payments, newest first.
func (r *PaymentRepo) List(ctx context.Context) ([]model.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments ORDER BY paid_at DESC`
	return r.list(ctx, q)
}

// ListByArrangement returns payments towards one arrangement, newest first.
func (r *PaymentRepo) ListByArrangement(ctx context.Context, arrangementID uint64) ([]model.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE arrangement_id = ? ORDER BY paid_at DESC`
	return r.list(ctx, q, arrangementID)
}

// ListByUser returns payments made by one traveler, newest first.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Payment, error) {
	const q = `SELECT ` + paymentCols + ` FROM payments WHERE user_id = ? ORDER BY paid_at DESC`
	return r.list(ctx, q, userID)
}

func (r *PaymentRepo) list(ctx context.Context, q string, args ...interface{}) ([]model.Payment, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Payment, 0)
	for rows.Next() {
		var p model.Payment
		if err := rows.Scan(&p.ID, &p.ArrangementID, &p.UserID, &p.Amount, &p.PaidAt, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SumForReservation returns how much the user has already paid towards
// an arrangement, used to cap further installments.
func (r *PaymentRepo) SumForReservation(ctx context.Context, userID, arrangementID uint64) (float64, error) {
	const q = `SELECT COALESCE(SUM(amount), 0) FROM payments WHERE user_id = ? AND arrangement_id = ?`
	var total float64
	err := r.db.QueryRowContext(ctx, q, userID, arrangementID).Scan(&total)
	return total, err
}

// Delete removes a payment or returns ErrPaymentNotFound.
func (r *PaymentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
