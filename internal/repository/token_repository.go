package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/mkalinic/travel-booking-api/internal/model"
)

// TokenRepo persists refresh tokens.  Only the SHA-256 hash of a token
// is ever stored; the raw value exists client-side only, so a leaked
// table cannot be replayed into new sessions.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

const refreshTokenCols = `id, user_id, token_hash, expires_at, revoked_at, created_at`

// StoreRefresh inserts a refresh token row for the user.
func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES (?,?,?)",
		userID, tokenHash, exp)
	return err
}

// getByHash loads the stored token row for a hash.
func (r *TokenRepo) getByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	var (
		t       model.RefreshToken
		revoked sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+refreshTokenCols+" FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.ExpiresAt, &revoked, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	if revoked.Valid {
		rv := revoked.Time
		t.RevokedAt = &rv
	}
	return &t, nil
}

// ValidateRefresh returns the owning user ID when the hash maps to a
// usable token.  Revoked or expired tokens report sql.ErrNoRows, the
// same as an unknown hash, so callers cannot distinguish the cases.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	t, err := r.getByHash(ctx, tokenHash)
	if err != nil {
		return 0, err
	}
	if !t.Usable(time.Now().UTC()) {
		return 0, sql.ErrNoRows
	}
	return t.UserID, nil
}

// RevokeByHash marks one token as revoked.  Revoking an already-revoked
// token is a no-op.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForUser revokes every active token a user holds, logging the
// user out of all sessions at once.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE user_id=? AND revoked_at IS NULL",
		userID)
	return err
}
