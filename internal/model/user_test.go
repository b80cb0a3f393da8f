package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRefreshTokenUsable(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)
	revoked := now.Add(-time.Hour)

	cases := []struct {
		name string
		tok  RefreshToken
		want bool
	}{
		{"active", RefreshToken{ExpiresAt: now.Add(time.Hour)}, true},
		{"expired", RefreshToken{ExpiresAt: now.Add(-time.Minute)}, false},
		{"expiring this instant", RefreshToken{ExpiresAt: now}, false},
		{"revoked", RefreshToken{ExpiresAt: now.Add(time.Hour), RevokedAt: &revoked}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.tok.Usable(now))
		})
	}
}
