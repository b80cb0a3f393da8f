package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashingRoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)
	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestPasswordHashingClampsBadCost(t *testing.T) {
	// A cost outside bcrypt's valid range must not fail the hash.
	for _, cost := range []int{0, -1, 99} {
		hash, err := HashPassword("s3cret", cost)
		require.NoError(t, err, "cost %d", cost)
		assert.True(t, VerifyPassword(hash, "s3cret"), "cost %d", cost)
	}
}

func TestVerifyPasswordRejectsGarbageHash(t *testing.T) {
	assert.False(t, VerifyPassword("not-a-bcrypt-hash", "s3cret"))
}
