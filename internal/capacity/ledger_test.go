package capacity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRemaining(t *testing.T) {
	assert.Equal(t, uint32(6), Remaining(10, 4))
	assert.Equal(t, uint32(0), Remaining(10, 10))
	// An overbooked ledger reports zero instead of wrapping around.
	assert.Equal(t, uint32(0), Remaining(10, 12))
	assert.Equal(t, uint32(1), Remaining(1, 0))
}

func TestCanAdmit(t *testing.T) {
	assert.True(t, CanAdmit(10, 8, 2))
	assert.False(t, CanAdmit(10, 8, 3))
	assert.False(t, CanAdmit(10, 10, 1))
	assert.True(t, CanAdmit(10, 0, 10))
	assert.False(t, CanAdmit(5, 7, 1))
}
