package booking

import (
	"errors"
	"fmt"
)

// ErrInvalidSeatCount is returned when a requested seat count is below
// one.  The request is rejected before any storage call.
var ErrInvalidSeatCount = errors.New("seat count must be at least 1")

// CapacityExceededError is returned when an admission check fails.  It
// always carries the current remaining-seats figure so the caller can
// offer a corrected quantity without a second round-trip.
type CapacityExceededError struct {
	Remaining uint32
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("not enough seats available: %d remaining", e.Remaining)
}
