// Package capacity decides whether a requested number of seats still
// fits into an arrangement.  It performs no I/O: the booked figure is
// always supplied by the caller, which is responsible for obtaining it
// under the per-arrangement serialization described in internal/booking.
package capacity

// Remaining returns how many seats are still sellable given the
// arrangement's total capacity and the sum of currently booked seats.
// The result is clamped at zero so it never goes negative even if the
// stored data oversubscribes capacity.
func Remaining(capacity, booked uint32) uint32 {
	if booked >= capacity {
		return 0
	}
	return capacity - booked
}

// CanAdmit reports whether requestedDelta additional seats fit into the
// arrangement.  A delta of zero is always admitted.
func CanAdmit(capacity, booked, requestedDelta uint32) bool {
	return requestedDelta <= Remaining(capacity, booked)
}
