package model

import "time"

// Reservation records one traveler account's booking of N seats on one
// arrangement.  TotalPrice always equals the arrangement's discounted
// unit price times SeatCount as of the last write: every seat-count
// change recomputes it from the arrangement's current price and
// discount, not the rate at original booking time.
//
// Fields:
//  ID            – primary key identifier.
//  ArrangementID – arrangement being booked (not owned by this record).
//  UserID        – traveler account that made the booking.
//  SeatCount     – number of seats booked, >= 1.
//  TotalPrice    – discounted unit price * SeatCount at last write.
//  CreatedAt     – creation timestamp.
//  UpdatedAt     – last update timestamp.
type Reservation struct {
	ID            uint64    `json:"id"`             // reservations.id
	ArrangementID uint64    `json:"arrangement_id"` // reservations.arrangement_id
	UserID        uint64    `json:"user_id"`        // reservations.user_id
	SeatCount     uint32    `json:"seat_count"`     // reservations.seat_count
	TotalPrice    float64   `json:"total_price"`    // reservations.total_price
	CreatedAt     time.Time `json:"created_at"`     // reservations.created_at
	UpdatedAt     time.Time `json:"updated_at"`     // reservations.updated_at
}
