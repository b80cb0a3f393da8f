// Package queue defines message payloads exchanged over the message broker.
package queue

// ReservationConfirmedEvent is published after a reservation is stored.
// It carries enough context for downstream consumers to log or notify
// without querying the primary database.
type ReservationConfirmedEvent struct {
	ReservationID   uint64  `json:"reservation_id"`
	UserID          uint64  `json:"user_id"`
	ArrangementID   uint64  `json:"arrangement_id"`
	ArrangementName string  `json:"arrangement_name"`
	TripName        string  `json:"trip_name"`
	DateFrom        string  `json:"date_from"`
	DateTo          string  `json:"date_to"`
	SeatCount       uint32  `json:"seat_count"`
	TotalPrice      float64 `json:"total_price"`
	Remaining       uint32  `json:"remaining"`
	ConfirmedAt     string  `json:"confirmed_at"`
}
