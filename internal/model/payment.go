package model

import "time"

// Payment is a single installment paid by a traveler towards an
// arrangement they are booked on.  A reservation can be paid off in
// several payments; no single payment may exceed the reservation's
// total price.
//
// Fields:
//  ID            – primary key identifier.
//  ArrangementID – arrangement the payment is for.
//  UserID        – traveler account that paid.
//  Amount        – amount paid, >= 0.
//  PaidAt        – date of the payment.
//  CreatedAt     – creation timestamp.
type Payment struct {
	ID            uint64    `json:"id"`             // payments.id
	ArrangementID uint64    `json:"arrangement_id"` // payments.arrangement_id
	UserID        uint64    `json:"user_id"`        // payments.user_id
	Amount        float64   `json:"amount"`         // payments.amount
	PaidAt        time.Time `json:"paid_at"`        // payments.paid_at
	CreatedAt     time.Time `json:"created_at"`     // payments.created_at
}
