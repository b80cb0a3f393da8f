// Package repository defines sentinel error values shared across the
// repositories so that higher layers can distinguish failure scenarios
// with errors.Is.  Not-found conditions get their own sentinels instead
// of leaking sql.ErrNoRows, because handlers translate them into 404s
// for resources that live in different tables.
package repository

import "errors"

// ErrArrangementNotFound is returned when a referenced arrangement does
// not exist.  Handlers translate this into an HTTP 404 response.
var ErrArrangementNotFound = errors.New("arrangement not found")

// ErrReservationNotFound is returned when a referenced reservation does
// not exist, including a second cancel of an already-cancelled one.
var ErrReservationNotFound = errors.New("reservation not found")

// ErrTripNotFound is returned when a referenced trip does not exist.
var ErrTripNotFound = errors.New("trip not found")

// ErrPaymentNotFound is returned when a referenced payment does not exist.
var ErrPaymentNotFound = errors.New("payment not found")

// ErrEmailExists is returned when registering with an email that is
// already taken.  Handlers translate this into an HTTP 409 response.
var ErrEmailExists = errors.New("email already exists")

// ErrConflict is returned when a delete cannot be performed because of
// dependent records, such as removing an arrangement that still has
// reservations.  Handlers translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")
