package model

import "time"

// Trip represents a destination in the travel catalog.  A trip can
// have many arrangements (concrete date ranges that can be booked).
// This struct corresponds to a row in the `trips` table.
//
// Fields:
//  ID          – primary key identifier.
//  Name        – display name of the destination.
//  Description – marketing description shown in the client.
//  Location    – free-form location string (city, country).
//  ImageURL    – optional image shown on destination cards.
//  PriceFrom   – optional "from" price displayed in listings.
//  CreatedAt   – timestamp when the trip was created.
//  UpdatedAt   – timestamp of last update.
type Trip struct {
	ID          uint64    // trips.id
	Name        string    // trips.name
	Description *string   // trips.description (nullable)
	Location    string    // trips.location
	ImageURL    *string   // trips.image_url (nullable)
	PriceFrom   *float64  // trips.price_from (nullable)
	CreatedAt   time.Time // trips.created_at
	UpdatedAt   time.Time // trips.updated_at
}
