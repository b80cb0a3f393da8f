package model

import "time"

// Arrangement is a bookable travel package under a trip: a date range
// with a base price, a discount percentage and a fixed seat capacity.
// The reservation core treats arrangements as read-only; price and
// capacity are owned by the catalog endpoints and may change out of
// band, which is why the booking service always re-reads the current
// values instead of caching them.
//
// Fields:
//  ID              – primary key identifier.
//  TripID          – trip (destination) this arrangement belongs to.
//  Name            – display name of the package.
//  DateFrom        – first day of the arrangement.
//  DateTo          – last day of the arrangement (>= DateFrom).
//  BasePrice       – undiscounted per-seat price, >= 0.
//  DiscountPercent – discount in [0,100] applied to BasePrice.
//  Capacity        – maximum total seats sellable, >= 1.
//  CreatedAt       – creation timestamp.
//  UpdatedAt       – last update timestamp.
type Arrangement struct {
	ID              uint64    // arrangements.id
	TripID          uint64    // arrangements.trip_id
	Name            string    // arrangements.name
	DateFrom        time.Time // arrangements.date_from
	DateTo          time.Time // arrangements.date_to
	BasePrice       float64   // arrangements.base_price
	DiscountPercent float64   // arrangements.discount_percent
	Capacity        uint32    // arrangements.capacity
	CreatedAt       time.Time // arrangements.created_at
	UpdatedAt       time.Time // arrangements.updated_at
}
