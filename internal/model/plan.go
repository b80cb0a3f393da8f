package model

import "time"

// PlanEntry is one day of an arrangement's itinerary.  Entries are
// ordered by Day and shown to travelers browsing an arrangement.
//
// Fields:
//  ID            – primary key identifier.
//  ArrangementID – arrangement this entry belongs to.
//  Day           – day number within the arrangement, starting at 1.
//  Description   – what happens on that day.
//  CreatedAt     – creation timestamp.
type PlanEntry struct {
	ID            uint64    // arrangement_plans.id
	ArrangementID uint64    // arrangement_plans.arrangement_id
	Day           uint32    // arrangement_plans.day
	Description   string    // arrangement_plans.description
	CreatedAt     time.Time // arrangement_plans.created_at
}
