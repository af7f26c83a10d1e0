package model

import "time"

// Event is a row in the events table. Seats belong to exactly one event
// and are provisioned in bulk when the event is created.
type Event struct {
	ID        string    `json:"id"`    // events.id
	Name      string    `json:"name"`  // events.name
	Venue     string    `json:"venue"` // events.venue
	StartsAt  time.Time `json:"starts_at"`
	CreatedAt time.Time `json:"created_at"`
}
