package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// SeatStatus enumerates the lifecycle states of a seat. A seat starts
// AVAILABLE, moves to RESERVED when a booking is created for it, and from
// there either becomes SOLD (payment confirmed) or returns to AVAILABLE
// (booking expired). SOLD is terminal.
type SeatStatus string

const (
	SeatAvailable SeatStatus = "AVAILABLE"
	SeatReserved  SeatStatus = "RESERVED"
	SeatSold      SeatStatus = "SOLD"
)

// Seat is a row in the seats table. Number is the human label, unique
// within an event. Version increments on every state-changing update and
// is the optimistic concurrency guard for the reserve path.
type Seat struct {
	ID        string          `json:"id"`       // seats.id
	EventID   string          `json:"event_id"` // seats.event_id
	Number    string          `json:"number"`   // seats.number
	Price     decimal.Decimal `json:"price"`    // seats.price
	Status    SeatStatus      `json:"status"`   // seats.status
	Version   uint32          `json:"version"`  // seats.version
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// CanTransition reports whether a seat may move from its current status to
// the target status. The reserve path never skips RESERVED: AVAILABLE to
// SOLD directly is forbidden.
func (s SeatStatus) CanTransition(to SeatStatus) bool {
	switch s {
	case SeatAvailable:
		return to == SeatReserved
	case SeatReserved:
		return to == SeatSold || to == SeatAvailable
	default: // SOLD is terminal
		return false
	}
}
