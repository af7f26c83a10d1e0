package model

import "time"

// BookingStatus enumerates the lifecycle states of a booking. PENDING is
// the only non-terminal state; CONFIRMED and EXPIRED are terminal.
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingExpired   BookingStatus = "EXPIRED"
)

// Booking records a user's claim on a single seat. A booking's status must
// agree with its seat's status: PENDING pairs with RESERVED, CONFIRMED with
// SOLD, and EXPIRED means the seat was returned to AVAILABLE. Bookings are
// never deleted; they serve as an audit trail even after the seat cycles
// back through expiry.
type Booking struct {
	ID        string        `json:"id"`      // bookings.id
	UserID    string        `json:"user_id"` // bookings.user_id
	SeatID    string        `json:"seat_id"` // bookings.seat_id
	Status    BookingStatus `json:"status"`  // bookings.status
	ExpiresAt time.Time     `json:"expires_at"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// SeatStatusFor returns the seat status that must pair with a booking
// status after a transition touching both rows.
func SeatStatusFor(bs BookingStatus) SeatStatus {
	switch bs {
	case BookingPending:
		return SeatReserved
	case BookingConfirmed:
		return SeatSold
	default:
		return SeatAvailable
	}
}

// CanConfirm reports whether the booking may transition to CONFIRMED.
func (b *Booking) CanConfirm() bool { return b.Status == BookingPending }

// CanExpire reports whether the booking may transition to EXPIRED.
func (b *Booking) CanExpire() bool { return b.Status == BookingPending }
