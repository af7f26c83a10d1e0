// Package repository implements raw-SQL data access over database/sql.
// Sentinel errors defined here let the service layer distinguish failure
// scenarios with errors.Is without inspecting SQL error strings.
package repository

import "errors"

// ErrSeatNotFound is returned when a seat id does not exist.
var ErrSeatNotFound = errors.New("seat not found")

// ErrSeatUnavailable is returned when a seat cannot be reserved because it
// is not AVAILABLE, or because the optimistic version guard observed a
// concurrent mutation between read and write.
var ErrSeatUnavailable = errors.New("seat unavailable")

// ErrBookingNotFound is returned when a booking id does not exist.
var ErrBookingNotFound = errors.New("booking not found")

// ErrBookingConfirmed is returned when a transition is attempted on a
// booking that is already CONFIRMED.
var ErrBookingConfirmed = errors.New("booking already confirmed")

// ErrBookingNotPending is returned when a transition requires a PENDING
// booking but the booking is in another state (e.g. EXPIRED).
var ErrBookingNotPending = errors.New("booking not pending")

// ErrEventNotFound is returned when an event id does not exist.
var ErrEventNotFound = errors.New("event not found")
