// Package service implements the booking core: the reservation
// coordinator, the payment finalizer and the expiry worker, glued together
// by the seat/booking state machine in the model package.
package service

import "errors"

// Business errors surfaced verbatim to the caller. All are expected,
// client-retryable contention outcomes, never infrastructure failures,
// and none are retried automatically by the core.
var (
	// ErrSeatBusy: the gatekeeper cache says the seat is currently RESERVED.
	ErrSeatBusy = errors.New("seat is being processed by another booking")
	// ErrSeatTaken: the gatekeeper cache says the seat is SOLD.
	ErrSeatTaken = errors.New("seat is already sold")
	// ErrConcurrentRequestInProgress: another caller holds the seat lock.
	ErrConcurrentRequestInProgress = errors.New("concurrent reservation in progress for this seat")
	// ErrSeatUnavailable: the database says the seat is missing, not
	// AVAILABLE, or was mutated between read and write.
	ErrSeatUnavailable = errors.New("seat is not available")

	// ErrBookingNotFound: no booking with the given id.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrAlreadyConfirmed: duplicate confirmation of a CONFIRMED booking.
	// A detectable no-op from the caller's perspective, not a failure state.
	ErrAlreadyConfirmed = errors.New("booking already confirmed")
	// ErrBookingExpiredOrInvalid: the booking is not PENDING (e.g. EXPIRED).
	ErrBookingExpiredOrInvalid = errors.New("booking expired or invalid")
)
