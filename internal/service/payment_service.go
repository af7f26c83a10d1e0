package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"ticket-booking/internal/model"
	"ticket-booking/internal/monitoring"
	"ticket-booking/internal/repository"
)

// PaymentService finalizes a booking after payment: PENDING to CONFIRMED,
// seat RESERVED to SOLD, exactly once. Confirmation deliberately ignores
// the expiry job already in flight: the worker's own state check no-ops
// once the booking is CONFIRMED, so no job cancellation is needed.
type PaymentService struct {
	bookings BookingStore
	cache    Cache
}

// NewPaymentService wires the finalizer's collaborators.
func NewPaymentService(bookings BookingStore, c Cache) *PaymentService {
	return &PaymentService{bookings: bookings, cache: c}
}

// ConfirmPayment transitions the booking to CONFIRMED and its seat to
// SOLD. Returns ErrBookingNotFound, ErrAlreadyConfirmed for duplicate
// calls, or ErrBookingExpiredOrInvalid when the expiry worker got there
// first.
func (s *PaymentService) ConfirmPayment(ctx context.Context, bookingID string) (*model.Booking, error) {
	booking, err := s.bookings.ConfirmBooking(ctx, bookingID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrBookingNotFound):
			return nil, ErrBookingNotFound
		case errors.Is(err, repository.ErrBookingConfirmed):
			return nil, ErrAlreadyConfirmed
		case errors.Is(err, repository.ErrBookingNotPending):
			return nil, ErrBookingExpiredOrInvalid
		}
		return nil, fmt.Errorf("confirm booking %s: %w", bookingID, err)
	}

	// SOLD is terminal, so the status entry gets no TTL; it never needs to
	// self-heal. Both writes are best effort after the commit.
	if err := s.cache.SetSeatStatus(ctx, booking.SeatID, model.SeatSold, 0); err != nil {
		log.Printf("confirm: set SOLD status for seat %s failed: %v", booking.SeatID, err)
	}
	if err := s.cache.InvalidateAvailableSeats(ctx); err != nil {
		log.Printf("confirm: invalidate seats:available failed: %v", err)
	}
	monitoring.TicketSold()
	return booking, nil
}
