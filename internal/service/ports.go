package service

import (
	"context"
	"time"

	"ticket-booking/internal/model"
	"ticket-booking/internal/queue"
)

// SeatStore is the read side of the seats table used by the availability
// listing.
type SeatStore interface {
	ListAvailable(ctx context.Context, limit int) ([]model.Seat, error)
}

// BookingStore owns the transactional seat/booking state transitions.
// Implemented by repository.BookingRepo; each method is a single database
// transaction.
type BookingStore interface {
	ReserveSeat(ctx context.Context, userID, seatID string, expiresAt time.Time) (*model.Booking, error)
	ConfirmBooking(ctx context.Context, bookingID string) (*model.Booking, error)
	ExpireBooking(ctx context.Context, bookingID string) (released bool, seatID string, err error)
	ListExpiredPending(ctx context.Context, limit int) ([]model.Booking, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
}

// ExpiryScheduler enqueues delayed expiry jobs. Implemented by
// queue.Publisher.
type ExpiryScheduler interface {
	PublishExpireBooking(ctx context.Context, job queue.ExpireBookingJob, delay time.Duration) error
}

// Cache is the seat lock and gatekeeper cache surface. Implemented by
// cache.SeatCache. Everything behind it is advisory; the BookingStore is
// the source of truth.
type Cache interface {
	AcquireSeatLock(ctx context.Context, seatID, userID string, ttl time.Duration) (bool, error)
	ReleaseSeatLock(ctx context.Context, seatID string) error
	SeatStatus(ctx context.Context, seatID string) (model.SeatStatus, error)
	SetSeatStatus(ctx context.Context, seatID string, status model.SeatStatus, ttl time.Duration) error
	ClearSeatStatus(ctx context.Context, seatID string) error
	AvailableSeats(ctx context.Context) ([]model.Seat, bool, error)
	StoreAvailableSeats(ctx context.Context, seats []model.Seat, ttl time.Duration) error
	InvalidateAvailableSeats(ctx context.Context) error
}
