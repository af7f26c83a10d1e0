package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"ticket-booking/internal/model"
	"ticket-booking/internal/monitoring"
	"ticket-booking/internal/queue"
	"ticket-booking/internal/repository"
)

// ReservationService coordinates a single reservation attempt: gatekeeper
// cache read, distributed seat lock, transactional reserve, post-commit
// cache updates and expiry scheduling. At most one concurrent caller can
// successfully reserve a given seat: the Redis lock narrows the race
// window and the database version guard is the authoritative line of
// defense if the lock's exclusion is ever violated.
type ReservationService struct {
	bookings BookingStore
	seats    SeatStore
	cache    Cache
	jobs     ExpiryScheduler

	window       time.Duration // reservation window for new bookings
	lockTTL      time.Duration // seat lock TTL
	availableTTL time.Duration // seats:available cache TTL
}

// NewReservationService wires the coordinator's collaborators and
// protocol durations.
func NewReservationService(bookings BookingStore, seats SeatStore, c Cache, jobs ExpiryScheduler, window, lockTTL, availableTTL time.Duration) *ReservationService {
	return &ReservationService{
		bookings:     bookings,
		seats:        seats,
		cache:        c,
		jobs:         jobs,
		window:       window,
		lockTTL:      lockTTL,
		availableTTL: availableTTL,
	}
}

// Reserve attempts to reserve seatID for userID. On success the created
// PENDING booking is returned; otherwise one of the typed business errors
// (ErrSeatBusy, ErrSeatTaken, ErrConcurrentRequestInProgress,
// ErrSeatUnavailable) or a wrapped infrastructure error.
func (s *ReservationService) Reserve(ctx context.Context, userID, seatID string) (*model.Booking, error) {
	// Gatekeeper read: advisory fast-fail for obviously doomed requests.
	// Cache errors fall through to the database; the cache is never
	// consulted for a write decision.
	status, err := s.cache.SeatStatus(ctx, seatID)
	if err != nil {
		log.Printf("reserve: gatekeeper read for seat %s failed: %v", seatID, err)
	} else {
		switch status {
		case model.SeatReserved:
			monitoring.ReservationAttempt("seat_busy")
			return nil, ErrSeatBusy
		case model.SeatSold:
			monitoring.ReservationAttempt("seat_taken")
			return nil, ErrSeatTaken
		}
	}

	// Mutual exclusion for the critical section. The TTL bounds the stall
	// a crashed holder can impose on competitors.
	locked, err := s.cache.AcquireSeatLock(ctx, seatID, userID, s.lockTTL)
	if err != nil {
		monitoring.ReservationAttempt("error")
		return nil, fmt.Errorf("acquire seat lock %s: %w", seatID, err)
	}
	if !locked {
		monitoring.ReservationAttempt("concurrent")
		return nil, ErrConcurrentRequestInProgress
	}
	// Guaranteed release on every exit path so a failed attempt does not
	// block retriers for the full TTL. A fresh context keeps the release
	// working when the request context was cancelled mid-flight.
	defer func() {
		relCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := s.cache.ReleaseSeatLock(relCtx, seatID); err != nil {
			log.Printf("reserve: release lock for seat %s failed (TTL will reap it): %v", seatID, err)
		}
	}()

	booking, err := s.bookings.ReserveSeat(ctx, userID, seatID, time.Now().UTC().Add(s.window))
	if err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) || errors.Is(err, repository.ErrSeatUnavailable) {
			monitoring.ReservationAttempt("unavailable")
			return nil, ErrSeatUnavailable
		}
		monitoring.ReservationAttempt("error")
		return nil, fmt.Errorf("reserve seat %s: %w", seatID, err)
	}

	// Post-commit side effects, best effort and ordered for the smallest
	// inconsistency window. Failures only widen cache staleness, which
	// self-heals via TTL.
	if err := s.cache.InvalidateAvailableSeats(ctx); err != nil {
		log.Printf("reserve: invalidate seats:available failed: %v", err)
	}
	if err := s.cache.SetSeatStatus(ctx, seatID, model.SeatReserved, s.window); err != nil {
		log.Printf("reserve: set status for seat %s failed: %v", seatID, err)
	}
	job := queue.ExpireBookingJob{BookingID: booking.ID, SeatID: seatID}
	if err := s.jobs.PublishExpireBooking(ctx, job, s.window); err != nil {
		// The reservation stands; the reconciliation sweep covers the
		// missing job.
		log.Printf("ALERT reserve: schedule expiry for booking %s failed: %v", booking.ID, err)
	}

	monitoring.ReservationAttempt("success")
	return booking, nil
}

// AvailableSeats serves the read-heavy availability listing through the
// seats:available cache. Staleness up to the TTL is accepted; with the
// cache cold or unreachable the database still answers correctly.
func (s *ReservationService) AvailableSeats(ctx context.Context, limit int) ([]model.Seat, error) {
	seats, hit, err := s.cache.AvailableSeats(ctx)
	if err != nil {
		log.Printf("available: cache read failed: %v", err)
	} else if hit {
		return seats, nil
	}

	seats, err = s.seats.ListAvailable(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("list available seats: %w", err)
	}
	if err := s.cache.StoreAvailableSeats(ctx, seats, s.availableTTL); err != nil {
		log.Printf("available: cache populate failed: %v", err)
	}
	return seats, nil
}

// Booking returns a single booking by id for the owner to inspect.
func (s *ReservationService) Booking(ctx context.Context, id string) (*model.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if errors.Is(err, repository.ErrBookingNotFound) {
		return nil, ErrBookingNotFound
	}
	return b, err
}
