package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"ticket-booking/internal/monitoring"
	"ticket-booking/internal/queue"
)

// ExpiryService releases seats whose booking was never confirmed. It backs
// both the queue consumer (the normal path, fired one reservation window
// after each booking) and the reconciliation sweep (the backstop for jobs
// lost to exhausted retries or a failed enqueue).
type ExpiryService struct {
	bookings   BookingStore
	cache      Cache
	sweepLimit int
}

// NewExpiryService wires the worker's collaborators. sweepLimit bounds how
// many stale bookings one reconciliation pass will process.
func NewExpiryService(bookings BookingStore, c Cache, sweepLimit int) *ExpiryService {
	return &ExpiryService{bookings: bookings, cache: c, sweepLimit: sweepLimit}
}

// ExpireBooking handles one delivery of an expiry job. Idempotent
// check-then-act keyed by booking id: a booking that is absent, already
// CONFIRMED, or already EXPIRED by a previous delivery is a successful
// no-op. An error return asks the queue for a retried delivery.
func (s *ExpiryService) ExpireBooking(ctx context.Context, job queue.ExpireBookingJob) error {
	released, seatID, err := s.bookings.ExpireBooking(ctx, job.BookingID)
	if err != nil {
		return fmt.Errorf("expire booking %s: %w", job.BookingID, err)
	}
	if !released {
		return nil
	}

	log.Printf("expiry: booking %s expired, seat %s released", job.BookingID, seatID)
	if err := s.cache.ClearSeatStatus(ctx, seatID); err != nil {
		log.Printf("expiry: clear status for seat %s failed: %v", seatID, err)
	}
	if err := s.cache.InvalidateAvailableSeats(ctx); err != nil {
		log.Printf("expiry: invalidate seats:available failed: %v", err)
	}
	monitoring.BookingExpired()
	return nil
}

// RunReconciliation periodically sweeps for PENDING bookings past their
// window whose expiry job never completed, and runs the same idempotent
// transition on each. Blocks until ctx is cancelled.
func (s *ExpiryService) RunReconciliation(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	log.Printf("reconciliation: sweeping every %s", interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("reconciliation: stopped")
			return
		case <-ticker.C:
			s.SweepOnce(ctx)
		}
	}
}

// SweepOnce runs a single reconciliation pass.
func (s *ExpiryService) SweepOnce(ctx context.Context) {
	stale, err := s.bookings.ListExpiredPending(ctx, s.sweepLimit)
	if err != nil {
		log.Printf("reconciliation: list stale bookings failed: %v", err)
		return
	}
	if len(stale) == 0 {
		return
	}

	log.Printf("reconciliation: found %d stale pending bookings", len(stale))
	for _, b := range stale {
		job := queue.ExpireBookingJob{BookingID: b.ID, SeatID: b.SeatID}
		if err := s.ExpireBooking(ctx, job); err != nil {
			log.Printf("reconciliation: expire booking %s failed: %v", b.ID, err)
		}
	}
}
