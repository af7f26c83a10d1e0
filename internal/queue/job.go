// Package queue schedules and consumes delayed booking-expiry jobs over
// RabbitMQ. Delay is realized with wait queues whose messages carry a
// per-message TTL and dead-letter into the work queue. RabbitMQ only
// expires the message at the head of a classic queue, so each wait queue
// must hold messages of a single uniform delay: fresh jobs (reservation
// window) and retries (short delay) park in separate queues. Delivery is
// at-least-once; the consumer side tolerates duplicate deliveries.
package queue

const (
	// ExpireWaitQueue parks fresh jobs until the reservation window elapses.
	ExpireWaitQueue = "booking.expire.wait"
	// ExpireRetryQueue parks failed jobs for the short retry delay. Kept
	// separate from ExpireWaitQueue so a retry is never stuck behind
	// longer-lived window messages ahead of it.
	ExpireRetryQueue = "booking.expire.retry"
	// ExpireWorkQueue receives dead-lettered jobs ready for execution.
	ExpireWorkQueue = "booking.expire"
)

// ExpireBookingJob asks the expiry worker to release a seat whose booking
// was never confirmed. Keyed by booking id: a stale job can only affect
// the one booking it was issued for, so re-reserved seats are unaffected.
// Attempt counts deliveries for the bounded retry budget.
type ExpireBookingJob struct {
	BookingID string `json:"booking_id"`
	SeatID    string `json:"seat_id"`
	Attempt   int    `json:"attempt"`
}
