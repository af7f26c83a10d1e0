// Package monitoring registers the service's Prometheus metrics and
// exposes small helpers so callers never touch collector types directly.
package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ticketsSold = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tickets_sold_total",
			Help: "Bookings confirmed and seats sold",
		},
	)

	bookingsExpired = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_expired_total",
			Help: "Bookings expired and seats released",
		},
	)

	reservationAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reservation_attempts_total",
			Help: "Reservation attempts by outcome",
		},
		[]string{"outcome"},
	)

	expiryJobRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expiry_job_retries_total",
			Help: "Expiry jobs re-enqueued after a transient failure",
		},
	)

	expiryJobFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "expiry_job_failures_total",
			Help: "Expiry jobs dropped after exhausting the retry budget",
		},
	)
)

// TicketSold records a confirmed payment.
func TicketSold() { ticketsSold.Inc() }

// BookingExpired records a reclaimed seat.
func BookingExpired() { bookingsExpired.Inc() }

// ReservationAttempt records the outcome of one reservation attempt,
// e.g. "success", "seat_busy", "seat_taken", "concurrent", "unavailable",
// "error".
func ReservationAttempt(outcome string) { reservationAttempts.WithLabelValues(outcome).Inc() }

// ExpiryJobRetried records a delayed redelivery of an expiry job.
func ExpiryJobRetried() { expiryJobRetries.Inc() }

// ExpiryJobExhausted records an expiry job that ran out of retries.
func ExpiryJobExhausted() { expiryJobFailures.Inc() }
