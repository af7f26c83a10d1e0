package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"ticket-booking/internal/monitoring"
)

// Handler processes one expiry job. A nil return acknowledges the job;
// an error triggers a delayed redelivery until the retry budget runs out.
type Handler func(ctx context.Context, job ExpireBookingJob) error

// Consumer drains the expiry work queue and drives the handler with the
// bounded-retry policy: transient failures are re-enqueued through the
// retry wait queue with a short delay, and jobs that exhaust the budget
// are logged loudly, since they represent a seat potentially stuck in
// RESERVED until the reconciliation sweep picks it up.
type Consumer struct {
	URL         string
	Handle      Handler
	MaxAttempts int
	RetryDelay  time.Duration
}

// Run connects to the broker and consumes until ctx is cancelled. It keeps
// a reconnect loop with capped backoff so a broker restart does not kill
// the worker.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.Printf("expiry-consumer: dial broker failed: %v; retrying in %s", err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		if err := c.consumeLoop(ctx, conn); err != nil {
			_ = conn.Close()
			if ctx.Err() != nil {
				return ctx.Err()
			}
			log.Printf("expiry-consumer: consume loop ended: %v; reconnecting", err)
			time.Sleep(2 * time.Second)
			continue
		}
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		log.Printf("expiry-consumer: set QoS failed: %v", err)
	}
	if err := DeclareQueues(ch); err != nil {
		return err
	}

	msgs, err := ch.Consume(ExpireWorkQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.handleDelivery(ctx, ch, d)
		}
	}
}

// republisher is the slice of *amqp.Channel the retry path needs.
type republisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// handleDelivery acknowledges a delivery only once its job is disposed of:
// handled, parked in the retry queue, or dropped with an alert. A failed
// re-enqueue nacks with requeue so the broker redelivers instead of the
// job silently vanishing until the sweep.
func (c *Consumer) handleDelivery(ctx context.Context, pub republisher, d amqp.Delivery) {
	var job ExpireBookingJob
	if err := json.Unmarshal(d.Body, &job); err != nil {
		log.Printf("expiry-consumer: unmarshal job failed: %v", err)
		_ = d.Nack(false, false) // poison message, do not requeue
		return
	}

	if err := c.Handle(ctx, job); err != nil {
		if !c.retry(ctx, pub, job, err) {
			_ = d.Nack(false, true)
			return
		}
	}
	_ = d.Ack(false)
}

// retry re-enqueues a failed job through the retry wait queue with
// attempt+1, or gives up once the budget is exhausted. Exhaustion is an
// operational alert, not a silent drop: the seat stays RESERVED until the
// sweep runs. Returns false when the job could not be re-enqueued and the
// original delivery must go back to the broker.
func (c *Consumer) retry(ctx context.Context, pub republisher, job ExpireBookingJob, cause error) bool {
	job.Attempt++
	if job.Attempt >= c.MaxAttempts {
		monitoring.ExpiryJobExhausted()
		log.Printf("ALERT expiry-consumer: job for booking %s failed after %d attempts: %v; seat %s may be stuck in RESERVED until reconciliation",
			job.BookingID, job.Attempt, cause, job.SeatID)
		return true
	}

	msg, err := jobPublishing(job, c.RetryDelay)
	if err != nil {
		log.Printf("expiry-consumer: marshal retry failed: %v", err)
		return false
	}
	if err := pub.PublishWithContext(ctx, "", ExpireRetryQueue, false, false, msg); err != nil {
		log.Printf("expiry-consumer: re-enqueue booking %s failed: %v", job.BookingID, err)
		return false
	}
	monitoring.ExpiryJobRetried()
	log.Printf("expiry-consumer: booking %s attempt %d/%d failed (%v); retrying in %s",
		job.BookingID, job.Attempt, c.MaxAttempts, cause, c.RetryDelay)
	return true
}
