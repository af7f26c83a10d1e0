package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Publisher enqueues delayed expiry jobs. It holds one connection and
// channel, re-dialing lazily when the broker drops them, and declares the
// wait/work queue pair on every (re)connect so publishing is safe against
// broker restarts.
type Publisher struct {
	url string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher connects to the broker at url and declares the expiry
// queues.
func NewPublisher(url string) (*Publisher, error) {
	p := &Publisher{url: url}
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.connectLocked(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) connectLocked() error {
	conn, err := amqp.Dial(p.url)
	if err != nil {
		return fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("channel open: %w", err)
	}
	if err := DeclareQueues(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return err
	}
	p.conn, p.ch = conn, ch
	return nil
}

// DeclareQueues declares the durable work queue and the two durable wait
// queues that dead-letter into it (one for fresh window-length jobs, one
// for short retries). Idempotent; both publisher and consumer call it so
// either side may start first.
func DeclareQueues(ch *amqp.Channel) error {
	if _, err := ch.QueueDeclare(ExpireWorkQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare %s: %w", ExpireWorkQueue, err)
	}
	deadLetter := amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": ExpireWorkQueue,
	}
	for _, q := range []string{ExpireWaitQueue, ExpireRetryQueue} {
		if _, err := ch.QueueDeclare(q, true, false, false, false, deadLetter); err != nil {
			return fmt.Errorf("declare %s: %w", q, err)
		}
	}
	return nil
}

// jobPublishing builds the persistent message for a job that becomes
// deliverable after delay, expressed as a per-message TTL in milliseconds.
func jobPublishing(job ExpireBookingJob, delay time.Duration) (amqp.Publishing, error) {
	body, err := json.Marshal(job)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Expiration:   strconv.FormatInt(delay.Milliseconds(), 10),
		Body:         body,
	}, nil
}

// PublishExpireBooking enqueues a job that becomes deliverable after delay.
// Messages are persistent so scheduled expirations survive broker
// restarts.
func (p *Publisher) PublishExpireBooking(ctx context.Context, job ExpireBookingJob, delay time.Duration) error {
	pub, err := jobPublishing(job, delay)
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch == nil || p.ch.IsClosed() {
		if err := p.connectLocked(); err != nil {
			return err
		}
	}
	if err := p.ch.PublishWithContext(ctx, "", ExpireWaitQueue, false, false, pub); err != nil {
		return fmt.Errorf("publish expire job: %w", err)
	}
	return nil
}

// Close releases the channel and connection.
func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
