// Package cache wraps Redis access for the booking flow. Everything stored
// here is a derived optimization; the database is the single source of
// truth. Entries self-heal via TTL expiry, so a missed invalidation is a
// staleness window, never a correctness bug.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"ticket-booking/internal/model"
)

// Key namespace shared by the coordinator, the expiry worker and the
// payment finalizer. The names are a stable contract even when those
// components run as separate processes.
const (
	seatLockKeyFmt   = "lock:seat:%s"
	seatStatusKeyFmt = "status:seat:%s"
	availableKey     = "seats:available"
)

// SeatCache provides the per-seat mutual-exclusion lock and the
// denormalized seat status / availability entries.
type SeatCache struct {
	redis *redis.Client
}

// NewSeatCache returns a SeatCache backed by the provided client.
func NewSeatCache(client *redis.Client) *SeatCache {
	return &SeatCache{redis: client}
}

// AcquireSeatLock attempts the atomic conditional set of lock:seat:<id> to
// the requesting user with a short TTL. It returns false when another
// reservation attempt currently holds the lock. The TTL must exceed the
// reserve transaction's duration so a crashed holder self-releases.
func (c *SeatCache) AcquireSeatLock(ctx context.Context, seatID, userID string, ttl time.Duration) (bool, error) {
	return c.redis.SetNX(ctx, fmt.Sprintf(seatLockKeyFmt, seatID), userID, ttl).Result()
}

// ReleaseSeatLock deletes the seat lock. Called on every exit path of a
// reservation attempt so a failed caller does not block retriers for the
// full TTL.
func (c *SeatCache) ReleaseSeatLock(ctx context.Context, seatID string) error {
	return c.redis.Del(ctx, fmt.Sprintf(seatLockKeyFmt, seatID)).Err()
}

// SeatStatus reads the gatekeeper entry for a seat. A missing key is
// reported as an empty status with no error; callers fall through to the
// database.
func (c *SeatCache) SeatStatus(ctx context.Context, seatID string) (model.SeatStatus, error) {
	v, err := c.redis.Get(ctx, fmt.Sprintf(seatStatusKeyFmt, seatID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return model.SeatStatus(v), nil
}

// SetSeatStatus writes the gatekeeper entry. RESERVED entries carry the
// remaining reservation window as TTL; SOLD entries pass ttl=0 and never
// expire, since SOLD is terminal.
func (c *SeatCache) SetSeatStatus(ctx context.Context, seatID string, status model.SeatStatus, ttl time.Duration) error {
	return c.redis.Set(ctx, fmt.Sprintf(seatStatusKeyFmt, seatID), string(status), ttl).Err()
}

// ClearSeatStatus removes the gatekeeper entry after a seat returns to
// AVAILABLE.
func (c *SeatCache) ClearSeatStatus(ctx context.Context, seatID string) error {
	return c.redis.Del(ctx, fmt.Sprintf(seatStatusKeyFmt, seatID)).Err()
}

// AvailableSeats reads the cached availability listing. The second return
// value reports a hit; on a miss or an unmarshalable payload the caller
// queries the database and repopulates.
func (c *SeatCache) AvailableSeats(ctx context.Context) ([]model.Seat, bool, error) {
	raw, err := c.redis.Get(ctx, availableKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var seats []model.Seat
	if err := json.Unmarshal(raw, &seats); err != nil {
		return nil, false, nil
	}
	return seats, true, nil
}

// StoreAvailableSeats populates the availability listing with a short TTL.
func (c *SeatCache) StoreAvailableSeats(ctx context.Context, seats []model.Seat, ttl time.Duration) error {
	raw, err := json.Marshal(seats)
	if err != nil {
		return err
	}
	return c.redis.Set(ctx, availableKey, raw, ttl).Err()
}

// InvalidateAvailableSeats drops the availability listing after any write
// that changes seat state.
func (c *SeatCache) InvalidateAvailableSeats(ctx context.Context) error {
	return c.redis.Del(ctx, availableKey).Err()
}
