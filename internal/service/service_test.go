package service_test

// Shared test doubles for the service package. memoryStore is a stateful
// in-memory BookingStore/SeatStore that enforces the same state machine
// and optimistic version guard as the SQL repositories, which lets the
// concurrency properties of the coordinator be exercised for real.
// fakeCache mimics the Redis lock/status semantics behind the Cache
// interface.

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"ticket-booking/internal/model"
	"ticket-booking/internal/queue"
	"ticket-booking/internal/repository"
)

type memoryStore struct {
	mu       sync.Mutex
	seats    map[string]*model.Seat
	bookings map[string]*model.Booking
}

func newMemoryStore(seats ...*model.Seat) *memoryStore {
	s := &memoryStore{
		seats:    make(map[string]*model.Seat),
		bookings: make(map[string]*model.Booking),
	}
	for _, seat := range seats {
		s.seats[seat.ID] = seat
	}
	return s
}

func (s *memoryStore) seat(id string) model.Seat {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.seats[id]
}

func (s *memoryStore) booking(id string) model.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	return *s.bookings[id]
}

func (s *memoryStore) ReserveSeat(ctx context.Context, userID, seatID string, expiresAt time.Time) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seat, ok := s.seats[seatID]
	if !ok {
		return nil, repository.ErrSeatNotFound
	}
	if seat.Status != model.SeatAvailable {
		return nil, repository.ErrSeatUnavailable
	}
	seat.Status = model.SeatReserved
	seat.Version++
	b := &model.Booking{
		ID:        uuid.NewString(),
		UserID:    userID,
		SeatID:    seatID,
		Status:    model.BookingPending,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now().UTC(),
	}
	s.bookings[b.ID] = b
	out := *b
	return &out, nil
}

func (s *memoryStore) ConfirmBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	switch {
	case b.Status == model.BookingConfirmed:
		return nil, repository.ErrBookingConfirmed
	case !b.CanConfirm():
		return nil, repository.ErrBookingNotPending
	}
	b.Status = model.BookingConfirmed
	seat := s.seats[b.SeatID]
	seat.Status = model.SeatSold
	seat.Version++
	out := *b
	return &out, nil
}

func (s *memoryStore) ExpireBooking(ctx context.Context, bookingID string) (bool, string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok || !b.CanExpire() {
		return false, "", nil
	}
	b.Status = model.BookingExpired
	seat := s.seats[b.SeatID]
	seat.Status = model.SeatAvailable
	seat.Version++
	return true, b.SeatID, nil
}

func (s *memoryStore) ListExpiredPending(ctx context.Context, limit int) ([]model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	var out []model.Booking
	for _, b := range s.bookings {
		if b.Status == model.BookingPending && !b.ExpiresAt.After(now) {
			out = append(out, *b)
		}
	}
	// Longest-overdue first, matching the repository's ORDER BY expires_at.
	sort.Slice(out, func(i, j int) bool { return out[i].ExpiresAt.Before(out[j].ExpiresAt) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *memoryStore) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, repository.ErrBookingNotFound
	}
	out := *b
	return &out, nil
}

func (s *memoryStore) ListAvailable(ctx context.Context, limit int) ([]model.Seat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Seat
	for _, seat := range s.seats {
		if seat.Status == model.SeatAvailable {
			out = append(out, *seat)
			if len(out) == limit {
				break
			}
		}
	}
	return out, nil
}

type fakeCache struct {
	mu           sync.Mutex
	locks        map[string]string
	status       map[string]model.SeatStatus
	available    []model.Seat
	hasAvailable bool

	statusErr error // injected gatekeeper read failure
}

func newFakeCache() *fakeCache {
	return &fakeCache{
		locks:  make(map[string]string),
		status: make(map[string]model.SeatStatus),
	}
}

func (c *fakeCache) AcquireSeatLock(ctx context.Context, seatID, userID string, ttl time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, held := c.locks[seatID]; held {
		return false, nil
	}
	c.locks[seatID] = userID
	return true, nil
}

func (c *fakeCache) ReleaseSeatLock(ctx context.Context, seatID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.locks, seatID)
	return nil
}

func (c *fakeCache) SeatStatus(ctx context.Context, seatID string) (model.SeatStatus, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.statusErr != nil {
		return "", c.statusErr
	}
	return c.status[seatID], nil
}

func (c *fakeCache) SetSeatStatus(ctx context.Context, seatID string, status model.SeatStatus, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status[seatID] = status
	return nil
}

func (c *fakeCache) ClearSeatStatus(ctx context.Context, seatID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.status, seatID)
	return nil
}

func (c *fakeCache) AvailableSeats(ctx context.Context) ([]model.Seat, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.available, c.hasAvailable, nil
}

func (c *fakeCache) StoreAvailableSeats(ctx context.Context, seats []model.Seat, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.available, c.hasAvailable = seats, true
	return nil
}

func (c *fakeCache) InvalidateAvailableSeats(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.available, c.hasAvailable = nil, false
	return nil
}

func (c *fakeCache) lockHeld(seatID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, held := c.locks[seatID]
	return held
}

func (c *fakeCache) seatStatus(seatID string) model.SeatStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status[seatID]
}

// captureScheduler records published expiry jobs.
type captureScheduler struct {
	mu     sync.Mutex
	jobs   []queue.ExpireBookingJob
	delays []time.Duration
	err    error
}

func (p *captureScheduler) PublishExpireBooking(ctx context.Context, job queue.ExpireBookingJob, delay time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.jobs = append(p.jobs, job)
	p.delays = append(p.delays, delay)
	return nil
}

func (p *captureScheduler) published() []queue.ExpireBookingJob {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]queue.ExpireBookingJob(nil), p.jobs...)
}

// mockBookingStore is a testify mock for error-path tests.
type mockBookingStore struct{ mock.Mock }

func (m *mockBookingStore) ReserveSeat(ctx context.Context, userID, seatID string, expiresAt time.Time) (*model.Booking, error) {
	args := m.Called(ctx, userID, seatID, expiresAt)
	if b, ok := args.Get(0).(*model.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingStore) ConfirmBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	args := m.Called(ctx, bookingID)
	if b, ok := args.Get(0).(*model.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingStore) ExpireBooking(ctx context.Context, bookingID string) (bool, string, error) {
	args := m.Called(ctx, bookingID)
	return args.Bool(0), args.String(1), args.Error(2)
}

func (m *mockBookingStore) ListExpiredPending(ctx context.Context, limit int) ([]model.Booking, error) {
	args := m.Called(ctx, limit)
	if b, ok := args.Get(0).([]model.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBookingStore) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	args := m.Called(ctx, id)
	if b, ok := args.Get(0).(*model.Booking); ok {
		return b, args.Error(1)
	}
	return nil, args.Error(1)
}

func availableSeat(id string) *model.Seat {
	return &model.Seat{
		ID:      id,
		EventID: "EV1",
		Number:  "A-" + id,
		Status:  model.SeatAvailable,
		Version: 0,
	}
}
