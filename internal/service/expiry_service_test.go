package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-booking/internal/model"
	"ticket-booking/internal/queue"
	"ticket-booking/internal/service"
)

func TestExpireBookingReleasesSeat(t *testing.T) {
	store := newMemoryStore(availableSeat("S1"))
	cache := newFakeCache()
	rsvp := newReservationService(store, cache, &captureScheduler{})
	exp := service.NewExpiryService(store, cache, 100)

	booking, err := rsvp.Reserve(context.Background(), "U1", "S1")
	require.NoError(t, err)
	require.Equal(t, model.SeatReserved, cache.seatStatus("S1"))

	err = exp.ExpireBooking(context.Background(), queue.ExpireBookingJob{BookingID: booking.ID, SeatID: "S1"})
	require.NoError(t, err)

	assert.Equal(t, model.BookingExpired, store.booking(booking.ID).Status)
	seat := store.seat("S1")
	assert.Equal(t, model.SeatAvailable, seat.Status)
	assert.EqualValues(t, 2, seat.Version)
	// Stale gatekeeper entry cleared so the seat is reservable again at once.
	assert.Equal(t, model.SeatStatus(""), cache.seatStatus("S1"))
}

func TestExpireBookingIsIdempotent(t *testing.T) {
	store := newMemoryStore(availableSeat("S1"))
	cache := newFakeCache()
	rsvp := newReservationService(store, cache, &captureScheduler{})
	exp := service.NewExpiryService(store, cache, 100)

	booking, err := rsvp.Reserve(context.Background(), "U1", "S1")
	require.NoError(t, err)
	job := queue.ExpireBookingJob{BookingID: booking.ID, SeatID: "S1"}

	require.NoError(t, exp.ExpireBooking(context.Background(), job))
	// Redelivery of the same job is a successful no-op.
	require.NoError(t, exp.ExpireBooking(context.Background(), job))
	assert.EqualValues(t, 2, store.seat("S1").Version)
}

func TestExpireConfirmedBookingIsNoOp(t *testing.T) {
	store := newMemoryStore(availableSeat("S1"))
	cache := newFakeCache()
	rsvp := newReservationService(store, cache, &captureScheduler{})
	pay := service.NewPaymentService(store, cache)
	exp := service.NewExpiryService(store, cache, 100)

	booking, err := rsvp.Reserve(context.Background(), "U1", "S1")
	require.NoError(t, err)
	_, err = pay.ConfirmPayment(context.Background(), booking.ID)
	require.NoError(t, err)

	err = exp.ExpireBooking(context.Background(), queue.ExpireBookingJob{BookingID: booking.ID, SeatID: "S1"})
	require.NoError(t, err)
	// The sale stands and the SOLD status entry survives.
	assert.Equal(t, model.BookingConfirmed, store.booking(booking.ID).Status)
	assert.Equal(t, model.SeatSold, store.seat("S1").Status)
	assert.Equal(t, model.SeatSold, cache.seatStatus("S1"))
}

func TestExpireBookingUnknownID(t *testing.T) {
	store := newMemoryStore()
	exp := service.NewExpiryService(store, newFakeCache(), 100)

	err := exp.ExpireBooking(context.Background(), queue.ExpireBookingJob{BookingID: "missing", SeatID: "S1"})
	assert.NoError(t, err)
}

func TestExpireBookingStoreErrorPropagates(t *testing.T) {
	bookings := new(mockBookingStore)
	bookings.On("ExpireBooking", context.Background(), "B1").
		Return(false, "", errors.New("db gone"))
	exp := service.NewExpiryService(bookings, newFakeCache(), 100)

	// The consumer keys its retry decision off this error.
	err := exp.ExpireBooking(context.Background(), queue.ExpireBookingJob{BookingID: "B1", SeatID: "S1"})
	require.Error(t, err)
	bookings.AssertExpectations(t)
}

func TestSweepOnceExpiresStalePending(t *testing.T) {
	store := newMemoryStore(availableSeat("S1"), availableSeat("S2"))
	cache := newFakeCache()
	exp := service.NewExpiryService(store, cache, 100)

	// One booking past its window, one still inside it.
	stale, err := store.ReserveSeat(context.Background(), "U1", "S1", time.Now().UTC().Add(-time.Minute))
	require.NoError(t, err)
	fresh, err := store.ReserveSeat(context.Background(), "U2", "S2", time.Now().UTC().Add(testWindow))
	require.NoError(t, err)

	exp.SweepOnce(context.Background())

	assert.Equal(t, model.BookingExpired, store.booking(stale.ID).Status)
	assert.Equal(t, model.SeatAvailable, store.seat("S1").Status)
	assert.Equal(t, model.BookingPending, store.booking(fresh.ID).Status)
	assert.Equal(t, model.SeatReserved, store.seat("S2").Status)
}

func TestSweepOnceDrainsLongestOverdueFirst(t *testing.T) {
	store := newMemoryStore(availableSeat("S1"), availableSeat("S2"))
	exp := service.NewExpiryService(store, newFakeCache(), 1)

	older, err := store.ReserveSeat(context.Background(), "U1", "S1", time.Now().UTC().Add(-time.Hour))
	require.NoError(t, err)
	newer, err := store.ReserveSeat(context.Background(), "U2", "S2", time.Now().UTC().Add(-time.Minute))
	require.NoError(t, err)

	// With the pass bounded below the backlog size, the longest-overdue
	// booking goes first instead of an arbitrary pick.
	exp.SweepOnce(context.Background())
	assert.Equal(t, model.BookingExpired, store.booking(older.ID).Status)
	assert.Equal(t, model.BookingPending, store.booking(newer.ID).Status)

	exp.SweepOnce(context.Background())
	assert.Equal(t, model.BookingExpired, store.booking(newer.ID).Status)
}

func TestRunReconciliationStopsOnCancel(t *testing.T) {
	store := newMemoryStore()
	exp := service.NewExpiryService(store, newFakeCache(), 100)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		exp.RunReconciliation(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("reconciliation loop did not stop")
	}
}
