package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ticket-booking/internal/model"
)

type stubAvailability struct {
	seats    []model.Seat
	err      error
	gotLimit int
}

func (s *stubAvailability) AvailableSeats(ctx context.Context, limit int) ([]model.Seat, error) {
	s.gotLimit = limit
	return s.seats, s.err
}

func TestSeatsAvailable(t *testing.T) {
	stub := &stubAvailability{seats: []model.Seat{{ID: "S1", Status: model.SeatAvailable}}}
	h := NewSeatHandler(stub)
	c, rec := newBookingContext(t, http.MethodGet, "/v1/seats/available", "", "")

	require.NoError(t, h.Available(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, defaultSeatPage, stub.gotLimit)
	assert.Contains(t, rec.Body.String(), `"S1"`)
}

func TestSeatsAvailableLimitParsing(t *testing.T) {
	cases := []struct {
		query     string
		wantCode  int
		wantLimit int
	}{
		{"limit=25", http.StatusOK, 25},
		{"limit=9999", http.StatusOK, maxSeatPage},
		{"limit=0", http.StatusBadRequest, 0},
		{"limit=abc", http.StatusBadRequest, 0},
	}
	for _, tc := range cases {
		stub := &stubAvailability{}
		h := NewSeatHandler(stub)
		c, rec := newBookingContext(t, http.MethodGet, "/v1/seats/available?"+tc.query, "", "")

		require.NoError(t, h.Available(c))
		assert.Equalf(t, tc.wantCode, rec.Code, "query %q", tc.query)
		if tc.wantCode == http.StatusOK {
			assert.Equalf(t, tc.wantLimit, stub.gotLimit, "query %q", tc.query)
		}
	}
}

func TestSeatsAvailableEmptyIsAnArray(t *testing.T) {
	h := NewSeatHandler(&stubAvailability{})
	c, rec := newBookingContext(t, http.MethodGet, "/v1/seats/available", "", "")

	require.NoError(t, h.Available(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"seats":[]`)
}

func TestSeatsAvailableError(t *testing.T) {
	h := NewSeatHandler(&stubAvailability{err: errors.New("db gone")})
	c, rec := newBookingContext(t, http.MethodGet, "/v1/seats/available", "", "")

	require.NoError(t, h.Available(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "db gone")
}
