package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"ticket-booking/internal/model"
)

const (
	defaultSeatPage = 100
	maxSeatPage     = 500
)

// AvailabilityAPI is the read path of the reservation service.
type AvailabilityAPI interface {
	AvailableSeats(ctx context.Context, limit int) ([]model.Seat, error)
}

// SeatHandler serves the availability listing. No authentication: guests
// browse seats before registering.
type SeatHandler struct {
	Reservations AvailabilityAPI
}

// NewSeatHandler constructs a SeatHandler.
func NewSeatHandler(r AvailabilityAPI) *SeatHandler {
	return &SeatHandler{Reservations: r}
}

// Available handles GET /v1/seats/available?limit=N. Results come from the
// seats:available cache when warm; staleness up to its TTL is accepted.
func (h *SeatHandler) Available(c echo.Context) error {
	limit := defaultSeatPage
	if s := c.QueryParam("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid limit"})
		}
		if n > maxSeatPage {
			n = maxSeatPage
		}
		limit = n
	}

	seats, err := h.Reservations.AvailableSeats(c.Request().Context(), limit)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to list seats"})
	}
	if seats == nil {
		seats = []model.Seat{}
	}
	return c.JSON(http.StatusOK, echo.Map{"seats": seats})
}
