package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"ticket-booking/internal/model"
	"ticket-booking/internal/service"
)

// ReservationAPI is the slice of the reservation service the booking
// handler consumes.
type ReservationAPI interface {
	Reserve(ctx context.Context, userID, seatID string) (*model.Booking, error)
	Booking(ctx context.Context, id string) (*model.Booking, error)
}

// BookingHandler serves reservation requests on behalf of authenticated
// customers.
type BookingHandler struct {
	Reservations ReservationAPI
}

// NewBookingHandler constructs a BookingHandler.
func NewBookingHandler(r ReservationAPI) *BookingHandler {
	return &BookingHandler{Reservations: r}
}

// Create handles POST /v1/bookings. The body carries the seat to reserve;
// the user comes from the JWT. Contention outcomes map to 409 so clients
// can distinguish "try another seat / try again" from real failures.
func (h *BookingHandler) Create(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		SeatID string `json:"seat_id"`
	}
	if err := c.Bind(&body); err != nil || body.SeatID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id is required"})
	}

	booking, err := h.Reservations.Reserve(c.Request().Context(), userID, body.SeatID)
	switch {
	case err == nil:
		return c.JSON(http.StatusCreated, booking)
	case errors.Is(err, service.ErrSeatBusy),
		errors.Is(err, service.ErrSeatTaken),
		errors.Is(err, service.ErrConcurrentRequestInProgress),
		errors.Is(err, service.ErrSeatUnavailable):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create booking"})
	}
}

// Get handles GET /v1/bookings/:id. Bookings are only visible to their
// owner; anything else reads as not found.
func (h *BookingHandler) Get(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	booking, err := h.Reservations.Booking(c.Request().Context(), c.Param("id"))
	if errors.Is(err, service.ErrBookingNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if booking.UserID != userID {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	}
	return c.JSON(http.StatusOK, booking)
}
