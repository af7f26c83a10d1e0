package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"ticket-booking/internal/model"
	"ticket-booking/internal/service"
)

// PaymentAPI is the slice of the payment finalizer the handler consumes.
type PaymentAPI interface {
	ConfirmPayment(ctx context.Context, bookingID string) (*model.Booking, error)
}

// PaymentHandler serves payment confirmations. This is a pure state
// transition endpoint; gateway integration lives elsewhere and calls in
// once funds cleared.
type PaymentHandler struct {
	Payments PaymentAPI
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(p PaymentAPI) *PaymentHandler {
	return &PaymentHandler{Payments: p}
}

// Confirm handles POST /v1/payments/confirm. Duplicate confirmations get
// 409 with a distinct message; confirming an expired booking gets 410
// because the seat has been (or is being) released.
func (h *PaymentHandler) Confirm(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body struct {
		BookingID string `json:"booking_id"`
	}
	if err := c.Bind(&body); err != nil || body.BookingID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "booking_id is required"})
	}

	booking, err := h.Payments.ConfirmPayment(c.Request().Context(), body.BookingID)
	switch {
	case err == nil:
		return c.JSON(http.StatusOK, booking)
	case errors.Is(err, service.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrAlreadyConfirmed):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrBookingExpiredOrInvalid):
		return c.JSON(http.StatusGone, echo.Map{"error": err.Error()})
	default:
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to confirm payment"})
	}
}
