package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"ticket-booking/internal/model"
	"ticket-booking/internal/repository"
)

// EventHandler serves the events catalog and bulk seat provisioning.
type EventHandler struct {
	Events *repository.EventRepo
}

// NewEventHandler constructs an EventHandler.
func NewEventHandler(events *repository.EventRepo) *EventHandler {
	return &EventHandler{Events: events}
}

type createEventRequest struct {
	Name     string `json:"name"`
	Venue    string `json:"venue"`
	StartsAt string `json:"starts_at"` // RFC3339
	Seats    []struct {
		Number string `json:"number"`
		Price  string `json:"price"` // decimal string, e.g. "49.90"
	} `json:"seats"`
}

// Create handles POST /v1/events. The event and its full seating are
// provisioned in one transaction; seats start AVAILABLE at version 0.
func (h *EventHandler) Create(c echo.Context) error {
	if _, err := getUserID(c); err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	var body createEventRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request body"})
	}
	if body.Name == "" || body.Venue == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and venue are required"})
	}
	startsAt, err := time.Parse(time.RFC3339, body.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}

	seats := make([]model.Seat, 0, len(body.Seats))
	seen := make(map[string]struct{}, len(body.Seats))
	for _, s := range body.Seats {
		if s.Number == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat number is required"})
		}
		if _, dup := seen[s.Number]; dup {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "duplicate seat number: " + s.Number})
		}
		seen[s.Number] = struct{}{}
		price, err := decimal.NewFromString(s.Price)
		if err != nil || price.IsNegative() {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid price for seat " + s.Number})
		}
		seats = append(seats, model.Seat{Number: s.Number, Price: price})
	}

	ev := &model.Event{Name: body.Name, Venue: body.Venue, StartsAt: startsAt}
	if err := h.Events.CreateWithSeats(c.Request().Context(), ev, seats); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to create event"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": ev.ID, "seats": len(seats)})
}

// List handles GET /v1/events.
func (h *EventHandler) List(c echo.Context) error {
	events, err := h.Events.List(c.Request().Context(), 100)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if events == nil {
		events = []model.Event{}
	}
	return c.JSON(http.StatusOK, echo.Map{"events": events})
}

// Get handles GET /v1/events/:id.
func (h *EventHandler) Get(c echo.Context) error {
	ev, err := h.Events.GetByID(c.Request().Context(), c.Param("id"))
	if errors.Is(err, repository.ErrEventNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "event not found"})
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	return c.JSON(http.StatusOK, ev)
}
