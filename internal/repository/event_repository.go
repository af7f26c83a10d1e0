package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"ticket-booking/internal/model"
)

// EventRepo provides data access to the events table. Seat provisioning
// happens here because an event and its seating are created as one unit.
type EventRepo struct {
	db    *sql.DB
	seats *SeatRepo
}

// NewEventRepo returns a new EventRepo sharing the seat repository's
// database handle.
func NewEventRepo(db *sql.DB, seats *SeatRepo) *EventRepo {
	return &EventRepo{db: db, seats: seats}
}

// CreateWithSeats inserts an event and bulk-provisions its seats in a
// single transaction. The generated event ID is populated on the provided
// record, and seat IDs on the seat records.
func (r *EventRepo) CreateWithSeats(ctx context.Context, ev *model.Event, seats []model.Seat) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO events (id, name, venue, starts_at) VALUES (?, ?, ?, ?)`,
		ev.ID, ev.Name, ev.Venue, ev.StartsAt.UTC()); err != nil {
		return err
	}
	if err := r.seats.CreateBulkTx(ctx, tx, ev.ID, seats); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// GetByID fetches an event by id. Returns ErrEventNotFound when it does
// not exist.
func (r *EventRepo) GetByID(ctx context.Context, id string) (*model.Event, error) {
	var ev model.Event
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, venue, starts_at, created_at FROM events WHERE id = ?`, id).
		Scan(&ev.ID, &ev.Name, &ev.Venue, &ev.StartsAt, &ev.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

// List returns up to limit events ordered by start time.
func (r *EventRepo) List(ctx context.Context, limit int) ([]model.Event, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, venue, starts_at, created_at FROM events ORDER BY starts_at LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var ev model.Event
		if err := rows.Scan(&ev.ID, &ev.Name, &ev.Venue, &ev.StartsAt, &ev.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
