package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"ticket-booking/internal/model"
)

const bookingColumns = "id, user_id, seat_id, status, expires_at, created_at, updated_at"

// BookingRepo provides data access to the bookings table and owns the
// transactions that touch a booking together with its seat. Every paired
// transition (reserve, confirm, expire) happens inside one transaction so
// that partial application is never observable outside it.
type BookingRepo struct {
	db    *sql.DB
	seats *SeatRepo
}

// NewBookingRepo returns a new BookingRepo sharing the seat repository's
// database handle.
func NewBookingRepo(db *sql.DB, seats *SeatRepo) *BookingRepo {
	return &BookingRepo{db: db, seats: seats}
}

func scanBooking(row interface{ Scan(...any) error }) (*model.Booking, error) {
	var b model.Booking
	err := row.Scan(&b.ID, &b.UserID, &b.SeatID, &b.Status, &b.ExpiresAt, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// GetByID fetches a booking by id. Returns ErrBookingNotFound when it does
// not exist.
func (r *BookingRepo) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	return b, err
}

// ReserveSeat performs the transactional half of a reservation attempt:
// read the seat, verify it is AVAILABLE, flip it to RESERVED under the
// optimistic version guard and insert the PENDING booking, all in one
// transaction. The caller is expected to hold the distributed seat lock,
// but correctness does not depend on it; the version guard rejects any
// racing writer with ErrSeatUnavailable.
func (r *BookingRepo) ReserveSeat(ctx context.Context, userID, seatID string, expiresAt time.Time) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	seat, err := r.seats.GetByIDTx(ctx, tx, seatID)
	if err != nil {
		return nil, err
	}
	if seat.Status != model.SeatAvailable {
		return nil, ErrSeatUnavailable
	}
	if err := r.seats.ReserveTx(ctx, tx, seatID, seat.Version); err != nil {
		return nil, err
	}

	id := uuid.NewString()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (id, user_id, seat_id, status, expires_at) VALUES (?, ?, ?, ?, ?)`,
		id, userID, seatID, model.BookingPending, expiresAt.UTC()); err != nil {
		return nil, err
	}
	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	booking, err := scanBooking(row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return booking, nil
}

// ConfirmBooking transitions a booking from PENDING to CONFIRMED and its
// seat to SOLD in one transaction. The booking row is read FOR UPDATE so
// that a concurrent expiry of the same booking serializes behind this
// transaction. Returns ErrBookingNotFound, ErrBookingConfirmed for a
// duplicate confirmation, or ErrBookingNotPending when the booking already
// expired.
func (r *BookingRepo) ConfirmBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, bookingID)
	booking, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	switch {
	case booking.Status == model.BookingConfirmed:
		return nil, ErrBookingConfirmed
	case !booking.CanConfirm():
		return nil, ErrBookingNotPending
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ?`, model.BookingConfirmed, bookingID); err != nil {
		return nil, err
	}
	if err := r.seats.UpdateStatusTx(ctx, tx, booking.SeatID, model.SeatSold); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	booking.Status = model.BookingConfirmed
	return booking, nil
}

// ExpireBooking transitions a booking from PENDING to EXPIRED and returns
// its seat to AVAILABLE in one transaction. It is an idempotent
// check-then-act: a missing booking or one no longer PENDING (already
// confirmed, or expired by an earlier delivery of the same job) is a no-op
// reported as released=false with a nil error, so at-least-once job
// deliveries are safe.
func (r *BookingRepo) ExpireBooking(ctx context.Context, bookingID string) (released bool, seatID string, err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return false, "", err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	row := tx.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ? FOR UPDATE`, bookingID)
	booking, err := scanBooking(row)
	if errors.Is(err, sql.ErrNoRows) {
		return false, "", nil
	}
	if err != nil {
		return false, "", err
	}
	if !booking.CanExpire() {
		return false, "", nil
	}

	if err := r.seats.UpdateStatusTx(ctx, tx, booking.SeatID, model.SeatAvailable); err != nil {
		return false, "", err
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ?`, model.BookingExpired, bookingID); err != nil {
		return false, "", err
	}

	if err := tx.Commit(); err != nil {
		return false, "", err
	}
	committed = true
	return true, booking.SeatID, nil
}

// ListExpiredPending returns up to limit bookings still PENDING past their
// expiry timestamp, longest-overdue first so a backlog larger than limit
// drains fairly across sweeps. The reconciliation sweep uses this as a
// backstop for expiry jobs that exhausted their retry budget.
func (r *BookingRepo) ListExpiredPending(ctx context.Context, limit int) ([]model.Booking, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE status = ? AND expires_at <= UTC_TIMESTAMP() ORDER BY expires_at LIMIT ?`,
		model.BookingPending, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []model.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}
