package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"ticket-booking/internal/model"
)

const seatColumns = "id, event_id, number, price, status, version, created_at, updated_at"

// SeatRepo provides data access to the seats table. State-changing updates
// always increment the version column; the reserve path additionally keys
// the update on a previously read version so that racing writers are
// detected by a zero rows-affected count instead of corrupting state.
type SeatRepo struct {
	db *sql.DB
}

// NewSeatRepo returns a new SeatRepo bound to the provided database.
func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{db: db} }

// DB exposes the underlying handle so callers can open transactions that
// span seats and bookings.
func (r *SeatRepo) DB() *sql.DB { return r.db }

func scanSeat(row interface{ Scan(...any) error }) (*model.Seat, error) {
	var s model.Seat
	err := row.Scan(&s.ID, &s.EventID, &s.Number, &s.Price, &s.Status, &s.Version, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByID fetches a seat by id. Returns ErrSeatNotFound when it does not exist.
func (r *SeatRepo) GetByID(ctx context.Context, id string) (*model.Seat, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+seatColumns+` FROM seats WHERE id = ?`, id)
	s, err := scanSeat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSeatNotFound
	}
	return s, err
}

// GetByIDTx is GetByID inside an existing transaction.
func (r *SeatRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id string) (*model.Seat, error) {
	row := tx.QueryRowContext(ctx, `SELECT `+seatColumns+` FROM seats WHERE id = ?`, id)
	s, err := scanSeat(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSeatNotFound
	}
	return s, err
}

// ListAvailable returns up to limit seats with status AVAILABLE, ordered by
// event and seat number for stable pagination.
func (r *SeatRepo) ListAvailable(ctx context.Context, limit int) ([]model.Seat, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+seatColumns+` FROM seats WHERE status = ? ORDER BY event_id, number LIMIT ?`,
		model.SeatAvailable, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var seats []model.Seat
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, *s)
	}
	return seats, rows.Err()
}

// ReserveTx flips a seat from AVAILABLE to RESERVED inside an existing
// transaction, guarded by the version read earlier in the same transaction.
// Zero rows affected means another writer mutated the seat between read and
// write; that surfaces as ErrSeatUnavailable and must not be retried
// automatically.
func (r *SeatRepo) ReserveTx(ctx context.Context, tx *sql.Tx, seatID string, version uint32) error {
	res, err := tx.ExecContext(ctx,
		`UPDATE seats SET status = ?, version = version + 1 WHERE id = ? AND version = ? AND status = ?`,
		model.SeatReserved, seatID, version, model.SeatAvailable)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSeatUnavailable
	}
	return nil
}

// UpdateStatusTx sets a seat's status inside an existing transaction,
// incrementing the version. Used by the confirm and expire transitions,
// whose preconditions are enforced on the booking row.
func (r *SeatRepo) UpdateStatusTx(ctx context.Context, tx *sql.Tx, seatID string, status model.SeatStatus) error {
	_, err := tx.ExecContext(ctx,
		`UPDATE seats SET status = ?, version = version + 1 WHERE id = ?`,
		status, seatID)
	return err
}

// CreateBulkTx inserts seats for an event in a single multi-VALUES
// statement. IDs are generated here when not supplied. Passing an empty
// slice has no effect and returns nil.
func (r *SeatRepo) CreateBulkTx(ctx context.Context, tx *sql.Tx, eventID string, seats []model.Seat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO seats (id, event_id, number, price, status, version) VALUES `
	args := make([]any, 0, len(seats)*6)
	for i := range seats {
		if seats[i].ID == "" {
			seats[i].ID = uuid.NewString()
		}
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, 0)"
		args = append(args, seats[i].ID, eventID, seats[i].Number, seats[i].Price, model.SeatAvailable)
	}
	_, err := tx.ExecContext(ctx, query, args...)
	return err
}
