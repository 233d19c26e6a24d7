package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/railgo/train-booking-api/internal/model"
)

// SeatRepo provides access to the seats table.  Seats are pre-created per
// (schedule, journey date, seat number); booking flips is_available and
// sets ticket_id inside the booking transaction, cancellation reverses it.
type SeatRepo struct{ DB *sql.DB }

func NewSeatRepo(db *sql.DB) *SeatRepo { return &SeatRepo{DB: db} }

var (
	ErrSeatNotFound = errors.New("seat not found")
	ErrSeatExists   = errors.New("seat already exists")
)

const seatCols = "id,schedule_id,journey_date,seat_number,seat_type,is_available,ticket_id,created_at,updated_at"

const dateLayout = "2006-01-02"

func scanSeat(row interface{ Scan(...any) error }) (model.Seat, error) {
	var s model.Seat
	var journey time.Time
	var ticketID sql.NullInt64
	err := row.Scan(&s.ID, &s.ScheduleID, &journey, &s.SeatNumber, &s.SeatType,
		&s.IsAvailable, &ticketID, &s.CreatedAt, &s.UpdatedAt)
	s.JourneyDate = journey.Format(dateLayout)
	if ticketID.Valid {
		tid := uint64(ticketID.Int64)
		s.TicketID = &tid
	}
	return s, err
}

// ListByScheduleAndDate returns every seat row for the pair, available and
// occupied alike; the handler splits them for the response.
func (r *SeatRepo) ListByScheduleAndDate(ctx context.Context, scheduleID uint64, journeyDate time.Time) ([]model.Seat, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+seatCols+" FROM seats WHERE schedule_id=? AND journey_date=? ORDER BY seat_number",
		scheduleID, journeyDate.Format(dateLayout))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	seats := make([]model.Seat, 0)
	for rows.Next() {
		s, err := scanSeat(rows)
		if err != nil {
			return nil, err
		}
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// GetByID fetches a seat; ErrSeatNotFound when missing.
func (r *SeatRepo) GetByID(ctx context.Context, id uint64) (model.Seat, error) {
	s, err := scanSeat(r.DB.QueryRowContext(ctx,
		"SELECT "+seatCols+" FROM seats WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Seat{}, ErrSeatNotFound
	}
	return s, err
}

// Create inserts a single seat.  The UNIQUE(schedule_id, journey_date,
// seat_number) constraint maps duplicates to ErrSeatExists.
func (r *SeatRepo) Create(ctx context.Context, scheduleID uint64, journeyDate time.Time, seatNumber, seatType string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO seats (schedule_id, journey_date, seat_number, seat_type, is_available) VALUES (?,?,?,?,1)",
		scheduleID, journeyDate.Format(dateLayout), seatNumber, seatType)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrSeatExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// BulkSeat describes one seat in a bulk-create request.
type BulkSeat struct {
	SeatNumber string
	SeatType   string
}

// CreateBulk inserts the given seats for a schedule/date inside one
// transaction, silently skipping seat numbers that already exist.  It
// returns the seats actually created.
func (r *SeatRepo) CreateBulk(ctx context.Context, scheduleID uint64, journeyDate time.Time, seats []BulkSeat) ([]model.Seat, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	date := journeyDate.Format(dateLayout)
	created := make([]model.Seat, 0, len(seats))
	for _, in := range seats {
		var exists uint64
		err := tx.QueryRowContext(ctx,
			"SELECT id FROM seats WHERE schedule_id=? AND journey_date=? AND seat_number=? LIMIT 1",
			scheduleID, date, in.SeatNumber).Scan(&exists)
		if err == nil {
			continue // already present, skip
		}
		if err != sql.ErrNoRows {
			return nil, err
		}
		res, err := tx.ExecContext(ctx,
			"INSERT INTO seats (schedule_id, journey_date, seat_number, seat_type, is_available) VALUES (?,?,?,?,1)",
			scheduleID, date, in.SeatNumber, in.SeatType)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		s, err := scanSeat(tx.QueryRowContext(ctx,
			"SELECT "+seatCols+" FROM seats WHERE id=? LIMIT 1", id))
		if err != nil {
			return nil, err
		}
		created = append(created, s)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	committed = true
	return created, nil
}

// SeatUpdate carries the optional fields of a seat update.
type SeatUpdate struct {
	IsAvailable *bool
	SeatType    *string
}

func (r *SeatRepo) Update(ctx context.Context, id uint64, upd SeatUpdate) error {
	sets := make([]string, 0, 2)
	args := make([]any, 0, 3)
	if upd.IsAvailable != nil {
		sets = append(sets, "is_available=?")
		args = append(args, *upd.IsAvailable)
	}
	if upd.SeatType != nil {
		sets = append(sets, "seat_type=?")
		args = append(args, *upd.SeatType)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE seats SET "+strings.Join(sets, ",")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	_ = n // zero rows affected can mean an identical update; existence is checked by the handler
	return nil
}

// Delete removes a seat row.
func (r *SeatRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM seats WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrSeatNotFound
	}
	return nil
}

// FirstAvailableTx locks and returns one available seat for the pair, or
// sql.ErrNoRows when the schedule/date is fully booked.  FOR UPDATE
// serializes concurrent bookings that would otherwise observe the same
// free seat before either commits.
func (r *SeatRepo) FirstAvailableTx(ctx context.Context, tx *sql.Tx, scheduleID uint64, journeyDate time.Time) (model.Seat, error) {
	return scanSeat(tx.QueryRowContext(ctx,
		"SELECT "+seatCols+" FROM seats WHERE schedule_id=? AND journey_date=? AND is_available=1 LIMIT 1 FOR UPDATE",
		scheduleID, journeyDate.Format(dateLayout)))
}

// AssignTx marks the seat taken by the given ticket.
func (r *SeatRepo) AssignTx(ctx context.Context, tx *sql.Tx, seatID, ticketID uint64) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE seats SET is_available=0, ticket_id=? WHERE id=?", ticketID, seatID)
	return err
}

// ReleaseTx frees the seat matched by schedule, journey date and seat
// number, clearing its ticket reference.  Missing rows are not an error:
// the seat may have been deleted by an administrator since booking.
func (r *SeatRepo) ReleaseTx(ctx context.Context, tx *sql.Tx, scheduleID uint64, journeyDate, seatNumber string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE seats SET is_available=1, ticket_id=NULL WHERE schedule_id=? AND journey_date=? AND seat_number=?",
		scheduleID, journeyDate, seatNumber)
	return err
}
