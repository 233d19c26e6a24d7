package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/railgo/train-booking-api/internal/model"
)

// TicketRepo provides access to the tickets table.  The write paths that
// participate in the booking and cancellation transactions take a *sql.Tx
// owned by the caller.
type TicketRepo struct{ DB *sql.DB }

func NewTicketRepo(db *sql.DB) *TicketRepo { return &TicketRepo{DB: db} }

var (
	ErrTicketNotFound = errors.New("ticket not found")
	ErrPNRExists      = errors.New("pnr already exists")
)

const ticketCols = "id,user_id,schedule_id,booking_date,journey_date,passenger_name,passenger_age,passenger_gender,seat_number,fare,status,pnr_number,created_at,updated_at"

func scanTicket(row interface{ Scan(...any) error }) (model.Ticket, error) {
	var t model.Ticket
	var booking, journey time.Time
	var seat sql.NullString
	err := row.Scan(&t.ID, &t.UserID, &t.ScheduleID, &booking, &journey,
		&t.PassengerName, &t.PassengerAge, &t.PassengerGender, &seat,
		&t.Fare, &t.Status, &t.PNR, &t.CreatedAt, &t.UpdatedAt)
	t.BookingDate = booking.Format(dateLayout)
	t.JourneyDate = journey.Format(dateLayout)
	if seat.Valid {
		t.SeatNumber = &seat.String
	}
	return t, err
}

// CreateTx inserts a ticket inside the booking transaction.  A duplicate
// pnr_number maps to ErrPNRExists so the caller can redraw once.
func (r *TicketRepo) CreateTx(ctx context.Context, tx *sql.Tx, t model.Ticket) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO tickets (user_id, schedule_id, booking_date, journey_date,
		 passenger_name, passenger_age, passenger_gender, seat_number, fare, status, pnr_number)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		t.UserID, t.ScheduleID, t.BookingDate, t.JourneyDate,
		t.PassengerName, t.PassengerAge, t.PassengerGender, t.SeatNumber,
		t.Fare, t.Status, t.PNR)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrPNRExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a ticket; ErrTicketNotFound when missing.
func (r *TicketRepo) GetByID(ctx context.Context, id uint64) (model.Ticket, error) {
	t, err := scanTicket(r.DB.QueryRowContext(ctx,
		"SELECT "+ticketCols+" FROM tickets WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Ticket{}, ErrTicketNotFound
	}
	return t, err
}

// GetByPNR fetches a ticket by its PNR code.
func (r *TicketRepo) GetByPNR(ctx context.Context, pnr string) (model.Ticket, error) {
	t, err := scanTicket(r.DB.QueryRowContext(ctx,
		"SELECT "+ticketCols+" FROM tickets WHERE pnr_number=? LIMIT 1", pnr))
	if err == sql.ErrNoRows {
		return model.Ticket{}, ErrTicketNotFound
	}
	return t, err
}

// ListByUser returns the user's tickets, newest first.
func (r *TicketRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+ticketCols+" FROM tickets WHERE user_id=? ORDER BY id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

// ListAll returns every ticket, newest first.  Admin only at the route
// layer.
func (r *TicketRepo) ListAll(ctx context.Context) ([]model.Ticket, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+ticketCols+" FROM tickets ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectTickets(rows)
}

func collectTickets(rows *sql.Rows) ([]model.Ticket, error) {
	tickets := make([]model.Ticket, 0)
	for rows.Next() {
		t, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

// CancelTx sets the ticket status to cancelled inside the cancellation
// transaction.
func (r *TicketRepo) CancelTx(ctx context.Context, tx *sql.Tx, id uint64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE tickets SET status=? WHERE id=?", model.TicketCancelled, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// SetStatus updates only the ticket status, used when a payment completes
// or is refunded.
func (r *TicketRepo) SetStatus(ctx context.Context, id uint64, status string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE tickets SET status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTicketNotFound
	}
	return nil
}

// Delete removes a ticket row outright.
func (r *TicketRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM tickets WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTicketNotFound
	}
	return nil
}
