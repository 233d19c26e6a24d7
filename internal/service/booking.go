package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/railgo/train-booking-api/internal/model"
	"github.com/railgo/train-booking-api/internal/queue"
	"github.com/railgo/train-booking-api/internal/repository"
	"github.com/railgo/train-booking-api/internal/utils"
)

const dateLayout = "2006-01-02"

// BookRequest carries the passenger details for a new booking.  The
// journey date arrives already parsed by the handler.
type BookRequest struct {
	UserID          uint64
	ScheduleID      uint64
	JourneyDate     time.Time
	PassengerName   string
	PassengerAge    int
	PassengerGender string
}

// TicketService is the booking flow.  Handlers depend on this interface
// so the flow can be mocked in tests.
type TicketService interface {
	Book(ctx context.Context, req BookRequest) (model.Ticket, error)
	Cancel(ctx context.Context, ticketID, userID uint64, isAdmin bool) (model.Ticket, error)
	Get(ctx context.Context, ticketID, userID uint64, isAdmin bool) (model.Ticket, error)
	GetByPNR(ctx context.Context, pnr string) (model.Ticket, model.Schedule, error)
	ListForUser(ctx context.Context, userID uint64) ([]model.Ticket, error)
	ListAll(ctx context.Context) ([]model.Ticket, error)
	Delete(ctx context.Context, ticketID uint64) error
}

type ticketService struct {
	db        *sql.DB
	tickets   *repository.TicketRepo
	seats     *repository.SeatRepo
	schedules *repository.ScheduleRepo
}

func NewTicketService(db *sql.DB, tickets *repository.TicketRepo, seats *repository.SeatRepo, schedules *repository.ScheduleRepo) TicketService {
	return &ticketService{db: db, tickets: tickets, seats: seats, schedules: schedules}
}

// Book creates a ticket on the schedule for the journey date.  The first
// available seat is locked and assigned inside the transaction; when the
// train is full the ticket is still created with status pending and no
// seat.  Fare is the schedule's base fare at booking time.
func (s *ticketService) Book(ctx context.Context, req BookRequest) (model.Ticket, error) {
	sched, err := s.schedules.GetByID(ctx, req.ScheduleID)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return model.Ticket{}, ErrScheduleNotFound
		}
		return model.Ticket{}, err
	}
	if sched.Status != model.ScheduleActive {
		return model.Ticket{}, ErrScheduleUnavailable
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	journey := req.JourneyDate.UTC().Truncate(24 * time.Hour)
	if journey.Before(today) {
		return model.Ticket{}, ErrPastJourneyDate
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Ticket{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	ticket := model.Ticket{
		UserID:          req.UserID,
		ScheduleID:      req.ScheduleID,
		BookingDate:     today.Format(dateLayout),
		JourneyDate:     journey.Format(dateLayout),
		PassengerName:   req.PassengerName,
		PassengerAge:    req.PassengerAge,
		PassengerGender: req.PassengerGender,
		Fare:            sched.BaseFare,
		Status:          model.TicketPending,
	}

	seat, err := s.seats.FirstAvailableTx(ctx, tx, req.ScheduleID, journey)
	haveSeat := err == nil
	if err != nil && err != sql.ErrNoRows {
		return model.Ticket{}, err
	}
	if haveSeat {
		ticket.SeatNumber = &seat.SeatNumber
		ticket.Status = model.TicketConfirmed
	}

	pnr, err := utils.NewPNR()
	if err != nil {
		return model.Ticket{}, err
	}
	ticket.PNR = pnr
	id, err := s.tickets.CreateTx(ctx, tx, ticket)
	if errors.Is(err, repository.ErrPNRExists) {
		// one redraw on collision; the keyspace makes a second hit
		// effectively impossible
		if ticket.PNR, err = utils.NewPNR(); err != nil {
			return model.Ticket{}, err
		}
		id, err = s.tickets.CreateTx(ctx, tx, ticket)
	}
	if err != nil {
		return model.Ticket{}, err
	}
	ticket.ID = id

	if haveSeat {
		if err := s.seats.AssignTx(ctx, tx, seat.ID, id); err != nil {
			return model.Ticket{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return model.Ticket{}, err
	}
	committed = true

	out, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return model.Ticket{}, err
	}

	if err := PublishTicketBooked(ctx, queue.TicketBookedEvent{
		TicketID:    out.ID,
		UserID:      out.UserID,
		ScheduleID:  out.ScheduleID,
		PNR:         out.PNR,
		JourneyDate: out.JourneyDate,
		SeatNumber:  out.SeatNumber,
		Fare:        out.Fare,
		Status:      out.Status,
		BookedAt:    time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("publish ticket.booked: %v", err)
	}
	return out, nil
}

// Cancel sets the ticket to cancelled and frees its seat in one
// transaction.  Only the ticket owner or an admin may cancel, and a
// cancelled ticket cannot be cancelled again.
func (s *ticketService) Cancel(ctx context.Context, ticketID, userID uint64, isAdmin bool) (model.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return model.Ticket{}, ErrTicketNotFound
		}
		return model.Ticket{}, err
	}
	if t.UserID != userID && !isAdmin {
		return model.Ticket{}, ErrForbidden
	}
	if t.Status == model.TicketCancelled {
		return model.Ticket{}, ErrAlreadyCancelled
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Ticket{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := s.tickets.CancelTx(ctx, tx, ticketID); err != nil {
		return model.Ticket{}, err
	}
	if t.SeatNumber != nil {
		if err := s.seats.ReleaseTx(ctx, tx, t.ScheduleID, t.JourneyDate, *t.SeatNumber); err != nil {
			return model.Ticket{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Ticket{}, err
	}
	committed = true

	t.Status = model.TicketCancelled
	return t, nil
}

// Get returns the ticket when the caller owns it or is an admin.
func (s *ticketService) Get(ctx context.Context, ticketID, userID uint64, isAdmin bool) (model.Ticket, error) {
	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return model.Ticket{}, ErrTicketNotFound
		}
		return model.Ticket{}, err
	}
	if t.UserID != userID && !isAdmin {
		return model.Ticket{}, ErrForbidden
	}
	return t, nil
}

// GetByPNR is the public PNR status lookup.  It returns the ticket
// together with its schedule so the response can embed journey details.
func (s *ticketService) GetByPNR(ctx context.Context, pnr string) (model.Ticket, model.Schedule, error) {
	t, err := s.tickets.GetByPNR(ctx, pnr)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return model.Ticket{}, model.Schedule{}, ErrTicketNotFound
		}
		return model.Ticket{}, model.Schedule{}, err
	}
	sched, err := s.schedules.GetByID(ctx, t.ScheduleID)
	if err != nil && !errors.Is(err, repository.ErrScheduleNotFound) {
		return model.Ticket{}, model.Schedule{}, err
	}
	return t, sched, nil
}

func (s *ticketService) ListForUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	return s.tickets.ListByUser(ctx, userID)
}

func (s *ticketService) ListAll(ctx context.Context) ([]model.Ticket, error) {
	return s.tickets.ListAll(ctx)
}

// Delete removes a ticket row outright, releasing its seat first if the
// ticket still holds one.  Admin only at the route layer.
func (s *ticketService) Delete(ctx context.Context, ticketID uint64) error {
	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return ErrTicketNotFound
		}
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if t.SeatNumber != nil && t.Status != model.TicketCancelled {
		if err := s.seats.ReleaseTx(ctx, tx, t.ScheduleID, t.JourneyDate, *t.SeatNumber); err != nil {
			return err
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM tickets WHERE id=?", ticketID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
