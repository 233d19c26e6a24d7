package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/railgo/train-booking-api/internal/model"
	"github.com/railgo/train-booking-api/internal/repository"
	"github.com/railgo/train-booking-api/internal/utils"
)

// PaymentService settles and refunds ticket payments.  Payments complete
// immediately; there is no external gateway round trip.
type PaymentService interface {
	Pay(ctx context.Context, userID, ticketID uint64, method string) (model.Payment, error)
	Refund(ctx context.Context, paymentID uint64) (model.Payment, error)
	Get(ctx context.Context, paymentID, userID uint64, isAdmin bool) (model.Payment, error)
	GetByTransactionID(ctx context.Context, txnID string, userID uint64, isAdmin bool) (model.Payment, error)
	ListForUser(ctx context.Context, userID uint64) ([]model.Payment, error)
	ListAll(ctx context.Context) ([]model.Payment, error)
	Delete(ctx context.Context, paymentID uint64) error
}

type paymentService struct {
	db       *sql.DB
	payments *repository.PaymentRepo
	tickets  *repository.TicketRepo
	seats    *repository.SeatRepo
}

func NewPaymentService(db *sql.DB, payments *repository.PaymentRepo, tickets *repository.TicketRepo, seats *repository.SeatRepo) PaymentService {
	return &paymentService{db: db, payments: payments, tickets: tickets, seats: seats}
}

// Pay records a completed payment for the caller's ticket at the ticket
// fare and confirms the ticket if it was still pending.  A ticket takes
// at most one completed payment.
func (s *paymentService) Pay(ctx context.Context, userID, ticketID uint64, method string) (model.Payment, error) {
	t, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		if errors.Is(err, repository.ErrTicketNotFound) {
			return model.Payment{}, ErrTicketNotFound
		}
		return model.Payment{}, err
	}
	if t.UserID != userID {
		return model.Payment{}, ErrForbidden
	}
	if t.Status == model.TicketCancelled {
		return model.Payment{}, ErrTicketCancelled
	}
	paid, err := s.payments.HasCompletedForTicket(ctx, ticketID)
	if err != nil {
		return model.Payment{}, err
	}
	if paid {
		return model.Payment{}, ErrAlreadyPaid
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Payment{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	txn, err := utils.NewTransactionID()
	if err != nil {
		return model.Payment{}, err
	}
	p := model.Payment{
		TicketID:      ticketID,
		UserID:        userID,
		Amount:        t.Fare,
		PaymentMethod: method,
		PaymentStatus: model.PaymentCompleted,
		TransactionID: txn,
		PaymentDate:   time.Now().UTC(),
	}
	id, err := s.payments.CreateTx(ctx, tx, p)
	if errors.Is(err, repository.ErrTransactionExists) {
		if p.TransactionID, err = utils.NewTransactionID(); err != nil {
			return model.Payment{}, err
		}
		id, err = s.payments.CreateTx(ctx, tx, p)
	}
	if err != nil {
		return model.Payment{}, err
	}
	p.ID = id

	if t.Status == model.TicketPending {
		if _, err := tx.ExecContext(ctx,
			"UPDATE tickets SET status=? WHERE id=?", model.TicketConfirmed, ticketID); err != nil {
			return model.Payment{}, err
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Payment{}, err
	}
	committed = true
	return p, nil
}

// Refund marks the payment refunded and cancels its ticket, releasing
// the seat.  Admin only at the route layer; a refunded payment cannot be
// refunded again.
func (s *paymentService) Refund(ctx context.Context, paymentID uint64) (model.Payment, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return model.Payment{}, ErrPaymentNotFound
		}
		return model.Payment{}, err
	}
	if p.PaymentStatus == model.PaymentRefunded {
		return model.Payment{}, ErrAlreadyRefunded
	}

	t, err := s.tickets.GetByID(ctx, p.TicketID)
	if err != nil && !errors.Is(err, repository.ErrTicketNotFound) {
		return model.Payment{}, err
	}
	haveTicket := err == nil

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return model.Payment{}, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := s.payments.SetStatusTx(ctx, tx, paymentID, model.PaymentRefunded); err != nil {
		return model.Payment{}, err
	}
	if haveTicket && t.Status != model.TicketCancelled {
		if err := s.tickets.CancelTx(ctx, tx, t.ID); err != nil {
			return model.Payment{}, err
		}
		if t.SeatNumber != nil {
			if err := s.seats.ReleaseTx(ctx, tx, t.ScheduleID, t.JourneyDate, *t.SeatNumber); err != nil {
				return model.Payment{}, err
			}
		}
	}
	if err := tx.Commit(); err != nil {
		return model.Payment{}, err
	}
	committed = true

	p.PaymentStatus = model.PaymentRefunded
	return p, nil
}

// Get returns the payment when the caller owns it or is an admin.
func (s *paymentService) Get(ctx context.Context, paymentID, userID uint64, isAdmin bool) (model.Payment, error) {
	p, err := s.payments.GetByID(ctx, paymentID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return model.Payment{}, ErrPaymentNotFound
		}
		return model.Payment{}, err
	}
	if p.UserID != userID && !isAdmin {
		return model.Payment{}, ErrForbidden
	}
	return p, nil
}

// GetByTransactionID resolves a payment by its TXN code with the same
// ownership rule as Get.
func (s *paymentService) GetByTransactionID(ctx context.Context, txnID string, userID uint64, isAdmin bool) (model.Payment, error) {
	p, err := s.payments.GetByTransactionID(ctx, txnID)
	if err != nil {
		if errors.Is(err, repository.ErrPaymentNotFound) {
			return model.Payment{}, ErrPaymentNotFound
		}
		return model.Payment{}, err
	}
	if p.UserID != userID && !isAdmin {
		return model.Payment{}, ErrForbidden
	}
	return p, nil
}

func (s *paymentService) ListForUser(ctx context.Context, userID uint64) ([]model.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}

func (s *paymentService) ListAll(ctx context.Context) ([]model.Payment, error) {
	return s.payments.ListAll(ctx)
}

// Delete removes a payment record.  Admin only at the route layer.
func (s *paymentService) Delete(ctx context.Context, paymentID uint64) error {
	err := s.payments.Delete(ctx, paymentID)
	if errors.Is(err, repository.ErrPaymentNotFound) {
		return ErrPaymentNotFound
	}
	return err
}
