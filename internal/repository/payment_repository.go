package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/railgo/train-booking-api/internal/model"
)

// PaymentRepo provides access to the payments table.
type PaymentRepo struct{ DB *sql.DB }

func NewPaymentRepo(db *sql.DB) *PaymentRepo { return &PaymentRepo{DB: db} }

var (
	ErrPaymentNotFound   = errors.New("payment not found")
	ErrTransactionExists = errors.New("transaction id already exists")
)

const paymentCols = "id,ticket_id,user_id,amount,payment_method,payment_status,transaction_id,payment_date,created_at"

func scanPayment(row interface{ Scan(...any) error }) (model.Payment, error) {
	var p model.Payment
	err := row.Scan(&p.ID, &p.TicketID, &p.UserID, &p.Amount, &p.PaymentMethod,
		&p.PaymentStatus, &p.TransactionID, &p.PaymentDate, &p.CreatedAt)
	return p, err
}

// CreateTx inserts a payment inside the pay transaction.  A duplicate
// transaction_id maps to ErrTransactionExists.
func (r *PaymentRepo) CreateTx(ctx context.Context, tx *sql.Tx, p model.Payment) (uint64, error) {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO payments (ticket_id, user_id, amount, payment_method, payment_status, transaction_id, payment_date)
		 VALUES (?,?,?,?,?,?,?)`,
		p.TicketID, p.UserID, p.Amount, p.PaymentMethod, p.PaymentStatus, p.TransactionID, p.PaymentDate)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrTransactionExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByID fetches a payment; ErrPaymentNotFound when missing.
func (r *PaymentRepo) GetByID(ctx context.Context, id uint64) (model.Payment, error) {
	p, err := scanPayment(r.DB.QueryRowContext(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Payment{}, ErrPaymentNotFound
	}
	return p, err
}

// GetByTransactionID fetches a payment by its external transaction code.
func (r *PaymentRepo) GetByTransactionID(ctx context.Context, txnID string) (model.Payment, error) {
	p, err := scanPayment(r.DB.QueryRowContext(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE transaction_id=? LIMIT 1", txnID))
	if err == sql.ErrNoRows {
		return model.Payment{}, ErrPaymentNotFound
	}
	return p, err
}

// ListByUser returns the user's payments, newest first.
func (r *PaymentRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Payment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+paymentCols+" FROM payments WHERE user_id=? ORDER BY id DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

// ListAll returns every payment, newest first.
func (r *PaymentRepo) ListAll(ctx context.Context) ([]model.Payment, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+paymentCols+" FROM payments ORDER BY id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectPayments(rows)
}

func collectPayments(rows *sql.Rows) ([]model.Payment, error) {
	payments := make([]model.Payment, 0)
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// HasCompletedForTicket reports whether the ticket already has a completed
// payment.  Guards against paying twice for the same ticket.
func (r *PaymentRepo) HasCompletedForTicket(ctx context.Context, ticketID uint64) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM payments WHERE ticket_id=? AND payment_status=? LIMIT 1",
		ticketID, model.PaymentCompleted).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// SetStatusTx updates the payment status inside the refund transaction.
func (r *PaymentRepo) SetStatusTx(ctx context.Context, tx *sql.Tx, id uint64, status string) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE payments SET payment_status=? WHERE id=?", status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}

// Delete removes a payment row.
func (r *PaymentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM payments WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPaymentNotFound
	}
	return nil
}
