package model

import "time"

// Payment records a transaction against a ticket.  Payments are
// simulated: creating one marks it completed immediately and confirms a
// pending ticket.  The transaction id is globally unique.
type Payment struct {
	ID            uint64    `json:"id"`             // payments.id
	TicketID      uint64    `json:"ticket_id"`      // payments.ticket_id
	UserID        uint64    `json:"user_id"`        // payments.user_id
	Amount        float64   `json:"amount"`         // payments.amount
	PaymentMethod string    `json:"payment_method"` // payments.payment_method
	PaymentStatus string    `json:"payment_status"` // payments.payment_status
	TransactionID string    `json:"transaction_id"` // payments.transaction_id
	PaymentDate   time.Time `json:"payment_date"`   // payments.payment_date
	CreatedAt     time.Time `json:"created_at"`     // payments.created_at
}

// Payment statuses.
const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"
)
