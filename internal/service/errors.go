// Package service holds the booking and payment flows that span several
// tables in one transaction.  Handlers translate the sentinel errors
// below into HTTP status codes.
package service

import "errors"

var (
	ErrScheduleNotFound    = errors.New("schedule not found")
	ErrScheduleUnavailable = errors.New("schedule is not active")
	ErrPastJourneyDate     = errors.New("journey date cannot be in the past")
	ErrTicketNotFound      = errors.New("ticket not found")
	ErrAlreadyCancelled    = errors.New("ticket is already cancelled")
	ErrForbidden           = errors.New("forbidden")
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrAlreadyPaid         = errors.New("payment already completed for this ticket")
	ErrAlreadyRefunded     = errors.New("payment is already refunded")
	ErrTicketCancelled     = errors.New("cannot pay for a cancelled ticket")
)
