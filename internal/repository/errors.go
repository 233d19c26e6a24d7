// Package repository implements raw-SQL data access for the booking API.
// This file defines error values and helpers reused across repositories.
// Sentinel values allow handlers to distinguish failure scenarios: for
// example ErrForbidden maps to HTTP 403 and ErrConflict to HTTP 409.
package repository

import (
	"errors"
	"strings"
)

// ErrForbidden is returned when the caller attempts an operation on a
// resource they do not own.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write cannot proceed because of
// conflicting state, such as a uniqueness violation that has no more
// specific sentinel.
var ErrConflict = errors.New("conflict")

// isDuplicate reports whether err is a MySQL duplicate-key error (1062).
// The driver does not export a typed error for this, so repositories
// match on the error code in the message.
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
