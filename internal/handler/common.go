// Package handler defines the HTTP handlers for the booking API.  Handlers
// bind and validate request bodies, call repositories or services, and map
// sentinel errors to status codes; all error responses use the shape
// {"error": <message>}.
package handler

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/railgo/train-booking-api/internal/middleware"
	"github.com/railgo/train-booking-api/internal/model"
)

const dbTimeout = 5 * time.Second

// reqCtx derives a bounded context for DB work from the request.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// getUserID extracts the authenticated user id stored by the JWT middleware.
func getUserID(c echo.Context) (uint64, error) {
	if v, ok := c.Get(middleware.CtxUserID).(uint64); ok && v != 0 {
		return v, nil
	}
	return 0, errors.New("invalid user_id in context")
}

// isAdmin reports whether the request carries the admin role.
func isAdmin(c echo.Context) bool {
	role, _ := c.Get(middleware.CtxRole).(string)
	return role == model.RoleAdmin
}

// pathID parses a numeric path parameter, returning 0 when absent or
// malformed.
func pathID(c echo.Context, name string) uint64 {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil {
		return 0
	}
	return n
}
