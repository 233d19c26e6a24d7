package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/railgo/train-booking-api/internal/service"
)

// TicketHandler serves ticket booking and lifecycle endpoints on top of
// the booking service.
type TicketHandler struct {
	Tickets service.TicketService
}

func NewTicketHandler(t service.TicketService) *TicketHandler {
	return &TicketHandler{Tickets: t}
}

var validGenders = map[string]bool{"male": true, "female": true, "other": true}

type bookReq struct {
	ScheduleID      uint64 `json:"schedule_id"`
	JourneyDate     string `json:"journey_date"`
	PassengerName   string `json:"passenger_name"`
	PassengerAge    int    `json:"passenger_age"`
	PassengerGender string `json:"passenger_gender"`
}

// Book creates a ticket for the authenticated user.
func (h *TicketHandler) Book(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var req bookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.PassengerName = strings.TrimSpace(req.PassengerName)
	if req.ScheduleID == 0 || req.PassengerName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule_id and passenger_name are required"})
	}
	if req.PassengerAge <= 0 || req.PassengerAge > 120 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passenger_age must be between 1 and 120"})
	}
	req.PassengerGender = strings.ToLower(strings.TrimSpace(req.PassengerGender))
	if req.PassengerGender != "" && !validGenders[req.PassengerGender] {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "passenger_gender must be male, female or other"})
	}
	journey, err := time.Parse(dateLayout, strings.TrimSpace(req.JourneyDate))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "journey_date must be YYYY-MM-DD"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Tickets.Book(ctx, service.BookRequest{
		UserID:          uid,
		ScheduleID:      req.ScheduleID,
		JourneyDate:     journey,
		PassengerName:   req.PassengerName,
		PassengerAge:    req.PassengerAge,
		PassengerGender: req.PassengerGender,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrScheduleNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		case errors.Is(err, service.ErrScheduleUnavailable):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule is not active"})
		case errors.Is(err, service.ErrPastJourneyDate):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "journey date cannot be in the past"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "booking failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

// List returns the caller's tickets; admins get every ticket.
func (h *TicketHandler) List(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	var tickets interface{}
	if isAdmin(c) {
		tickets, err = h.Tickets.ListAll(ctx)
	} else {
		tickets, err = h.Tickets.ListForUser(ctx, uid)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"tickets": tickets})
}

// Get returns one ticket; non-owners need the admin role.
func (h *TicketHandler) Get(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Tickets.Get(ctx, id, uid, isAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// GetByPNR is the public PNR status lookup.  The response embeds journey
// details from the schedule.
func (h *TicketHandler) GetByPNR(c echo.Context) error {
	pnr := strings.ToUpper(strings.TrimSpace(c.Param("pnr")))
	if pnr == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "pnr is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, sched, err := h.Tickets.GetByPNR(ctx, pnr)
	if err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"ticket": t, "schedule": sched})
}

// Cancel cancels a ticket and releases its seat.
func (h *TicketHandler) Cancel(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}
	uid, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Tickets.Cancel(ctx, id, uid, isAdmin(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTicketNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		case errors.Is(err, service.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, service.ErrAlreadyCancelled):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "ticket is already cancelled"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// Delete removes a ticket record.  Admin only at the route layer.
func (h *TicketHandler) Delete(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid ticket id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Tickets.Delete(ctx, id); err != nil {
		if errors.Is(err, service.ErrTicketNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "ticket not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "ticket deleted"})
}
