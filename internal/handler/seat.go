package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/railgo/train-booking-api/internal/model"
	"github.com/railgo/train-booking-api/internal/repository"
)

// SeatHandler serves seat inventory.  The availability view is public;
// creating and mutating seats is admin only at the route layer.
type SeatHandler struct {
	Seats     *repository.SeatRepo
	Schedules *repository.ScheduleRepo
}

func NewSeatHandler(s *repository.SeatRepo, sch *repository.ScheduleRepo) *SeatHandler {
	return &SeatHandler{Seats: s, Schedules: sch}
}

const dateLayout = "2006-01-02"

func parseJourneyDate(s string) (time.Time, bool) {
	d, err := time.Parse(dateLayout, strings.TrimSpace(s))
	return d, err == nil
}

// Availability lists the seats of a schedule on a journey date, split
// into available and occupied.
func (h *SeatHandler) Availability(c echo.Context) error {
	scheduleID := queryID(c, "schedule_id")
	if scheduleID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule_id is required"})
	}
	date, ok := parseJourneyDate(c.QueryParam("journey_date"))
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "journey_date must be YYYY-MM-DD"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Schedules.GetByID(ctx, scheduleID); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	seats, err := h.Seats.ListByScheduleAndDate(ctx, scheduleID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	available := make([]model.Seat, 0, len(seats))
	occupied := make([]model.Seat, 0)
	for _, s := range seats {
		if s.IsAvailable {
			available = append(available, s)
		} else {
			occupied = append(occupied, s)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"available":       available,
		"occupied":        occupied,
		"available_count": len(available),
		"occupied_count":  len(occupied),
	})
}

type seatReq struct {
	ScheduleID  uint64 `json:"schedule_id"`
	JourneyDate string `json:"journey_date"`
	SeatNumber  string `json:"seat_number"`
	SeatType    string `json:"seat_type"`
}

// Create adds a single seat.  Duplicate seat numbers for the same
// schedule and date are rejected.
func (h *SeatHandler) Create(c echo.Context) error {
	var req seatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.SeatNumber = strings.TrimSpace(req.SeatNumber)
	if req.ScheduleID == 0 || req.SeatNumber == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule_id and seat_number are required"})
	}
	date, ok := parseJourneyDate(req.JourneyDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "journey_date must be YYYY-MM-DD"})
	}
	if req.SeatType == "" {
		req.SeatType = "general"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Schedules.GetByID(ctx, req.ScheduleID); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	id, err := h.Seats.Create(ctx, req.ScheduleID, date, req.SeatNumber, req.SeatType)
	if err != nil {
		if errors.Is(err, repository.ErrSeatExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create seat failed"})
	}

	s, err := h.Seats.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

type bulkSeatReq struct {
	ScheduleID  uint64 `json:"schedule_id"`
	JourneyDate string `json:"journey_date"`
	Seats       []struct {
		SeatNumber string `json:"seat_number"`
		SeatType   string `json:"seat_type"`
	} `json:"seats"`
}

// CreateBulk adds many seats at once, skipping seat numbers that already
// exist for the schedule and date.
func (h *SeatHandler) CreateBulk(c echo.Context) error {
	var req bulkSeatReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.ScheduleID == 0 || len(req.Seats) == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "schedule_id and seats are required"})
	}
	date, ok := parseJourneyDate(req.JourneyDate)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "journey_date must be YYYY-MM-DD"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Schedules.GetByID(ctx, req.ScheduleID); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	in := make([]repository.BulkSeat, 0, len(req.Seats))
	for _, s := range req.Seats {
		num := strings.TrimSpace(s.SeatNumber)
		if num == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_number cannot be empty"})
		}
		st := s.SeatType
		if st == "" {
			st = "general"
		}
		in = append(in, repository.BulkSeat{SeatNumber: num, SeatType: st})
	}

	created, err := h.Seats.CreateBulk(ctx, req.ScheduleID, date, in)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create seats failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"seats":         created,
		"created_count": len(created),
		"skipped_count": len(in) - len(created),
	})
}

type seatUpdateReq struct {
	IsAvailable *bool   `json:"is_available"`
	SeatType    *string `json:"seat_type"`
}

// Update modifies a seat's type or availability flag.
func (h *SeatHandler) Update(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}
	var req seatUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Seats.GetByID(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	if err := h.Seats.Update(ctx, id, repository.SeatUpdate{IsAvailable: req.IsAvailable, SeatType: req.SeatType}); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	s, err := h.Seats.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// Delete removes a seat.
func (h *SeatHandler) Delete(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid seat id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Seats.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrSeatNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "seat deleted"})
}
