package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/railgo/train-booking-api/internal/repository"
)

// ScheduleHandler serves train schedules.  Responses embed the train and
// route names so clients can render journeys without extra lookups.
type ScheduleHandler struct {
	Schedules *repository.ScheduleRepo
	Trains    *repository.TrainRepo
	Routes    *repository.RouteRepo
}

func NewScheduleHandler(s *repository.ScheduleRepo, t *repository.TrainRepo, r *repository.RouteRepo) *ScheduleHandler {
	return &ScheduleHandler{Schedules: s, Trains: t, Routes: r}
}

const timeLayout = "15:04:05"

func validClock(s string) bool {
	_, err := time.Parse(timeLayout, s)
	return err == nil
}

func queryID(c echo.Context, name string) uint64 {
	n, _ := strconv.ParseUint(c.QueryParam(name), 10, 64)
	return n
}

// List returns schedules, optionally filtered by train_id, route_id and
// status.
func (h *ScheduleHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	schedules, err := h.Schedules.List(ctx, queryID(c, "train_id"), queryID(c, "route_id"), c.QueryParam("status"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"schedules": schedules, "count": len(schedules)})
}

// Search finds active schedules between two stations.
func (h *ScheduleHandler) Search(c echo.Context) error {
	source := strings.TrimSpace(c.QueryParam("source"))
	destination := strings.TrimSpace(c.QueryParam("destination"))
	if source == "" || destination == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "source and destination are required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	schedules, err := h.Schedules.Search(ctx, source, destination)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"schedules": schedules, "count": len(schedules)})
}

// Get returns one schedule by id.
func (h *ScheduleHandler) Get(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	s, err := h.Schedules.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, s)
}

type scheduleReq struct {
	TrainID       uint64  `json:"train_id"`
	RouteID       uint64  `json:"route_id"`
	DepartureTime string  `json:"departure_time"`
	ArrivalTime   string  `json:"arrival_time"`
	Frequency     string  `json:"frequency"`
	BaseFare      float64 `json:"base_fare"`
	Status        string  `json:"status"`
}

// Create adds a schedule.  The referenced train and route must exist and
// times are HH:MM:SS.
func (h *ScheduleHandler) Create(c echo.Context) error {
	var req scheduleReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.TrainID == 0 || req.RouteID == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "train_id and route_id are required"})
	}
	if !validClock(req.DepartureTime) || !validClock(req.ArrivalTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "departure_time and arrival_time must be HH:MM:SS"})
	}
	if req.BaseFare <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "base_fare must be positive"})
	}
	if req.Frequency == "" {
		req.Frequency = "daily"
	}
	if req.Status == "" {
		req.Status = "active"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if _, err := h.Trains.GetByID(ctx, req.TrainID); err != nil {
		if errors.Is(err, repository.ErrTrainNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "train not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if _, err := h.Routes.GetByID(ctx, req.RouteID); err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	id, err := h.Schedules.Create(ctx, req.TrainID, req.RouteID, req.DepartureTime, req.ArrivalTime, req.Frequency, req.BaseFare, req.Status)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create schedule failed"})
	}

	s, err := h.Schedules.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, s)
}

type scheduleUpdateReq struct {
	DepartureTime *string  `json:"departure_time"`
	ArrivalTime   *string  `json:"arrival_time"`
	Frequency     *string  `json:"frequency"`
	BaseFare      *float64 `json:"base_fare"`
	Status        *string  `json:"status"`
}

// Update modifies a schedule's times, frequency, fare or status.
func (h *ScheduleHandler) Update(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}
	var req scheduleUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.DepartureTime != nil && !validClock(*req.DepartureTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "departure_time must be HH:MM:SS"})
	}
	if req.ArrivalTime != nil && !validClock(*req.ArrivalTime) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "arrival_time must be HH:MM:SS"})
	}
	if req.BaseFare != nil && *req.BaseFare <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "base_fare must be positive"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Schedules.Update(ctx, id, repository.ScheduleUpdate{
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		Frequency:     req.Frequency,
		BaseFare:      req.BaseFare,
		Status:        req.Status,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	s, err := h.Schedules.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, s)
}

// Delete removes a schedule.
func (h *ScheduleHandler) Delete(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid schedule id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Schedules.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrScheduleNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "schedule not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "schedule deleted"})
}
