package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/railgo/train-booking-api/internal/model"
	"github.com/railgo/train-booking-api/internal/repository"
)

// TrainHandler serves the train catalog.  Reads are public, writes are
// admin only at the route layer.
type TrainHandler struct {
	Trains *repository.TrainRepo
}

func NewTrainHandler(t *repository.TrainRepo) *TrainHandler {
	return &TrainHandler{Trains: t}
}

// List returns trains, optionally filtered by status and train_type.
func (h *TrainHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	trains, err := h.Trains.List(ctx, c.QueryParam("status"), c.QueryParam("train_type"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"trains": trains, "count": len(trains)})
}

// Search matches trains by number or name substring.
func (h *TrainHandler) Search(c echo.Context) error {
	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "query parameter q is required"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	trains, err := h.Trains.Search(ctx, q)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"trains": trains, "count": len(trains)})
}

// Get returns one train by id.
func (h *TrainHandler) Get(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	t, err := h.Trains.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTrainNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "train not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, t)
}

type trainReq struct {
	TrainNumber string `json:"train_number"`
	TrainName   string `json:"train_name"`
	TrainType   string `json:"train_type"`
	TotalSeats  uint32 `json:"total_seats"`
	Status      string `json:"status"`
}

// Create adds a train.  The train number must be unique.
func (h *TrainHandler) Create(c echo.Context) error {
	var req trainReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.TrainNumber = strings.TrimSpace(req.TrainNumber)
	req.TrainName = strings.TrimSpace(req.TrainName)
	if req.TrainNumber == "" || req.TrainName == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "train_number and train_name are required"})
	}
	if req.TotalSeats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_seats must be positive"})
	}
	if req.Status == "" {
		req.Status = "active"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Trains.Create(ctx, model.Train{
		TrainNumber: req.TrainNumber,
		TrainName:   req.TrainName,
		TrainType:   req.TrainType,
		TotalSeats:  req.TotalSeats,
		Status:      req.Status,
	})
	if err != nil {
		if errors.Is(err, repository.ErrTrainNumberExists) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "train number already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create train failed"})
	}

	t, err := h.Trains.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, t)
}

type trainUpdateReq struct {
	TrainNumber *string `json:"train_number"`
	TrainName   *string `json:"train_name"`
	TrainType   *string `json:"train_type"`
	TotalSeats  *uint32 `json:"total_seats"`
	Status      *string `json:"status"`
}

// Update modifies a train.
func (h *TrainHandler) Update(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}
	var req trainUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if req.TrainNumber != nil {
		num := strings.TrimSpace(*req.TrainNumber)
		if num == "" {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "train_number cannot be empty"})
		}
		taken, err := h.Trains.NumberInUse(ctx, num, id)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
		}
		if taken {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "train number already exists"})
		}
		req.TrainNumber = &num
	}
	if req.TotalSeats != nil && *req.TotalSeats == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "total_seats must be positive"})
	}

	err := h.Trains.Update(ctx, id, repository.TrainUpdate{
		TrainNumber: req.TrainNumber,
		TrainName:   req.TrainName,
		TrainType:   req.TrainType,
		TotalSeats:  req.TotalSeats,
		Status:      req.Status,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	t, err := h.Trains.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrTrainNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "train not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, t)
}

// Delete removes a train.
func (h *TrainHandler) Delete(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid train id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Trains.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTrainNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "train not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "train deleted"})
}
