package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/railgo/train-booking-api/internal/model"
	"github.com/railgo/train-booking-api/internal/repository"
)

// RouteHandler serves the route catalog.
type RouteHandler struct {
	Routes *repository.RouteRepo
}

func NewRouteHandler(r *repository.RouteRepo) *RouteHandler {
	return &RouteHandler{Routes: r}
}

// List returns routes, optionally filtered by status and source or
// destination station substrings.
func (h *RouteHandler) List(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	routes, err := h.Routes.List(ctx, c.QueryParam("status"), c.QueryParam("source"), c.QueryParam("destination"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"routes": routes, "count": len(routes)})
}

// Get returns one route by id.
func (h *RouteHandler) Get(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	rt, err := h.Routes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, rt)
}

type routeReq struct {
	RouteName          string  `json:"route_name"`
	SourceStation      string  `json:"source_station"`
	DestinationStation string  `json:"destination_station"`
	DistanceKM         float64 `json:"distance_km"`
	DurationHours      float64 `json:"duration_hours"`
	Status             string  `json:"status"`
}

// Create adds a route.
func (h *RouteHandler) Create(c echo.Context) error {
	var req routeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.RouteName = strings.TrimSpace(req.RouteName)
	req.SourceStation = strings.TrimSpace(req.SourceStation)
	req.DestinationStation = strings.TrimSpace(req.DestinationStation)
	if req.RouteName == "" || req.SourceStation == "" || req.DestinationStation == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "route_name, source_station and destination_station are required"})
	}
	if req.DistanceKM <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "distance_km must be positive"})
	}
	if req.Status == "" {
		req.Status = "active"
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Routes.Create(ctx, model.Route{
		RouteName:          req.RouteName,
		SourceStation:      req.SourceStation,
		DestinationStation: req.DestinationStation,
		DistanceKM:         req.DistanceKM,
		DurationHours:      req.DurationHours,
		Status:             req.Status,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create route failed"})
	}

	rt, err := h.Routes.GetByID(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusCreated, rt)
}

type routeUpdateReq struct {
	RouteName          *string  `json:"route_name"`
	SourceStation      *string  `json:"source_station"`
	DestinationStation *string  `json:"destination_station"`
	DistanceKM         *float64 `json:"distance_km"`
	DurationHours      *float64 `json:"duration_hours"`
	Status             *string  `json:"status"`
}

// Update modifies a route.
func (h *RouteHandler) Update(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route id"})
	}
	var req routeUpdateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.DistanceKM != nil && *req.DistanceKM <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "distance_km must be positive"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	err := h.Routes.Update(ctx, id, repository.RouteUpdate{
		RouteName:          req.RouteName,
		SourceStation:      req.SourceStation,
		DestinationStation: req.DestinationStation,
		DistanceKM:         req.DistanceKM,
		DurationHours:      req.DurationHours,
		Status:             req.Status,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}

	rt, err := h.Routes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, rt)
}

// Delete removes a route.
func (h *RouteHandler) Delete(c echo.Context) error {
	id := pathID(c, "id")
	if id == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid route id"})
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Routes.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrRouteNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "route not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "route deleted"})
}
