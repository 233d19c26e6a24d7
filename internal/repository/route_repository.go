package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/railgo/train-booking-api/internal/model"
)

type RouteRepo struct{ DB *sql.DB }

func NewRouteRepo(db *sql.DB) *RouteRepo { return &RouteRepo{DB: db} }

var ErrRouteNotFound = errors.New("route not found")

const routeCols = "id,route_name,source_station,destination_station,distance_km,duration_hours,status,created_at,updated_at"

func scanRoute(row interface{ Scan(...any) error }) (model.Route, error) {
	var rt model.Route
	err := row.Scan(&rt.ID, &rt.RouteName, &rt.SourceStation, &rt.DestinationStation,
		&rt.DistanceKM, &rt.DurationHours, &rt.Status, &rt.CreatedAt, &rt.UpdatedAt)
	return rt, err
}

// List returns routes filtered by optional status and substring matches on
// the source and destination stations.
func (r *RouteRepo) List(ctx context.Context, status, source, destination string) ([]model.Route, error) {
	q := "SELECT " + routeCols + " FROM routes"
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if status != "" {
		where = append(where, "status=?")
		args = append(args, status)
	}
	if source != "" {
		where = append(where, "source_station LIKE ?")
		args = append(args, "%"+source+"%")
	}
	if destination != "" {
		where = append(where, "destination_station LIKE ?")
		args = append(args, "%"+destination+"%")
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY id"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	routes := make([]model.Route, 0)
	for rows.Next() {
		rt, err := scanRoute(rows)
		if err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}
	return routes, rows.Err()
}

// GetByID fetches a route; ErrRouteNotFound when missing.
func (r *RouteRepo) GetByID(ctx context.Context, id uint64) (model.Route, error) {
	rt, err := scanRoute(r.DB.QueryRowContext(ctx,
		"SELECT "+routeCols+" FROM routes WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Route{}, ErrRouteNotFound
	}
	return rt, err
}

// Create inserts a route and returns its ID.
func (r *RouteRepo) Create(ctx context.Context, rt model.Route) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO routes (route_name, source_station, destination_station, distance_km, duration_hours, status) VALUES (?,?,?,?,?,?)",
		rt.RouteName, rt.SourceStation, rt.DestinationStation, rt.DistanceKM, rt.DurationHours, rt.Status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// RouteUpdate carries the optional fields of a route update.
type RouteUpdate struct {
	RouteName          *string
	SourceStation      *string
	DestinationStation *string
	DistanceKM         *float64
	DurationHours      *float64
	Status             *string
}

func (r *RouteRepo) Update(ctx context.Context, id uint64, upd RouteUpdate) error {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)
	if upd.RouteName != nil {
		sets = append(sets, "route_name=?")
		args = append(args, *upd.RouteName)
	}
	if upd.SourceStation != nil {
		sets = append(sets, "source_station=?")
		args = append(args, *upd.SourceStation)
	}
	if upd.DestinationStation != nil {
		sets = append(sets, "destination_station=?")
		args = append(args, *upd.DestinationStation)
	}
	if upd.DistanceKM != nil {
		sets = append(sets, "distance_km=?")
		args = append(args, *upd.DistanceKM)
	}
	if upd.DurationHours != nil {
		sets = append(sets, "duration_hours=?")
		args = append(args, *upd.DurationHours)
	}
	if upd.Status != nil {
		sets = append(sets, "status=?")
		args = append(args, *upd.Status)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	_, err := r.DB.ExecContext(ctx,
		"UPDATE routes SET "+strings.Join(sets, ",")+" WHERE id=?", args...)
	return err
}

// Delete removes a route; schedules cascade at the database level.
func (r *RouteRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM routes WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrRouteNotFound
	}
	return nil
}
