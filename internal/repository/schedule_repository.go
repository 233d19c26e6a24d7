package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/railgo/train-booking-api/internal/model"
)

// ScheduleRepo provides access to the schedules table.  Reads join the
// trains and routes tables so responses carry the train name/number and
// the source/destination stations without extra queries.
type ScheduleRepo struct{ DB *sql.DB }

func NewScheduleRepo(db *sql.DB) *ScheduleRepo { return &ScheduleRepo{DB: db} }

var ErrScheduleNotFound = errors.New("schedule not found")

const scheduleSelect = `SELECT s.id, s.train_id, s.route_id,
       t.train_name, t.train_number, r.source_station, r.destination_station,
       TIME_FORMAT(s.departure_time, '%H:%i:%s'), TIME_FORMAT(s.arrival_time, '%H:%i:%s'),
       s.frequency, s.base_fare, s.status, s.created_at, s.updated_at
  FROM schedules s
  JOIN trains t ON t.id = s.train_id
  JOIN routes r ON r.id = s.route_id`

func scanSchedule(row interface{ Scan(...any) error }) (model.Schedule, error) {
	var s model.Schedule
	err := row.Scan(&s.ID, &s.TrainID, &s.RouteID,
		&s.TrainName, &s.TrainNumber, &s.SourceStation, &s.DestStation,
		&s.DepartureTime, &s.ArrivalTime,
		&s.Frequency, &s.BaseFare, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

// List returns schedules filtered by optional train, route and status.
func (r *ScheduleRepo) List(ctx context.Context, trainID, routeID uint64, status string) ([]model.Schedule, error) {
	q := scheduleSelect
	where := make([]string, 0, 3)
	args := make([]any, 0, 3)
	if trainID != 0 {
		where = append(where, "s.train_id=?")
		args = append(args, trainID)
	}
	if routeID != 0 {
		where = append(where, "s.route_id=?")
		args = append(args, routeID)
	}
	if status != "" {
		where = append(where, "s.status=?")
		args = append(args, status)
	}
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY s.id"
	return r.query(ctx, q, args...)
}

// Search returns active schedules whose route matches the source and
// destination substrings.
func (r *ScheduleRepo) Search(ctx context.Context, source, destination string) ([]model.Schedule, error) {
	q := scheduleSelect + ` WHERE r.source_station LIKE ? AND r.destination_station LIKE ? AND s.status='active' ORDER BY s.id`
	return r.query(ctx, q, "%"+source+"%", "%"+destination+"%")
}

func (r *ScheduleRepo) query(ctx context.Context, q string, args ...any) ([]model.Schedule, error) {
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	schedules := make([]model.Schedule, 0)
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	return schedules, rows.Err()
}

// GetByID fetches a schedule with its join columns; ErrScheduleNotFound
// when missing.
func (r *ScheduleRepo) GetByID(ctx context.Context, id uint64) (model.Schedule, error) {
	s, err := scanSchedule(r.DB.QueryRowContext(ctx, scheduleSelect+" WHERE s.id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Schedule{}, ErrScheduleNotFound
	}
	return s, err
}

// Create inserts a schedule and returns its ID.  Referential checks on the
// train and route are performed by the handler before calling.
func (r *ScheduleRepo) Create(ctx context.Context, trainID, routeID uint64, departure, arrival, frequency string, baseFare float64, status string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO schedules (train_id, route_id, departure_time, arrival_time, frequency, base_fare, status) VALUES (?,?,?,?,?,?,?)",
		trainID, routeID, departure, arrival, frequency, baseFare, status)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ScheduleUpdate carries the optional fields of a schedule update.
type ScheduleUpdate struct {
	DepartureTime *string
	ArrivalTime   *string
	Frequency     *string
	BaseFare      *float64
	Status        *string
}

func (r *ScheduleRepo) Update(ctx context.Context, id uint64, upd ScheduleUpdate) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if upd.DepartureTime != nil {
		sets = append(sets, "departure_time=?")
		args = append(args, *upd.DepartureTime)
	}
	if upd.ArrivalTime != nil {
		sets = append(sets, "arrival_time=?")
		args = append(args, *upd.ArrivalTime)
	}
	if upd.Frequency != nil {
		sets = append(sets, "frequency=?")
		args = append(args, *upd.Frequency)
	}
	if upd.BaseFare != nil {
		sets = append(sets, "base_fare=?")
		args = append(args, *upd.BaseFare)
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
		"UPDATE schedules SET "+strings.Join(sets, ",")+" WHERE id=?", args...)
	return err
}

// Delete removes a schedule; seats and tickets cascade at the database level.
func (r *ScheduleRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM schedules WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrScheduleNotFound
	}
	return nil
}
