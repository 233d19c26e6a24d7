package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/railgo/train-booking-api/internal/model"
)

type TrainRepo struct{ DB *sql.DB }

func NewTrainRepo(db *sql.DB) *TrainRepo { return &TrainRepo{DB: db} }

var (
	ErrTrainNotFound     = errors.New("train not found")
	ErrTrainNumberExists = errors.New("train number already exists")
)

const trainCols = "id,train_number,train_name,train_type,total_seats,status,created_at,updated_at"

func scanTrain(row interface{ Scan(...any) error }) (model.Train, error) {
	var t model.Train
	err := row.Scan(&t.ID, &t.TrainNumber, &t.TrainName, &t.TrainType,
		&t.TotalSeats, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	return t, err
}

// List returns trains, optionally filtered by status and/or train type.
func (r *TrainRepo) List(ctx context.Context, status, trainType string) ([]model.Train, error) {
	q := "SELECT " + trainCols + " FROM trains"
	where := make([]string, 0, 2)
	args := make([]any, 0, 2)
	if status != "" {
		where = append(where, "status=?")
		args = append(args, status)
	}
	if trainType != "" {
		where = append(where, "train_type=?")
		args = append(args, trainType)
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
	trains := make([]model.Train, 0)
	for rows.Next() {
		t, err := scanTrain(rows)
		if err != nil {
			return nil, err
		}
		trains = append(trains, t)
	}
	return trains, rows.Err()
}

// Search matches trains whose number or name contains q.
func (r *TrainRepo) Search(ctx context.Context, q string) ([]model.Train, error) {
	like := "%" + q + "%"
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+trainCols+" FROM trains WHERE train_number LIKE ? OR train_name LIKE ? ORDER BY id",
		like, like)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	trains := make([]model.Train, 0)
	for rows.Next() {
		t, err := scanTrain(rows)
		if err != nil {
			return nil, err
		}
		trains = append(trains, t)
	}
	return trains, rows.Err()
}

// GetByID fetches a train; ErrTrainNotFound when missing.
func (r *TrainRepo) GetByID(ctx context.Context, id uint64) (model.Train, error) {
	t, err := scanTrain(r.DB.QueryRowContext(ctx,
		"SELECT "+trainCols+" FROM trains WHERE id=? LIMIT 1", id))
	if err == sql.ErrNoRows {
		return model.Train{}, ErrTrainNotFound
	}
	return t, err
}

// Create inserts a train and returns its ID.  A duplicate train number is
// mapped to ErrTrainNumberExists.
func (r *TrainRepo) Create(ctx context.Context, t model.Train) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO trains (train_number, train_name, train_type, total_seats, status) VALUES (?,?,?,?,?)",
		t.TrainNumber, t.TrainName, t.TrainType, t.TotalSeats, t.Status)
	if err != nil {
		if isDuplicate(err) {
			return 0, ErrTrainNumberExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// TrainUpdate carries the optional fields of a train update; nil means
// leave the column untouched.
type TrainUpdate struct {
	TrainNumber *string
	TrainName   *string
	TrainType   *string
	TotalSeats  *uint32
	Status      *string
}

func (r *TrainRepo) Update(ctx context.Context, id uint64, upd TrainUpdate) error {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	if upd.TrainNumber != nil {
		sets = append(sets, "train_number=?")
		args = append(args, *upd.TrainNumber)
	}
	if upd.TrainName != nil {
		sets = append(sets, "train_name=?")
		args = append(args, *upd.TrainName)
	}
	if upd.TrainType != nil {
		sets = append(sets, "train_type=?")
		args = append(args, *upd.TrainType)
	}
	if upd.TotalSeats != nil {
		sets = append(sets, "total_seats=?")
		args = append(args, *upd.TotalSeats)
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
		"UPDATE trains SET "+strings.Join(sets, ",")+" WHERE id=?", args...)
	if isDuplicate(err) {
		return ErrTrainNumberExists
	}
	return err
}

// Delete removes a train; schedules cascade at the database level.
func (r *TrainRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM trains WHERE id=?", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTrainNotFound
	}
	return nil
}

// NumberInUse reports whether trainNumber belongs to a train other than selfID.
func (r *TrainRepo) NumberInUse(ctx context.Context, trainNumber string, selfID uint64) (bool, error) {
	var id uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT id FROM trains WHERE train_number=? LIMIT 1", trainNumber).Scan(&id)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return id != selfID, nil
}
