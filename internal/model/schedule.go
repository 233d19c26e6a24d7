package model

import "time"

// Schedule pairs a train with a route and fixes the departure and
// arrival times, the running frequency and the base fare.  Tickets and
// seats hang off a schedule.  Departure and arrival are stored as TIME
// columns and exposed as "HH:MM:SS" strings.
//
// Fields:
//  ID            – primary key identifier.
//  TrainID       – train operating this schedule.
//  RouteID       – route the schedule runs on.
//  TrainName     – denormalized train name (joined in for responses).
//  TrainNumber   – denormalized train number.
//  SourceStation – denormalized route source.
//  DestStation   – denormalized route destination.
//  DepartureTime – departure time of day.
//  ArrivalTime   – arrival time of day.
//  Frequency     – one of daily, weekly, weekend.
//  BaseFare      – fare copied onto tickets at booking time.
//  Status        – one of active, cancelled, delayed.
type Schedule struct {
	ID            uint64    `json:"id"`                  // schedules.id
	TrainID       uint64    `json:"train_id"`            // schedules.train_id
	RouteID       uint64    `json:"route_id"`            // schedules.route_id
	TrainName     string    `json:"train_name"`          // trains.train_name (join)
	TrainNumber   string    `json:"train_number"`        // trains.train_number (join)
	SourceStation string    `json:"source_station"`      // routes.source_station (join)
	DestStation   string    `json:"destination_station"` // routes.destination_station (join)
	DepartureTime string    `json:"departure_time"`      // schedules.departure_time
	ArrivalTime   string    `json:"arrival_time"`        // schedules.arrival_time
	Frequency     string    `json:"frequency"`           // schedules.frequency
	BaseFare      float64   `json:"base_fare"`           // schedules.base_fare
	Status        string    `json:"status"`              // schedules.status
	CreatedAt     time.Time `json:"created_at"`          // schedules.created_at
	UpdatedAt     time.Time `json:"-"`                   // schedules.updated_at
}

// Schedule statuses.  Booking is only allowed against an active schedule.
const (
	ScheduleActive    = "active"
	ScheduleCancelled = "cancelled"
	ScheduleDelayed   = "delayed"
)
