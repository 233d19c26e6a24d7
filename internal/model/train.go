package model

import "time"

// Train represents a physical train as stored in the `trains` table.
// Trains are referenced by schedules which pair them with a route.
//
// Fields:
//  ID          – primary key identifier.
//  TrainNumber – unique operator-assigned number.
//  TrainName   – human readable name.
//  TrainType   – one of express, local, superfast, premium.
//  TotalSeats  – nominal capacity, informational only (bookable seats
//                are modelled per schedule and journey date).
//  Status      – one of active, inactive, maintenance.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Train struct {
	ID          uint64    `json:"id"`           // trains.id
	TrainNumber string    `json:"train_number"` // trains.train_number
	TrainName   string    `json:"train_name"`   // trains.train_name
	TrainType   string    `json:"train_type"`   // trains.train_type
	TotalSeats  uint32    `json:"total_seats"`  // trains.total_seats
	Status      string    `json:"status"`       // trains.status
	CreatedAt   time.Time `json:"created_at"`   // trains.created_at
	UpdatedAt   time.Time `json:"-"`            // trains.updated_at
}
