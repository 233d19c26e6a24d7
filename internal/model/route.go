package model

import "time"

// Route describes a source/destination pairing with its distance and
// nominal duration.  Routes are joined to trains via schedules.
type Route struct {
	ID                 uint64    `json:"id"`                  // routes.id
	RouteName          string    `json:"route_name"`          // routes.route_name
	SourceStation      string    `json:"source_station"`      // routes.source_station
	DestinationStation string    `json:"destination_station"` // routes.destination_station
	DistanceKM         float64   `json:"distance_km"`         // routes.distance_km
	DurationHours      float64   `json:"duration_hours"`      // routes.duration_hours
	Status             string    `json:"status"`              // routes.status (active/inactive)
	CreatedAt          time.Time `json:"created_at"`          // routes.created_at
	UpdatedAt          time.Time `json:"-"`                   // routes.updated_at
}
