package model

import "time"

// Seat is a bookable unit scoped to one schedule and one calendar
// journey date.  The (schedule_id, journey_date, seat_number) triple is
// unique.  When a seat is taken, is_available flips to false and
// ticket_id references the holding ticket; cancellation reverses both.
//
// Fields:
//  ID          – primary key identifier.
//  ScheduleID  – schedule this seat belongs to.
//  JourneyDate – calendar date of the journey.
//  SeatNumber  – label unique within the (schedule, date) pair, e.g. "S1".
//  SeatType    – seat class label such as sleeper or AC; defaults to general.
//  IsAvailable – whether the seat can still be assigned.
//  TicketID    – ticket currently holding the seat (nil when free).
type Seat struct {
	ID          uint64    `json:"id"`           // seats.id
	ScheduleID  uint64    `json:"schedule_id"`  // seats.schedule_id
	JourneyDate string    `json:"journey_date"` // seats.journey_date (YYYY-MM-DD)
	SeatNumber  string    `json:"seat_number"`  // seats.seat_number
	SeatType    string    `json:"seat_type"`    // seats.seat_type
	IsAvailable bool      `json:"is_available"` // seats.is_available
	TicketID    *uint64   `json:"ticket_id"`    // seats.ticket_id (nullable)
	CreatedAt   time.Time `json:"created_at"`   // seats.created_at
	UpdatedAt   time.Time `json:"-"`            // seats.updated_at
}
