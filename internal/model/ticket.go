package model

import "time"

// Ticket records a booking made by a user against a schedule for a
// specific journey date.  The fare is copied from the schedule's base
// fare at booking time and the PNR is globally unique and immutable
// once assigned.  A confirmed ticket had a seat assigned at booking
// time; a pending ticket found no free seat and behaves like a
// waitlist entry.
type Ticket struct {
	ID              uint64    `json:"id"`               // tickets.id
	UserID          uint64    `json:"user_id"`          // tickets.user_id
	ScheduleID      uint64    `json:"schedule_id"`      // tickets.schedule_id
	BookingDate     string    `json:"booking_date"`     // tickets.booking_date (YYYY-MM-DD)
	JourneyDate     string    `json:"journey_date"`     // tickets.journey_date (YYYY-MM-DD)
	PassengerName   string    `json:"passenger_name"`   // tickets.passenger_name
	PassengerAge    int       `json:"passenger_age"`    // tickets.passenger_age
	PassengerGender string    `json:"passenger_gender"` // tickets.passenger_gender
	SeatNumber      *string   `json:"seat_number"`      // tickets.seat_number (nullable)
	Fare            float64   `json:"fare"`             // tickets.fare
	Status          string    `json:"status"`           // tickets.status
	PNR             string    `json:"pnr_number"`       // tickets.pnr_number
	CreatedAt       time.Time `json:"created_at"`       // tickets.created_at
	UpdatedAt       time.Time `json:"-"`                // tickets.updated_at
}

// Ticket statuses.
const (
	TicketPending    = "pending"
	TicketConfirmed  = "confirmed"
	TicketCancelled  = "cancelled"
	TicketWaitlisted = "waitlisted"
)
