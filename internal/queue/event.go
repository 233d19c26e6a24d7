// Package queue defines message payloads exchanged over the message broker.
package queue

// TicketBookedEvent is published after a booking transaction commits.
// It carries enough detail for downstream consumers to log or notify
// without querying the primary database.
type TicketBookedEvent struct {
	TicketID    uint64  `json:"ticket_id"`
	UserID      uint64  `json:"user_id"`
	ScheduleID  uint64  `json:"schedule_id"`
	PNR         string  `json:"pnr_number"`
	JourneyDate string  `json:"journey_date"`
	SeatNumber  *string `json:"seat_number"`
	Fare        float64 `json:"fare"`
	Status      string  `json:"status"`
	BookedAt    string  `json:"booked_at"`
}
