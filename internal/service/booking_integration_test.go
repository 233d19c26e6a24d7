//go:build integration

package service

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railgo/train-booking-api/internal/database"
	"github.com/railgo/train-booking-api/internal/model"
	"github.com/railgo/train-booking-api/internal/repository"
)

var testDB *sql.DB

var testSchema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		username VARCHAR(64) NOT NULL UNIQUE,
		email VARCHAR(191) NOT NULL UNIQUE,
		password_hash VARCHAR(100) NOT NULL,
		full_name VARCHAR(120) NOT NULL,
		phone VARCHAR(20),
		role VARCHAR(10) NOT NULL DEFAULT 'user',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS trains (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		train_number VARCHAR(20) NOT NULL UNIQUE,
		train_name VARCHAR(120) NOT NULL,
		train_type VARCHAR(30) NOT NULL DEFAULT '',
		total_seats INT UNSIGNED NOT NULL,
		status VARCHAR(12) NOT NULL DEFAULT 'active',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS routes (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		route_name VARCHAR(120) NOT NULL,
		source_station VARCHAR(80) NOT NULL,
		destination_station VARCHAR(80) NOT NULL,
		distance_km DOUBLE NOT NULL,
		duration_hours DOUBLE NOT NULL DEFAULT 0,
		status VARCHAR(12) NOT NULL DEFAULT 'active',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS schedules (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		train_id BIGINT UNSIGNED NOT NULL,
		route_id BIGINT UNSIGNED NOT NULL,
		departure_time TIME NOT NULL,
		arrival_time TIME NOT NULL,
		frequency VARCHAR(20) NOT NULL DEFAULT 'daily',
		base_fare DOUBLE NOT NULL,
		status VARCHAR(12) NOT NULL DEFAULT 'active',
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		FOREIGN KEY (train_id) REFERENCES trains(id),
		FOREIGN KEY (route_id) REFERENCES routes(id)
	)`,
	`CREATE TABLE IF NOT EXISTS tickets (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		schedule_id BIGINT UNSIGNED NOT NULL,
		booking_date DATE NOT NULL,
		journey_date DATE NOT NULL,
		passenger_name VARCHAR(120) NOT NULL,
		passenger_age INT NOT NULL,
		passenger_gender VARCHAR(10) NOT NULL DEFAULT '',
		seat_number VARCHAR(10),
		fare DOUBLE NOT NULL,
		status VARCHAR(12) NOT NULL,
		pnr_number CHAR(10) NOT NULL UNIQUE,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS seats (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		schedule_id BIGINT UNSIGNED NOT NULL,
		journey_date DATE NOT NULL,
		seat_number VARCHAR(10) NOT NULL,
		seat_type VARCHAR(20) NOT NULL DEFAULT 'general',
		is_available TINYINT(1) NOT NULL DEFAULT 1,
		ticket_id BIGINT UNSIGNED,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		UNIQUE KEY uq_seat (schedule_id, journey_date, seat_number)
	)`,
	`CREATE TABLE IF NOT EXISTS payments (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		ticket_id BIGINT UNSIGNED NOT NULL,
		user_id BIGINT UNSIGNED NOT NULL,
		amount DOUBLE NOT NULL,
		payment_method VARCHAR(20) NOT NULL,
		payment_status VARCHAR(12) NOT NULL,
		transaction_id VARCHAR(20) NOT NULL UNIQUE,
		payment_date DATETIME NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
}

func TestMain(m *testing.M) {
	var err error
	testDB, err = database.Open(
		getEnv("TEST_DB_USER", "root"),
		getEnv("TEST_DB_PASS", ""),
		getEnv("TEST_DB_HOST", "localhost"),
		getEnv("TEST_DB_PORT", "3306"),
		getEnv("TEST_DB_NAME", "train_booking_test"),
	)
	if err != nil {
		log.Fatalf("failed to connect to test database: %v", err)
	}

	for _, stmt := range testSchema {
		if _, err := testDB.Exec(stmt); err != nil {
			log.Fatalf("failed to create test schema: %v", err)
		}
	}

	code := m.Run()

	for _, table := range []string{"payments", "seats", "tickets", "schedules", "routes", "trains", "users"} {
		_, _ = testDB.Exec("DROP TABLE IF EXISTS " + table)
	}
	os.Exit(code)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func cleanTables(t *testing.T) {
	t.Helper()
	for _, table := range []string{"payments", "seats", "tickets", "schedules", "routes", "trains", "users"} {
		_, err := testDB.Exec("DELETE FROM " + table)
		require.NoError(t, err)
	}
}

func futureDate() time.Time {
	return time.Now().UTC().AddDate(0, 1, 0)
}

// createFixtures inserts a user, train, route, active schedule and the
// given seat numbers for the journey date, returning user and schedule ids.
func createFixtures(t *testing.T, seatNumbers []string, journey time.Time) (uint64, uint64) {
	t.Helper()
	ctx := context.Background()

	res, err := testDB.Exec(
		"INSERT INTO users (username, email, password_hash, full_name, role) VALUES (?,?,?,?,?)",
		fmt.Sprintf("user%d", time.Now().UnixNano()),
		fmt.Sprintf("u%d@example.com", time.Now().UnixNano()),
		"x", "Test User", "user")
	require.NoError(t, err)
	uid, _ := res.LastInsertId()

	res, err = testDB.Exec(
		"INSERT INTO trains (train_number, train_name, train_type, total_seats) VALUES (?,?,?,?)",
		fmt.Sprintf("T%d", time.Now().UnixNano()%100000), "Night Express", "express", len(seatNumbers))
	require.NoError(t, err)
	trainID, _ := res.LastInsertId()

	res, err = testDB.Exec(
		"INSERT INTO routes (route_name, source_station, destination_station, distance_km, duration_hours) VALUES (?,?,?,?,?)",
		"Delhi-Mumbai", "Delhi", "Mumbai", 1400, 16.5)
	require.NoError(t, err)
	routeID, _ := res.LastInsertId()

	res, err = testDB.Exec(
		"INSERT INTO schedules (train_id, route_id, departure_time, arrival_time, base_fare) VALUES (?,?,?,?,?)",
		trainID, routeID, "21:30:00", "14:00:00", 450)
	require.NoError(t, err)
	scheduleID, _ := res.LastInsertId()

	seats := repository.NewSeatRepo(testDB)
	for _, num := range seatNumbers {
		_, err := seats.Create(ctx, uint64(scheduleID), journey, num, "general")
		require.NoError(t, err)
	}
	return uint64(uid), uint64(scheduleID)
}

func newTicketService() TicketService {
	return NewTicketService(testDB,
		repository.NewTicketRepo(testDB),
		repository.NewSeatRepo(testDB),
		repository.NewScheduleRepo(testDB))
}

func newPaymentService() PaymentService {
	return NewPaymentService(testDB,
		repository.NewPaymentRepo(testDB),
		repository.NewTicketRepo(testDB),
		repository.NewSeatRepo(testDB))
}

func TestBook_AssignsSeatAndConfirms(t *testing.T) {
	cleanTables(t)
	journey := futureDate()
	uid, scheduleID := createFixtures(t, []string{"A1", "A2"}, journey)
	svc := newTicketService()

	ticket, err := svc.Book(context.Background(), BookRequest{
		UserID: uid, ScheduleID: scheduleID, JourneyDate: journey,
		PassengerName: "Asha Rao", PassengerAge: 34, PassengerGender: "female",
	})
	require.NoError(t, err)

	assert.Equal(t, model.TicketConfirmed, ticket.Status)
	require.NotNil(t, ticket.SeatNumber)
	assert.Equal(t, "A1", *ticket.SeatNumber)
	assert.Equal(t, 450.0, ticket.Fare)
	assert.Len(t, ticket.PNR, 10)

	// the assigned seat must now be unavailable and point at the ticket
	seats, err := repository.NewSeatRepo(testDB).ListByScheduleAndDate(context.Background(), scheduleID, journey)
	require.NoError(t, err)
	for _, s := range seats {
		if s.SeatNumber == "A1" {
			assert.False(t, s.IsAvailable)
			require.NotNil(t, s.TicketID)
			assert.Equal(t, ticket.ID, *s.TicketID)
		} else {
			assert.True(t, s.IsAvailable)
		}
	}
}

func TestBook_FullSchedulePending(t *testing.T) {
	cleanTables(t)
	journey := futureDate()
	uid, scheduleID := createFixtures(t, []string{"A1"}, journey)
	svc := newTicketService()

	first, err := svc.Book(context.Background(), BookRequest{
		UserID: uid, ScheduleID: scheduleID, JourneyDate: journey,
		PassengerName: "Asha Rao", PassengerAge: 34,
	})
	require.NoError(t, err)
	assert.Equal(t, model.TicketConfirmed, first.Status)

	second, err := svc.Book(context.Background(), BookRequest{
		UserID: uid, ScheduleID: scheduleID, JourneyDate: journey,
		PassengerName: "Ravi Kumar", PassengerAge: 28,
	})
	require.NoError(t, err)
	assert.Equal(t, model.TicketPending, second.Status)
	assert.Nil(t, second.SeatNumber)
	assert.NotEqual(t, first.PNR, second.PNR)
}

func TestBook_PastJourneyDateRejected(t *testing.T) {
	cleanTables(t)
	journey := futureDate()
	uid, scheduleID := createFixtures(t, []string{"A1"}, journey)
	svc := newTicketService()

	_, err := svc.Book(context.Background(), BookRequest{
		UserID: uid, ScheduleID: scheduleID,
		JourneyDate:   time.Now().UTC().AddDate(0, 0, -1),
		PassengerName: "Asha Rao", PassengerAge: 34,
	})
	assert.ErrorIs(t, err, ErrPastJourneyDate)
}

func TestBook_ConcurrentSingleSeat(t *testing.T) {
	cleanTables(t)
	journey := futureDate()
	uid, scheduleID := createFixtures(t, []string{"A1"}, journey)
	svc := newTicketService()

	const bookers = 10
	var wg sync.WaitGroup
	results := make(chan model.Ticket, bookers)

	wg.Add(bookers)
	for i := 0; i < bookers; i++ {
		go func(n int) {
			defer wg.Done()
			ticket, err := svc.Book(context.Background(), BookRequest{
				UserID: uid, ScheduleID: scheduleID, JourneyDate: journey,
				PassengerName: fmt.Sprintf("Passenger %d", n), PassengerAge: 30,
			})
			if err == nil {
				results <- ticket
			}
		}(i)
	}
	wg.Wait()
	close(results)

	confirmed := 0
	pending := 0
	for ticket := range results {
		switch ticket.Status {
		case model.TicketConfirmed:
			confirmed++
			require.NotNil(t, ticket.SeatNumber)
			assert.Equal(t, "A1", *ticket.SeatNumber)
		case model.TicketPending:
			pending++
		}
	}
	assert.Equal(t, 1, confirmed, "exactly one booking may win the seat")
	assert.Equal(t, bookers-1, pending)
}

func TestCancel_ReleasesSeat(t *testing.T) {
	cleanTables(t)
	journey := futureDate()
	uid, scheduleID := createFixtures(t, []string{"A1"}, journey)
	svc := newTicketService()

	ticket, err := svc.Book(context.Background(), BookRequest{
		UserID: uid, ScheduleID: scheduleID, JourneyDate: journey,
		PassengerName: "Asha Rao", PassengerAge: 34,
	})
	require.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), ticket.ID, uid, false)
	require.NoError(t, err)
	assert.Equal(t, model.TicketCancelled, cancelled.Status)

	seats, err := repository.NewSeatRepo(testDB).ListByScheduleAndDate(context.Background(), scheduleID, journey)
	require.NoError(t, err)
	require.Len(t, seats, 1)
	assert.True(t, seats[0].IsAvailable)
	assert.Nil(t, seats[0].TicketID)

	// a second cancel must fail
	_, err = svc.Cancel(context.Background(), ticket.ID, uid, false)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancel_OwnershipEnforced(t *testing.T) {
	cleanTables(t)
	journey := futureDate()
	uid, scheduleID := createFixtures(t, []string{"A1"}, journey)
	svc := newTicketService()

	ticket, err := svc.Book(context.Background(), BookRequest{
		UserID: uid, ScheduleID: scheduleID, JourneyDate: journey,
		PassengerName: "Asha Rao", PassengerAge: 34,
	})
	require.NoError(t, err)

	_, err = svc.Cancel(context.Background(), ticket.ID, uid+1, false)
	assert.ErrorIs(t, err, ErrForbidden)

	// an admin may cancel any ticket
	cancelled, err := svc.Cancel(context.Background(), ticket.ID, uid+1, true)
	require.NoError(t, err)
	assert.Equal(t, model.TicketCancelled, cancelled.Status)
}

func TestPay_ConfirmsPendingTicketOnce(t *testing.T) {
	cleanTables(t)
	journey := futureDate()
	uid, scheduleID := createFixtures(t, nil, journey)
	tickets := newTicketService()
	payments := newPaymentService()

	// no seats exist, so the booking lands pending
	ticket, err := tickets.Book(context.Background(), BookRequest{
		UserID: uid, ScheduleID: scheduleID, JourneyDate: journey,
		PassengerName: "Asha Rao", PassengerAge: 34,
	})
	require.NoError(t, err)
	require.Equal(t, model.TicketPending, ticket.Status)

	p, err := payments.Pay(context.Background(), uid, ticket.ID, "credit_card")
	require.NoError(t, err)
	assert.Equal(t, model.PaymentCompleted, p.PaymentStatus)
	assert.Equal(t, ticket.Fare, p.Amount)
	assert.Regexp(t, `^TXN[A-Z0-9]{15}$`, p.TransactionID)

	got, err := tickets.Get(context.Background(), ticket.ID, uid, false)
	require.NoError(t, err)
	assert.Equal(t, model.TicketConfirmed, got.Status)

	_, err = payments.Pay(context.Background(), uid, ticket.ID, "credit_card")
	assert.ErrorIs(t, err, ErrAlreadyPaid)
}

func TestRefund_CancelsTicket(t *testing.T) {
	cleanTables(t)
	journey := futureDate()
	uid, scheduleID := createFixtures(t, []string{"A1"}, journey)
	tickets := newTicketService()
	payments := newPaymentService()

	ticket, err := tickets.Book(context.Background(), BookRequest{
		UserID: uid, ScheduleID: scheduleID, JourneyDate: journey,
		PassengerName: "Asha Rao", PassengerAge: 34,
	})
	require.NoError(t, err)

	p, err := payments.Pay(context.Background(), uid, ticket.ID, "upi")
	require.NoError(t, err)

	refunded, err := payments.Refund(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentRefunded, refunded.PaymentStatus)

	got, err := tickets.Get(context.Background(), ticket.ID, uid, false)
	require.NoError(t, err)
	assert.Equal(t, model.TicketCancelled, got.Status)

	seats, err := repository.NewSeatRepo(testDB).ListByScheduleAndDate(context.Background(), scheduleID, journey)
	require.NoError(t, err)
	require.Len(t, seats, 1)
	assert.True(t, seats[0].IsAvailable)

	_, err = payments.Refund(context.Background(), p.ID)
	assert.ErrorIs(t, err, ErrAlreadyRefunded)
}
