package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railgo/train-booking-api/internal/middleware"
	"github.com/railgo/train-booking-api/internal/model"
	"github.com/railgo/train-booking-api/internal/service"
)

// --- Mock TicketService ---

type mockTicketService struct {
	bookFn    func(ctx context.Context, req service.BookRequest) (model.Ticket, error)
	cancelFn  func(ctx context.Context, ticketID, userID uint64, isAdmin bool) (model.Ticket, error)
	getFn     func(ctx context.Context, ticketID, userID uint64, isAdmin bool) (model.Ticket, error)
	getPNRFn  func(ctx context.Context, pnr string) (model.Ticket, model.Schedule, error)
	listFn    func(ctx context.Context, userID uint64) ([]model.Ticket, error)
	listAllFn func(ctx context.Context) ([]model.Ticket, error)
	deleteFn  func(ctx context.Context, ticketID uint64) error
}

func (m *mockTicketService) Book(ctx context.Context, req service.BookRequest) (model.Ticket, error) {
	return m.bookFn(ctx, req)
}
func (m *mockTicketService) Cancel(ctx context.Context, ticketID, userID uint64, isAdmin bool) (model.Ticket, error) {
	return m.cancelFn(ctx, ticketID, userID, isAdmin)
}
func (m *mockTicketService) Get(ctx context.Context, ticketID, userID uint64, isAdmin bool) (model.Ticket, error) {
	return m.getFn(ctx, ticketID, userID, isAdmin)
}
func (m *mockTicketService) GetByPNR(ctx context.Context, pnr string) (model.Ticket, model.Schedule, error) {
	return m.getPNRFn(ctx, pnr)
}
func (m *mockTicketService) ListForUser(ctx context.Context, userID uint64) ([]model.Ticket, error) {
	return m.listFn(ctx, userID)
}
func (m *mockTicketService) ListAll(ctx context.Context) ([]model.Ticket, error) {
	return m.listAllFn(ctx)
}
func (m *mockTicketService) Delete(ctx context.Context, ticketID uint64) error {
	return m.deleteFn(ctx, ticketID)
}

func authedContext(e *echo.Echo, req *http.Request, rec *httptest.ResponseRecorder, userID uint64, role string) echo.Context {
	c := e.NewContext(req, rec)
	c.Set(middleware.CtxUserID, userID)
	c.Set(middleware.CtxRole, role)
	return c
}

// --- Tests ---

func TestBook_ConfirmedWithSeat(t *testing.T) {
	seat := "A1"
	svc := &mockTicketService{
		bookFn: func(ctx context.Context, req service.BookRequest) (model.Ticket, error) {
			assert.Equal(t, uint64(9), req.UserID)
			assert.Equal(t, uint64(3), req.ScheduleID)
			return model.Ticket{
				ID:         1,
				UserID:     req.UserID,
				ScheduleID: req.ScheduleID,
				SeatNumber: &seat,
				Status:     model.TicketConfirmed,
				PNR:        "AB12CD34EF",
				Fare:       450,
			}, nil
		},
	}

	e := echo.New()
	body := `{"schedule_id":3,"journey_date":"2031-05-01","passenger_name":"Asha Rao","passenger_age":34,"passenger_gender":"female"}`
	req := httptest.NewRequest(http.MethodPost, "/api/tickets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, "user")

	h := NewTicketHandler(svc)
	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp model.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.TicketConfirmed, resp.Status)
	require.NotNil(t, resp.SeatNumber)
	assert.Equal(t, "A1", *resp.SeatNumber)
	assert.Len(t, resp.PNR, 10)
}

func TestBook_FullTrainGoesPending(t *testing.T) {
	svc := &mockTicketService{
		bookFn: func(ctx context.Context, req service.BookRequest) (model.Ticket, error) {
			return model.Ticket{
				ID:         2,
				UserID:     req.UserID,
				ScheduleID: req.ScheduleID,
				SeatNumber: nil,
				Status:     model.TicketPending,
				PNR:        "ZZ99YY88XX",
			}, nil
		},
	}

	e := echo.New()
	body := `{"schedule_id":3,"journey_date":"2031-05-01","passenger_name":"Ravi Kumar","passenger_age":28,"passenger_gender":"male"}`
	req := httptest.NewRequest(http.MethodPost, "/api/tickets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, "user")

	h := NewTicketHandler(svc)
	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp model.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.TicketPending, resp.Status)
	assert.Nil(t, resp.SeatNumber)
}

func TestBook_PastJourneyDate(t *testing.T) {
	svc := &mockTicketService{
		bookFn: func(ctx context.Context, req service.BookRequest) (model.Ticket, error) {
			return model.Ticket{}, service.ErrPastJourneyDate
		},
	}

	e := echo.New()
	body := `{"schedule_id":3,"journey_date":"2020-01-01","passenger_name":"Asha Rao","passenger_age":34}`
	req := httptest.NewRequest(http.MethodPost, "/api/tickets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, "user")

	h := NewTicketHandler(svc)
	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "journey date cannot be in the past")
}

func TestBook_ScheduleNotFound(t *testing.T) {
	svc := &mockTicketService{
		bookFn: func(ctx context.Context, req service.BookRequest) (model.Ticket, error) {
			return model.Ticket{}, service.ErrScheduleNotFound
		},
	}

	e := echo.New()
	body := `{"schedule_id":404,"journey_date":"2031-05-01","passenger_name":"Asha Rao","passenger_age":34}`
	req := httptest.NewRequest(http.MethodPost, "/api/tickets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, "user")

	h := NewTicketHandler(svc)
	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBook_InvalidDateFormat(t *testing.T) {
	e := echo.New()
	body := `{"schedule_id":3,"journey_date":"01-05-2031","passenger_name":"Asha Rao","passenger_age":34}`
	req := httptest.NewRequest(http.MethodPost, "/api/tickets", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, "user")

	// service must not be reached on a malformed date
	h := NewTicketHandler(&mockTicketService{})
	require.NoError(t, h.Book(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "journey_date")
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	svc := &mockTicketService{
		cancelFn: func(ctx context.Context, ticketID, userID uint64, isAdmin bool) (model.Ticket, error) {
			return model.Ticket{}, service.ErrAlreadyCancelled
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/tickets/5/cancel", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, "user")
	c.SetParamNames("id")
	c.SetParamValues("5")

	h := NewTicketHandler(svc)
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "already cancelled")
}

func TestCancel_NotOwner(t *testing.T) {
	svc := &mockTicketService{
		cancelFn: func(ctx context.Context, ticketID, userID uint64, isAdmin bool) (model.Ticket, error) {
			assert.False(t, isAdmin)
			return model.Ticket{}, service.ErrForbidden
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/tickets/5/cancel", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 777, "user")
	c.SetParamNames("id")
	c.SetParamValues("5")

	h := NewTicketHandler(svc)
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCancel_Success(t *testing.T) {
	svc := &mockTicketService{
		cancelFn: func(ctx context.Context, ticketID, userID uint64, isAdmin bool) (model.Ticket, error) {
			return model.Ticket{ID: ticketID, UserID: userID, Status: model.TicketCancelled}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodPut, "/api/tickets/5/cancel", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 9, "user")
	c.SetParamNames("id")
	c.SetParamValues("5")

	h := NewTicketHandler(svc)
	require.NoError(t, h.Cancel(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp model.Ticket
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, model.TicketCancelled, resp.Status)
}

func TestGetByPNR_Found(t *testing.T) {
	svc := &mockTicketService{
		getPNRFn: func(ctx context.Context, pnr string) (model.Ticket, model.Schedule, error) {
			assert.Equal(t, "AB12CD34EF", pnr)
			return model.Ticket{ID: 1, PNR: pnr, Status: model.TicketConfirmed},
				model.Schedule{ID: 3, SourceStation: "Delhi", DestStation: "Mumbai"}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tickets/pnr/ab12cd34ef", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("pnr")
	c.SetParamValues("ab12cd34ef") // lower case input is normalized

	h := NewTicketHandler(svc)
	require.NoError(t, h.GetByPNR(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ticket"`)
	assert.Contains(t, rec.Body.String(), `"schedule"`)
}

func TestGetByPNR_NotFound(t *testing.T) {
	svc := &mockTicketService{
		getPNRFn: func(ctx context.Context, pnr string) (model.Ticket, model.Schedule, error) {
			return model.Ticket{}, model.Schedule{}, service.ErrTicketNotFound
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tickets/pnr/NOPE123456", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("pnr")
	c.SetParamValues("NOPE123456")

	h := NewTicketHandler(svc)
	require.NoError(t, h.GetByPNR(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestList_AdminSeesAll(t *testing.T) {
	svc := &mockTicketService{
		listAllFn: func(ctx context.Context) ([]model.Ticket, error) {
			return []model.Ticket{{ID: 1}, {ID: 2}, {ID: 3}}, nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/tickets", nil)
	rec := httptest.NewRecorder()
	c := authedContext(e, req, rec, 1, "admin")

	h := NewTicketHandler(svc)
	require.NoError(t, h.List(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Tickets []model.Ticket `json:"tickets"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp.Tickets, 3)
}
