package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railgo/train-booking-api/internal/config"
)

func postJSON(e *echo.Echo, path, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegister_MissingFields(t *testing.T) {
	e := echo.New()
	h := NewAuthHandler(config.Config{}, nil, nil)

	cases := []struct {
		name string
		body string
	}{
		{"empty body", `{}`},
		{"no username", `{"email":"a@b.com","password":"secret1","full_name":"A B"}`},
		{"no email", `{"username":"ab","password":"secret1","full_name":"A B"}`},
		{"no password", `{"username":"ab","email":"a@b.com","full_name":"A B"}`},
		{"no full name", `{"username":"ab","email":"a@b.com","password":"secret1"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := postJSON(e, "/api/auth/register", tc.body)
			require.NoError(t, h.Register(c))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestRegister_InvalidEmail(t *testing.T) {
	e := echo.New()
	h := NewAuthHandler(config.Config{}, nil, nil)

	c, rec := postJSON(e, "/api/auth/register",
		`{"username":"ab","email":"not-an-email","password":"secret1","full_name":"A B"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email")
}

func TestRegister_ShortPassword(t *testing.T) {
	e := echo.New()
	h := NewAuthHandler(config.Config{}, nil, nil)

	c, rec := postJSON(e, "/api/auth/register",
		`{"username":"ab","email":"a@b.com","password":"abc","full_name":"A B"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "password")
}

func TestLogin_MissingCredentials(t *testing.T) {
	e := echo.New()
	h := NewAuthHandler(config.Config{}, nil, nil)

	c, rec := postJSON(e, "/api/auth/login", `{"username":"ab"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRefresh_MissingToken(t *testing.T) {
	e := echo.New()
	h := NewAuthHandler(config.Config{}, nil, nil)

	c, rec := postJSON(e, "/api/auth/refresh", `{}`)
	require.NoError(t, h.Refresh(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "refresh_token")
}
