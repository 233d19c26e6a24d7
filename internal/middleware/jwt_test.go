package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/railgo/train-booking-api/internal/utils"
)

const testSecret = "test-secret"

func runProtected(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := JWTAuth(testSecret)(func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	require.NoError(t, h(c))
	return rec, c
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	rec, _ := runProtected(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestJWTAuth_MalformedToken(t *testing.T) {
	rec, _ := runProtected(t, "Bearer not.a.jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	at, err := utils.NewAccessToken("other-secret", 7, "user", 15)
	require.NoError(t, err)

	rec, _ := runProtected(t, "Bearer "+at.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAuth_ValidTokenInjectsIdentity(t *testing.T) {
	at, err := utils.NewAccessToken(testSecret, 7, "admin", 15)
	require.NoError(t, err)

	rec, c := runProtected(t, "Bearer "+at.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, uint64(7), c.Get(CtxUserID))
	assert.Equal(t, "admin", c.Get(CtxRole))
}

func TestRequireRole(t *testing.T) {
	e := echo.New()
	next := func(c echo.Context) error { return c.String(http.StatusOK, "ok") }

	cases := []struct {
		name string
		role interface{}
		want int
	}{
		{"admin allowed", "admin", http.StatusOK},
		{"user rejected", "user", http.StatusForbidden},
		{"missing role rejected", nil, http.StatusForbidden},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)
			if tc.role != nil {
				c.Set(CtxRole, tc.role)
			}
			require.NoError(t, RequireRole("admin")(next)(c))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
