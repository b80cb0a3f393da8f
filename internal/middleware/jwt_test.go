package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkalinic/travel-booking-api/internal/utils"
)

const testSecret = "test-secret"

func echoWith(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	g := e.Group("", mw...)
	g.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get("user_id"),
			"role":    c.Get("role"),
		})
	})
	return e
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	e := echoWith(JWTAuth(testSecret))

	tok, err := utils.NewAccessToken(testSecret, 5, "TRAVELER", 30)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+tok.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"user_id":5`)
	assert.Contains(t, rec.Body.String(), `"role":"TRAVELER"`)
}

func TestJWTAuthRejectsMissingOrBadToken(t *testing.T) {
	e := echoWith(JWTAuth(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Token signed with a different secret.
	other, err := utils.NewAccessToken("other-secret", 5, "TRAVELER", 30)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+other.Token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := echoWith(JWTAuth(testSecret), RequireRole("AGENT", "ADMIN"))

	agent, err := utils.NewAccessToken(testSecret, 1, "AGENT", 30)
	require.NoError(t, err)
	traveler, err := utils.NewAccessToken(testSecret, 2, "TRAVELER", 30)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+agent.Token)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+traveler.Token)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
