package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closetshop/internal/adapter/api"
)

const testSecret = "test-session-secret"

func loginContext(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/v1/admin/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestLoginIssuesSessionToken(t *testing.T) {
	e := echo.New()
	e.Validator = api.NewValidator()
	h := NewAuthHandler("admin", "hunter2", testSecret, 3600)

	c, rec := loginContext(e, `{"username":"admin","password":"hunter2"}`)
	require.NoError(t, h.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			Token     string `json:"token"`
			ExpiresIn int64  `json:"expires_in"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, int64(3600), body.Data.ExpiresIn)

	token, err := jwt.Parse(body.Data.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "admin", claims["sub"])
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e := echo.New()
	e.Validator = api.NewValidator()
	h := NewAuthHandler("admin", "hunter2", testSecret, 3600)

	c, rec := loginContext(e, `{"username":"admin","password":"wrong"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	c, rec = loginContext(e, `{"username":"intruder","password":"hunter2"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsWhenNoCredentialConfigured(t *testing.T) {
	e := echo.New()
	e.Validator = api.NewValidator()
	h := NewAuthHandler("", "", testSecret, 3600)

	c, rec := loginContext(e, `{"username":"x","password":"y"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginRejectsMissingFields(t *testing.T) {
	e := echo.New()
	e.Validator = api.NewValidator()
	h := NewAuthHandler("admin", "hunter2", testSecret, 3600)

	c, rec := loginContext(e, `{"username":"admin"}`)
	require.NoError(t, h.Login(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
