package handler

import (
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"closetshop/pkg/errors"
	"closetshop/pkg/response"
)

// AuthHandler implements the admin console gate: one configured credential
// pair exchanged for a short-lived session token. This is a session gate,
// not an account system.
type AuthHandler struct {
	username string
	password string
	secret   []byte
	ttl      time.Duration
}

func NewAuthHandler(username, password, secret string, ttlSeconds int64) *AuthHandler {
	return &AuthHandler{
		username: username,
		password: password,
		secret:   []byte(secret),
		ttl:      time.Duration(ttlSeconds) * time.Second,
	}
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expires_in"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}
	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) == 1
	if h.username == "" || !userOK || !passOK {
		return response.Error(c, errors.Unauthorized("Invalid credentials", nil))
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "admin",
		"iat": now.Unix(),
		"exp": now.Add(h.ttl).Unix(),
	})

	signed, err := token.SignedString(h.secret)
	if err != nil {
		return response.Error(c, errors.Internal("Failed to issue session token", err))
	}

	return response.Success(c, loginResponse{
		Token:     signed,
		ExpiresIn: int64(h.ttl.Seconds()),
	})
}
