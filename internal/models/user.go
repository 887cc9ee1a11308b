package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// for registration
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=80,alphanum"`
	Email    string `json:"email" validate:"required,email,max=120"`
	Password string `json:"password" validate:"required,min=6,max=72"`
}

// for login
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Claims travel in the session cookie. UserID is zero for anonymous sessions.
type Claims struct {
	SessionID uuid.UUID `json:"sid"`
	UserID    int64     `json:"user_id,omitempty"`
	Username  string    `json:"username,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) IsAuthenticated() bool {
	return c != nil && c.UserID != 0
}
