package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for signing in.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// LoginResponse returns the issued session token and the signed-in user.
type LoginResponse struct {
	AccessToken string    `json:"accessToken"`
	ExpiresAt   time.Time `json:"expiresAt"`
	User        User      `json:"user"`
}

// Session is the explicit signed-in state: created on login, removed on logout.
type Session struct {
	ID        string    `json:"id"`
	User      User      `json:"user"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// JWTClaims is the payload of session tokens.
type JWTClaims struct {
	SessionID string   `json:"sid"`
	UserID    string   `json:"uid"`
	Role      UserRole `json:"role"`
	jwt.RegisteredClaims
}
