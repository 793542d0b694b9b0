package auth

import (
	"errors"
	"time"
)

var (
	// ErrInvalidCredentials is deliberately the only login failure:
	// callers must not be able to tell an unknown username from a
	// wrong password
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrAdminExists   = errors.New("admin already exists")
	ErrAdminNotFound = errors.New("admin not found")

	ErrMissingToken   = errors.New("missing token")
	ErrTokenMalformed = errors.New("malformed token")
	ErrTokenExpired   = errors.New("token expired")
)

type Admin struct {
	ID           int
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}
