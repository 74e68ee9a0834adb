package auth

import (
	"errors"
	"time"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrEmailDomainNotAllowed = errors.New("email domain not allowed")
)

type AccessClaims struct {
	UserID    string
	Email     string
	ExpiresAt time.Time
}
