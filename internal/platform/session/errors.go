package session

import "errors"

var (
	ErrSessionNotFound    = errors.New("session not found")
	ErrSessionExpired     = errors.New("session expired")
	ErrInvalidToken       = errors.New("invalid or expired session token")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnsealFailed       = errors.New("failed to open session cookies")
)
