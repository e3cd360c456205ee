package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = errors.New("email already registered")
	ErrUserNotFound       = errors.New("user not found")
	ErrProfileNotFound    = errors.New("profile not found")
	ErrNoSession          = errors.New("no active session")
	ErrInvalidRole        = errors.New("invalid role")
	ErrInvalidSignUp      = errors.New("invalid sign up")
	ErrInvalidToken       = errors.New("invalid token")
)
