package auth

import "errors"

var (
	ErrMissingCredentials = errors.New("please enter both employee ID and password")
	ErrInvalidCredentials = errors.New("invalid employee ID or password")
	ErrMissingSecret      = errors.New("jwt secret is not set")
	ErrInvalidToken       = errors.New("invalid token")
)
