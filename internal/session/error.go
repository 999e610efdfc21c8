package session

import "errors"

var (
	ErrUnknownRole               = errors.New("unknown staff role")
	ErrInvalidIdentificationMode = errors.New("invalid identification mode")
	ErrSessionNotFound           = errors.New("session not found")
)
