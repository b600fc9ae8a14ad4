package domain

import "errors"

// Sentinel errors for the application.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized access")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")
	ErrCrypto       = errors.New("message payload could not be decrypted")
	ErrStore        = errors.New("message store failure")
	ErrDispatch     = errors.New("realtime delivery failed")
	ErrRateLimited  = errors.New("too many requests")
)
