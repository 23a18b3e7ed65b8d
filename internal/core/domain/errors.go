package domain

import "errors"

var (
	ErrProviderUnavailable = errors.New("provider unavailable")
	ErrNotFound            = errors.New("not found")
	ErrValidation          = errors.New("validation failure")
)
