package domain

import "errors"

// Error kinds shared by every module. Callers wrap them with the entity id and
// the attempted operation and match them with errors.Is.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrNoMatch           = errors.New("no eligible worker")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrStorage           = errors.New("storage error")
	ErrForbidden         = errors.New("forbidden")
)
