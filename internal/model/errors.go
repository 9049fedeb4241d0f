package model

import "errors"

// Sentinel errors shared by the store adapters and services. Callers match
// them with errors.Is to pick the HTTP status.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")
	ErrConflict   = errors.New("conflict")
)
