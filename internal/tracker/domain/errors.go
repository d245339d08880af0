package domain

import "errors"

var (
	// ErrNotFound is returned when a project or bug does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when a request is rejected for a missing
	// or invalid credential.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrDuplicateID is returned when the server rejects an insert because
	// the identifier is already taken.
	ErrDuplicateID = errors.New("duplicate id")

	ErrProjectIDRequired = errors.New("project id required")
	ErrTitleRequired     = errors.New("title required")
	ErrNameRequired      = errors.New("name required")
	ErrInvalidPriority   = errors.New("priority must be Low, Medium or High")
)
