package repositories

import "errors"

var (
	// ErrNotFound is returned when a record does not exist or its id is malformed.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateUsername is returned when a user with the same username already exists.
	ErrDuplicateUsername = errors.New("username already registered")
)
