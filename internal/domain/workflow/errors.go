package workflow

import "errors"

var (
	// ErrUnauthorized is returned when the actor lacks the role required at
	// the request's current stage and is not an admin.
	ErrUnauthorized = errors.New("not authorized for this stage")

	// ErrInvalidState is returned when an action targets a terminal request
	// or the request's stage moved on under a concurrent action.
	ErrInvalidState = errors.New("invalid request state")

	// ErrValidation is returned when required input is missing or malformed.
	ErrValidation = errors.New("validation failed")

	// ErrConfiguration is returned when a stored workflow definition cannot
	// be used. Callers recover by falling back to the built-in default chain.
	ErrConfiguration = errors.New("workflow configuration error")

	// ErrNotFound is returned when a record does not exist.
	ErrNotFound = errors.New("not found")
)
