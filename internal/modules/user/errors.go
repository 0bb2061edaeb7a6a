package user

import "errors"

var ErrUserNotFound = errors.New("user not found")

// ValidationError lists per-field reasons.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}
