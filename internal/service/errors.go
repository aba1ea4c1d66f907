package service

import "errors"

var (
	// ErrInvalidDataProvided is returned when a request payload fails
	// validation before any state change.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrWrongPassword is returned when login credentials do not match.
	ErrWrongPassword = errors.New("wrong email or password")
)
