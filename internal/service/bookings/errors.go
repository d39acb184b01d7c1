package bookings

import "errors"

var (
	// ErrBookingNotFound is returned when the booking does not exist.
	ErrBookingNotFound = errors.New("booking not found")

	// ErrAccessDenied is returned when the caller is neither the booking's
	// student nor its coach.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidTransition is returned when the status graph forbids the move.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrInvalidInput is returned for malformed requests.
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal wraps unexpected failures.
	ErrInternal = errors.New("service: internal error")
)
