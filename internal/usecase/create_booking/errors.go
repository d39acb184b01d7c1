package create_booking

import "errors"

var (
	// ErrCoachNotFound is returned when the coach does not exist or is deactivated.
	ErrCoachNotFound = errors.New("coach not found")

	// ErrServiceNotFound is returned when the service is not in the coach's catalogue.
	ErrServiceNotFound = errors.New("service not found")

	// ErrSlotUnavailable is returned when the requested slot is outside the
	// coach's availability or already taken by an active booking.
	ErrSlotUnavailable = errors.New("slot is not available")

	// ErrInvalidDate is returned for bookings in the past.
	ErrInvalidDate = errors.New("invalid booking date")

	// ErrInvalidInput is returned for malformed requests.
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal wraps unexpected failures.
	ErrInternal = errors.New("usecase: internal error")
)
