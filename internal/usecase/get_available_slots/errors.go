package get_available_slots

import "errors"

var (
	// ErrCoachNotFound is returned when the coach does not exist or is deactivated.
	ErrCoachNotFound = errors.New("coach not found")

	// ErrServiceNotFound is returned when the service is not in the coach's catalogue.
	ErrServiceNotFound = errors.New("service not found")

	// ErrInvalidInput is returned for malformed requests.
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal wraps unexpected failures.
	ErrInternal = errors.New("usecase: internal error")
)
