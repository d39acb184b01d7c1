package commit_booking

import "errors"

var (
	// ErrSlotUnavailable is returned when the chosen slot was taken
	// while the wizard was open.
	ErrSlotUnavailable = errors.New("slot is not available")

	// ErrPaymentFailed is returned when the charge is declined or the
	// payment provider cannot be reached. No booking row survives it.
	ErrPaymentFailed = errors.New("payment failed")

	// ErrInvalidInput is returned for malformed requests.
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal wraps unexpected failures.
	ErrInternal = errors.New("usecase: internal error")
)
