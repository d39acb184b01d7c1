package wizard

import "errors"

var (
	// ErrSessionNotFound is returned when the session is unknown or expired.
	ErrSessionNotFound = errors.New("wizard session not found")

	// ErrInvalidStep is returned when the input does not fit the current step.
	ErrInvalidStep = errors.New("input does not match current wizard step")

	// ErrServiceNotFound is returned when the picked service is not in the catalogue.
	ErrServiceNotFound = errors.New("service not found")

	// ErrSlotUnavailable is returned when the picked slot is not offered or taken.
	ErrSlotUnavailable = errors.New("slot is not available")

	// ErrSessionFinished is returned for moves on a completed session.
	ErrSessionFinished = errors.New("wizard session already finished")

	// ErrInvalidInput is returned for malformed input.
	ErrInvalidInput = errors.New("invalid input data")
)
