package coachservice

import "errors"

var (
	// ErrCoachNotFound is returned when the coach does not exist or is deactivated.
	ErrCoachNotFound = errors.New("coach not found")

	// ErrServiceNotFound is returned when the requested service is not in the coach's catalogue.
	ErrServiceNotFound = errors.New("coach service not found")

	// ErrInternal is returned on client-side failures.
	ErrInternal = errors.New("coachservice client: internal error")

	// ErrInvalidResponse is returned when CoachService answers with something unexpected.
	ErrInvalidResponse = errors.New("coachservice client: invalid response")
)
