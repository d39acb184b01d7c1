package availability

import "errors"

var (
	// ErrRuleNotFound is returned when the rule does not belong to the coach.
	ErrRuleNotFound = errors.New("availability rule not found")

	// ErrAccessDenied is returned when the caller is not the coach.
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidInput is returned for malformed rules or blackouts.
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal wraps unexpected failures.
	ErrInternal = errors.New("service: internal error")
)
