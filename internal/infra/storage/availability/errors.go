package availability

import "errors"

var (
	// ErrRuleNotFound is returned when no availability rule matches.
	ErrRuleNotFound = errors.New("availability.repository: rule not found")

	// ErrBlackoutNotFound is returned when no blackout matches.
	ErrBlackoutNotFound = errors.New("availability.repository: blackout not found")

	// ErrBuildQuery is returned when building the SQL query fails.
	ErrBuildQuery = errors.New("availability.repository: failed to build query")

	// ErrExecQuery is returned when executing the SQL query fails.
	ErrExecQuery = errors.New("availability.repository: failed to execute query")

	// ErrScanRow is returned when scanning a result row fails.
	ErrScanRow = errors.New("availability.repository: failed to scan row")
)
