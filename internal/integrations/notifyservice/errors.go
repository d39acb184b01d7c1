package notifyservice

import "errors"

var (
	// ErrInternal is returned on client-side failures.
	ErrInternal = errors.New("notifyservice client: internal error")

	// ErrInvalidResponse is returned when NotifyService answers with something unexpected.
	ErrInvalidResponse = errors.New("notifyservice client: invalid response")
)
