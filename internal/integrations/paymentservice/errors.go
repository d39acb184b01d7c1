package paymentservice

import "errors"

var (
	// ErrPaymentDeclined is returned when PaymentService rejects the charge.
	ErrPaymentDeclined = errors.New("payment declined")

	// ErrInternal is returned on client-side failures.
	ErrInternal = errors.New("paymentservice client: internal error")

	// ErrInvalidResponse is returned when PaymentService answers with something unexpected.
	ErrInvalidResponse = errors.New("paymentservice client: invalid response")
)
