package paymentservice

// ChargeRequest describes a single debit.
type ChargeRequest struct {
	Amount         float64 `json:"amount"`
	Currency       string  `json:"currency"`
	PayerRef       string  `json:"payer_ref"`
	IdempotencyKey string  `json:"-"`
	Description    string  `json:"description,omitempty"`
}

// PaymentReference identifies a completed charge.
type PaymentReference struct {
	ID       string  `json:"id"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
	Status   string  `json:"status"`
}

// ErrorResponse is PaymentService's error envelope.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
