package paymentControllers

import "errors"

var (
	ErrUnsupportedMethod = errors.New("unsupported payment method")

	// ErrInvalidOrderAmount: the resolved amount must be a finite positive
	// number before anything is sent to the gateway.
	ErrInvalidOrderAmount = errors.New("invalid order amount")

	ErrOrderNotFound   = errors.New("order not found or not owned by user")
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrMetadataMismatch means the retrieved intent was not created for the
	// supplied payment id. Treated as a security rejection, never retried.
	ErrMetadataMismatch = errors.New("payment intent metadata mismatch")

	// ErrGatewayUnavailable: the gateway call itself failed. Distinct from a
	// declined payment so callers can tell the two apart. Never auto-retried
	// here; a retry could double-charge.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)
