package order

import "errors"

var (
	ErrOrderNotFound     = errors.New("order not found")
	ErrInvalidStatus     = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("status transition not allowed")
	ErrInvalidPayment    = errors.New("invalid payment method")
	ErrInvalidAddress    = errors.New("invalid shipping address")
	ErrInconsistentTotal = errors.New("order amount breakdown does not add up")
)
