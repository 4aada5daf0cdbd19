package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrPaymentCancelled means the user dismissed the gateway confirmation.
	// Nothing was written: no order, no coupon change, no cart mutation.
	ErrPaymentCancelled = errors.New("payment cancelled by user")
)

// GatewayError wraps intent-creation and confirmation failures. No order is
// written; the user may retry checkout.
type GatewayError struct {
	Op  string
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s: %v", e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// PersistenceError is an order-write failure before any payment was taken.
// Recoverable: the user can retry checkout from scratch.
type PersistenceError struct {
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order persistence failed: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// ConsistencyError is the severe case: the gateway confirmed an online
// payment but the order could not be persisted even after retries. The
// payment has been flagged for manual reconciliation; this must never be
// presented as an ordinary retryable failure.
type ConsistencyError struct {
	IntentID  string
	PaymentID string
	Err       error
}

func (e *ConsistencyError) Error() string {
	return fmt.Sprintf("payment %s captured for intent %s but order commit failed: %v",
		e.PaymentID, e.IntentID, e.Err)
}

func (e *ConsistencyError) Unwrap() error { return e.Err }
