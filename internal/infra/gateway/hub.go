package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	checkoutuc "github.com/akshay1332/naves-luxury-store-sub000/internal/usecase/checkout"
)

var (
	ErrUnknownIntent   = errors.New("no pending confirmation for intent")
	ErrAlreadyResolved = errors.New("confirmation already resolved")
)

// ConfirmationHub bridges the widget's callback world and the orchestrator's
// single awaited confirmation. Checkout registers the intent and blocks on
// its channel; the storefront's confirm/cancel callbacks resolve it.
type ConfirmationHub struct {
	mu      sync.Mutex
	pending map[string]chan checkoutuc.Confirmation
	byUser  map[int64]string
	orphan  func(checkoutuc.SignedPayload)
}

func NewConfirmationHub() *ConfirmationHub {
	return &ConfirmationHub{
		pending: make(map[string]chan checkoutuc.Confirmation),
		byUser:  make(map[int64]string),
	}
}

func (h *ConfirmationHub) register(intentID string, userID int64) chan checkoutuc.Confirmation {
	h.mu.Lock()
	defer h.mu.Unlock()
	ch := make(chan checkoutuc.Confirmation, 1)
	h.pending[intentID] = ch
	if userID != 0 {
		h.byUser[userID] = intentID
	}
	return ch
}

func (h *ConfirmationHub) drop(intentID string, userID int64) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.pending, intentID)
	if h.byUser[userID] == intentID {
		delete(h.byUser, userID)
	}
}

// PendingIntent lets the storefront poll for the intent its suspended
// checkout call is waiting on, so it can open the widget.
func (h *ConfirmationHub) PendingIntent(userID int64) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	id, ok := h.byUser[userID]
	return id, ok
}

func (h *ConfirmationHub) resolve(intentID string, conf checkoutuc.Confirmation) error {
	h.mu.Lock()
	ch, ok := h.pending[intentID]
	if !ok {
		orphan := h.orphan
		h.mu.Unlock()
		// A success payload with no waiter means the checkout request died
		// after the intent was created; the payment may still be captured.
		if orphan != nil && !conf.Cancelled {
			orphan(conf.Payload)
		}
		return ErrUnknownIntent
	}
	defer h.mu.Unlock()
	select {
	case ch <- conf:
		delete(h.pending, intentID)
		return nil
	default:
		return ErrAlreadyResolved
	}
}

// Resolve delivers a signed success payload to the waiting checkout.
func (h *ConfirmationHub) Resolve(intentID string, payload checkoutuc.SignedPayload) error {
	return h.resolve(intentID, checkoutuc.Confirmation{Payload: payload})
}

// Cancel delivers a widget dismissal to the waiting checkout.
func (h *ConfirmationHub) Cancel(intentID string) error {
	return h.resolve(intentID, checkoutuc.Confirmation{Cancelled: true})
}

// Adapter implements the orchestrator's PaymentGateway: intent creation via
// the API client, confirmation via the hub, signatures verified before a
// success is ever reported upward.
type Adapter struct {
	client *Client
	hub    *ConfirmationHub
}

func NewAdapter(client *Client, hub *ConfirmationHub) *Adapter {
	return &Adapter{client: client, hub: hub}
}

// FlagOrphans routes signed confirmations that arrive after their checkout
// request ended (client disconnect, server write timeout) into the
// reconciliation store, so a captured payment with no waiter is never lost.
func (a *Adapter) FlagOrphans(store checkoutuc.ReconciliationStore, log *slog.Logger) {
	a.hub.mu.Lock()
	defer a.hub.mu.Unlock()
	a.hub.orphan = func(p checkoutuc.SignedPayload) {
		if err := a.client.VerifySignature(p); err != nil {
			log.Warn("discarding orphan confirmation with bad signature",
				"intent_id", p.IntentID, "error", err)
			return
		}
		rec := checkoutuc.Reconciliation{
			IntentID:  p.IntentID,
			PaymentID: p.PaymentID,
			Reason:    "confirmation arrived after its checkout request ended",
		}
		if err := store.Flag(context.Background(), rec); err != nil {
			log.Error("CRITICAL: orphan confirmation could not be flagged for reconciliation",
				"intent_id", p.IntentID, "payment_id", p.PaymentID, "error", err)
			return
		}
		log.Error("orphan payment confirmation flagged for manual reconciliation",
			"intent_id", p.IntentID, "payment_id", p.PaymentID)
	}
}

func (a *Adapter) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (string, error) {
	return a.client.CreateIntent(ctx, amount, currency)
}

// Confirm suspends until the widget resolves or the context ends. A
// cancelled widget is a normal outcome; a payload that fails signature
// verification or names a different intent is an error.
func (a *Adapter) Confirm(ctx context.Context, intentID string, prefill checkoutuc.Prefill) (checkoutuc.Confirmation, error) {
	ch := a.hub.register(intentID, prefill.UserID)
	defer a.hub.drop(intentID, prefill.UserID)

	select {
	case <-ctx.Done():
		return checkoutuc.Confirmation{}, ctx.Err()
	case conf := <-ch:
		if conf.Cancelled {
			return conf, nil
		}
		if conf.Payload.IntentID != intentID {
			return checkoutuc.Confirmation{}, fmt.Errorf("confirmation for intent %s delivered to %s", conf.Payload.IntentID, intentID)
		}
		if err := a.client.VerifySignature(conf.Payload); err != nil {
			return checkoutuc.Confirmation{}, err
		}
		return conf, nil
	}
}
