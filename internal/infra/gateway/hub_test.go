package gateway

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	checkoutuc "github.com/akshay1332/naves-luxury-store-sub000/internal/usecase/checkout"
)

const testSecret = "test_secret"

func signedPayload(intentID, paymentID string) checkoutuc.SignedPayload {
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write([]byte(intentID + "|" + paymentID))
	return checkoutuc.SignedPayload{
		IntentID:  intentID,
		PaymentID: paymentID,
		Signature: hex.EncodeToString(mac.Sum(nil)),
	}
}

func newTestAdapter() (*Adapter, *ConfirmationHub) {
	hub := NewConfirmationHub()
	client := NewClient("https://gateway.example", "key_id", testSecret, nil)
	return NewAdapter(client, hub), hub
}

func TestConfirm_ResolvedWithValidSignature(t *testing.T) {
	adapter, hub := newTestAdapter()

	done := make(chan struct{})
	var conf checkoutuc.Confirmation
	var confErr error
	go func() {
		defer close(done)
		conf, confErr = adapter.Confirm(context.Background(), "intent_1", checkoutuc.Prefill{})
	}()

	// Wait for the checkout goroutine to register its intent.
	require.Eventually(t, func() bool {
		return hub.Resolve("intent_1", signedPayload("intent_1", "pay_1")) == nil
	}, time.Second, 5*time.Millisecond)

	<-done
	require.NoError(t, confErr)
	require.False(t, conf.Cancelled)
	require.Equal(t, "pay_1", conf.Payload.PaymentID)
}

func TestConfirm_BadSignatureRejected(t *testing.T) {
	adapter, hub := newTestAdapter()

	done := make(chan error, 1)
	go func() {
		_, err := adapter.Confirm(context.Background(), "intent_1", checkoutuc.Prefill{})
		done <- err
	}()

	payload := signedPayload("intent_1", "pay_1")
	payload.Signature = "forged"
	require.Eventually(t, func() bool {
		return hub.Resolve("intent_1", payload) == nil
	}, time.Second, 5*time.Millisecond)

	require.ErrorIs(t, <-done, ErrSignatureMismatch)
}

func TestConfirm_Cancelled(t *testing.T) {
	adapter, hub := newTestAdapter()

	done := make(chan struct{})
	var conf checkoutuc.Confirmation
	var confErr error
	go func() {
		defer close(done)
		conf, confErr = adapter.Confirm(context.Background(), "intent_1", checkoutuc.Prefill{})
	}()

	require.Eventually(t, func() bool {
		return hub.Cancel("intent_1") == nil
	}, time.Second, 5*time.Millisecond)

	<-done
	require.NoError(t, confErr)
	require.True(t, conf.Cancelled)
}

func TestConfirm_ContextCancellationUnblocks(t *testing.T) {
	adapter, _ := newTestAdapter()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := adapter.Confirm(ctx, "intent_1", checkoutuc.Prefill{})
		done <- err
	}()

	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
}

func TestHub_UnknownIntent(t *testing.T) {
	hub := NewConfirmationHub()

	require.ErrorIs(t, hub.Resolve("nope", checkoutuc.SignedPayload{}), ErrUnknownIntent)
	require.ErrorIs(t, hub.Cancel("nope"), ErrUnknownIntent)
}

func TestHub_PendingIntentTracksUser(t *testing.T) {
	adapter, hub := newTestAdapter()

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = adapter.Confirm(context.Background(), "intent_1", checkoutuc.Prefill{UserID: 100})
	}()

	require.Eventually(t, func() bool {
		id, ok := hub.PendingIntent(100)
		return ok && id == "intent_1"
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, hub.Cancel("intent_1"))
	<-done

	_, ok := hub.PendingIntent(100)
	require.False(t, ok, "pending index must be cleared once resolved")
}

type recordingReconciler struct {
	mu      sync.Mutex
	flagged []checkoutuc.Reconciliation
}

func (r *recordingReconciler) Flag(ctx context.Context, rec checkoutuc.Reconciliation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.flagged = append(r.flagged, rec)
	return nil
}

func (r *recordingReconciler) all() []checkoutuc.Reconciliation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]checkoutuc.Reconciliation(nil), r.flagged...)
}

func TestResolve_OrphanConfirmationFlaggedForReconciliation(t *testing.T) {
	adapter, hub := newTestAdapter()
	store := &recordingReconciler{}
	adapter.FlagOrphans(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	// No checkout is waiting on this intent: its request already ended.
	err := hub.Resolve("intent_gone", signedPayload("intent_gone", "pay_9"))
	require.ErrorIs(t, err, ErrUnknownIntent)

	flagged := store.all()
	require.Len(t, flagged, 1)
	require.Equal(t, "intent_gone", flagged[0].IntentID)
	require.Equal(t, "pay_9", flagged[0].PaymentID)
}

func TestResolve_OrphanWithBadSignatureNotFlagged(t *testing.T) {
	adapter, hub := newTestAdapter()
	store := &recordingReconciler{}
	adapter.FlagOrphans(store, slog.New(slog.NewTextHandler(io.Discard, nil)))

	payload := signedPayload("intent_gone", "pay_9")
	payload.Signature = "forged"
	require.ErrorIs(t, hub.Resolve("intent_gone", payload), ErrUnknownIntent)

	// Cancellations carry no payment either way.
	require.ErrorIs(t, hub.Cancel("intent_gone"), ErrUnknownIntent)

	require.Empty(t, store.all())
}

func TestHub_OnlyOneResolutionWins(t *testing.T) {
	hub := NewConfirmationHub()
	hub.register("intent_1", 0)

	var wg sync.WaitGroup
	results := make(chan error, 2)
	wg.Add(2)
	go func() {
		defer wg.Done()
		results <- hub.Resolve("intent_1", signedPayload("intent_1", "pay_1"))
	}()
	go func() {
		defer wg.Done()
		results <- hub.Cancel("intent_1")
	}()
	wg.Wait()
	close(results)

	var succeeded, failed int
	for err := range results {
		if err == nil {
			succeeded++
		} else {
			failed++
		}
	}
	require.Equal(t, 1, succeeded)
	require.Equal(t, 1, failed)
}
