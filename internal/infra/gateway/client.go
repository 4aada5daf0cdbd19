package gateway

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	checkoutuc "github.com/akshay1332/naves-luxury-store-sub000/internal/usecase/checkout"
)

var (
	ErrSignatureMismatch = errors.New("gateway signature mismatch")
	ErrMissingIntentID   = errors.New("gateway response missing intent id")
)

// Client talks to the payment gateway's server-side API. The interactive
// widget runs on the storefront; this client only creates intents and
// verifies the signed confirmations the widget produces.
type Client struct {
	baseURL string
	keyID   string
	secret  string
	http    *http.Client
}

func NewClient(baseURL, keyID, secret string, hc *http.Client) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		keyID:   keyID,
		secret:  secret,
		http:    hc,
	}
}

type createIntentRequest struct {
	Amount   int64  `json:"amount"` // minor units
	Currency string `json:"currency"`
}

type createIntentResponse struct {
	ID string `json:"id"`
}

var hundred = decimal.NewFromInt(100)

// CreateIntent registers a gateway-side order for the amount. The gateway
// API takes minor units (paise for INR).
func (c *Client) CreateIntent(ctx context.Context, amount decimal.Decimal, currency string) (string, error) {
	body := createIntentRequest{
		Amount:   amount.Mul(hundred).Round(0).IntPart(),
		Currency: currency,
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/orders", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(c.keyID, c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("gateway returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out createIntentResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.ID == "" {
		return "", ErrMissingIntentID
	}
	return out.ID, nil
}

// VerifySignature checks the HMAC-SHA256 the gateway computes over
// "<intent_id>|<payment_id>" with the API secret.
func (c *Client) VerifySignature(p checkoutuc.SignedPayload) error {
	mac := hmac.New(sha256.New, []byte(c.secret))
	mac.Write([]byte(p.IntentID + "|" + p.PaymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(p.Signature)) {
		return ErrSignatureMismatch
	}
	return nil
}
