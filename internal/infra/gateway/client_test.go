package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestCreateIntent_RoundsToWholeMinorUnits(t *testing.T) {
	var got createIntentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": "intent_1"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key_id", testSecret, server.Client())

	id, err := client.CreateIntent(context.Background(), decimal.RequireFromString("999.995"), "INR")

	require.NoError(t, err)
	require.Equal(t, "intent_1", id)
	// 99999.5 paise rounds to 100000; truncation would drop the half paisa.
	require.Equal(t, int64(100000), got.Amount)
	require.Equal(t, "INR", got.Currency)
}

func TestCreateIntent_MissingID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "key_id", testSecret, server.Client())

	_, err := client.CreateIntent(context.Background(), decimal.NewFromInt(100), "INR")
	require.ErrorIs(t, err, ErrMissingIntentID)
}
