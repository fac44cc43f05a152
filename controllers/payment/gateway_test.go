package paymentControllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGateway(url string) *HTTPGateway {
	return &HTTPGateway{
		apiURL:    url,
		secretKey: "sk_test_123",
		client:    &http.Client{Timeout: 2 * time.Second},
	}
}

func TestHTTPGateway_CreateIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/payment_intents", r.URL.Path)
		assert.Equal(t, "Bearer sk_test_123", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("Idempotency-Key"))

		require.NoError(t, r.ParseForm())
		assert.Equal(t, "2550", r.PostFormValue("amount"))
		assert.Equal(t, "usd", r.PostFormValue("currency"))
		assert.Equal(t, "7", r.PostFormValue("metadata[payment_id]"))

		json.NewEncoder(w).Encode(map[string]any{
			"id":            "pi_123",
			"client_secret": "pi_123_secret",
			"status":        "requires_payment_method",
			"metadata":      map[string]string{"payment_id": "7"},
		})
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL)
	intent, err := gw.CreateIntent(context.Background(), 2550, "usd", map[string]string{"payment_id": "7"})
	require.NoError(t, err)
	assert.Equal(t, "pi_123", intent.ID)
	assert.Equal(t, "pi_123_secret", intent.ClientSecret)
	assert.Equal(t, IntentRequiresPaymentMethod, intent.Status)
}

func TestHTTPGateway_RetrieveIntent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/payment_intents/pi_123", r.URL.Path)

		json.NewEncoder(w).Encode(map[string]any{
			"id":       "pi_123",
			"status":   "succeeded",
			"metadata": map[string]string{"payment_id": "7"},
		})
	}))
	defer srv.Close()

	gw := newTestGateway(srv.URL)
	intent, err := gw.RetrieveIntent(context.Background(), "pi_123")
	require.NoError(t, err)
	assert.Equal(t, IntentSucceeded, intent.Status)
	assert.Equal(t, "7", intent.Metadata["payment_id"])
}

func TestHTTPGateway_ErrorsAreGatewayUnavailable(t *testing.T) {
	t.Run("non-200 response", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"internal"}`, http.StatusInternalServerError)
		}))
		defer srv.Close()

		_, err := newTestGateway(srv.URL).RetrieveIntent(context.Background(), "pi_123")
		assert.ErrorIs(t, err, ErrGatewayUnavailable)
	})

	t.Run("unreachable host", func(t *testing.T) {
		_, err := newTestGateway("http://127.0.0.1:1").RetrieveIntent(context.Background(), "pi_123")
		assert.ErrorIs(t, err, ErrGatewayUnavailable)
	})
}
