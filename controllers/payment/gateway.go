package paymentControllers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Intent states reported by the card gateway.
const (
	IntentSucceeded             = "succeeded"
	IntentProcessing            = "processing"
	IntentRequiresAction        = "requires_action"
	IntentRequiresPaymentMethod = "requires_payment_method"
	IntentCanceled              = "canceled"
)

// Intent is the gateway-side object representing an in-progress attempt to
// collect a specific amount.
type Intent struct {
	ID           string            `json:"id"`
	ClientSecret string            `json:"client_secret"`
	Status       string            `json:"status"`
	Metadata     map[string]string `json:"metadata"`
}

// Gateway abstracts the card-payment provider. Any gateway with
// create/retrieve-intent semantics satisfies it.
type Gateway interface {
	CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*Intent, error)
	RetrieveIntent(ctx context.Context, intentID string) (*Intent, error)
}

// HTTPGateway talks to the provider's REST API. Amounts are in minor units
// (cents). Calls carry an explicit timeout; a timed-out call means "payment
// status unknown", never success.
type HTTPGateway struct {
	apiURL    string
	secretKey string
	client    *http.Client
}

// NewGatewayFromEnv reads PAYMENT_API_URL and PAYMENT_SECRET_KEY.
func NewGatewayFromEnv() (*HTTPGateway, error) {
	apiURL := os.Getenv("PAYMENT_API_URL")
	secretKey := os.Getenv("PAYMENT_SECRET_KEY")
	if apiURL == "" || secretKey == "" {
		return nil, fmt.Errorf("payment gateway configuration missing")
	}
	return &HTTPGateway{
		apiURL:    strings.TrimRight(apiURL, "/"),
		secretKey: secretKey,
		client:    &http.Client{Timeout: 15 * time.Second},
	}, nil
}

func (g *HTTPGateway) CreateIntent(ctx context.Context, amountMinor int64, currency string, metadata map[string]string) (*Intent, error) {
	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinor, 10))
	form.Set("currency", currency)
	for k, v := range metadata {
		form.Set("metadata["+k+"]", v)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.apiURL+"/v1/payment_intents", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+g.secretKey)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	return g.do(req)
}

func (g *HTTPGateway) RetrieveIntent(ctx context.Context, intentID string) (*Intent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.apiURL+"/v1/payment_intents/"+url.PathEscape(intentID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+g.secretKey)

	return g.do(req)
}

func (g *HTTPGateway) do(req *http.Request) (*Intent, error) {
	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", ErrGatewayUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: gateway returned %d: %s", ErrGatewayUnavailable, resp.StatusCode, string(body))
	}

	var intent Intent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, fmt.Errorf("%w: parsing response: %v", ErrGatewayUnavailable, err)
	}
	if intent.ID == "" {
		return nil, fmt.Errorf("%w: gateway returned empty intent id", ErrGatewayUnavailable)
	}
	return &intent, nil
}
