package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"storefront-api/internal/config"
	"storefront-api/pkg/logging"
)

// PaystackService talks to the payment provider. Exactly two calls are
// made: initialize-transaction and verify-transaction.
type PaystackService struct {
	BaseURL   string
	SecretKey string

	httpClient *http.Client
}

// NewPaystackService creates a new Paystack service
func NewPaystackService() *PaystackService {
	return &PaystackService{
		BaseURL:   config.AppConfig.PaystackBaseURL,
		SecretKey: config.AppConfig.PaystackSecretKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// PaystackCustomer represents the buyer as reported by Paystack
type PaystackCustomer struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// PaystackTransaction represents a verified transaction
type PaystackTransaction struct {
	Status    string           `json:"status"` // "success" when paid
	Reference string           `json:"reference"`
	Amount    int64            `json:"amount"` // in subunits (kobo)
	Currency  string           `json:"currency"`
	PaidAt    string           `json:"paid_at"`
	Channel   string           `json:"channel"`
	Customer  PaystackCustomer `json:"customer"`
}

// PaystackAuthorization holds the hosted checkout session details
type PaystackAuthorization struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

type paystackEnvelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// InitializeTransaction creates a hosted checkout session. Amount is in
// currency subunits.
func (s *PaystackService) InitializeTransaction(email string, amount int64, reference, callbackURL string, metadata map[string]interface{}) (*PaystackAuthorization, error) {
	body := map[string]interface{}{
		"email":        email,
		"amount":       amount,
		"reference":    reference,
		"callback_url": callbackURL,
	}
	if metadata != nil {
		body["metadata"] = metadata
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequest("POST", s.BaseURL+"/transaction/initialize", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	env, err := s.do(req)
	if err != nil {
		return nil, err
	}

	var auth PaystackAuthorization
	if err := json.Unmarshal(env.Data, &auth); err != nil {
		return nil, fmt.Errorf("failed to parse initialize response: %w", err)
	}
	if auth.Reference == "" {
		auth.Reference = reference
	}
	return &auth, nil
}

// VerifyTransaction confirms a transaction reference server-side. It only
// succeeds when the provider reports the transaction itself as "success".
func (s *PaystackService) VerifyTransaction(reference string) (*PaystackTransaction, error) {
	req, err := http.NewRequest("GET", s.BaseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.SecretKey)

	env, err := s.do(req)
	if err != nil {
		return nil, err
	}

	var tx PaystackTransaction
	if err := json.Unmarshal(env.Data, &tx); err != nil {
		return nil, fmt.Errorf("failed to parse verify response: %w", err)
	}

	if tx.Status != "success" {
		logging.Infof("Transaction %s not successful: provider status %q", reference, tx.Status)
		return nil, ErrVerificationFailed
	}

	return &tx, nil
}

// do executes a request and decodes the Paystack response envelope. A
// provider-reported failure (status false) surfaces as ErrVerificationFailed;
// transport failures surface as ErrUpstream or ErrUpstreamTimeout.
func (s *PaystackService) do(req *http.Request) (*paystackEnvelope, error) {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError("paystack", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: paystack: read response: %v", ErrUpstream, err)
	}

	var env paystackEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: paystack: parse response: %v", ErrUpstream, err)
	}

	if resp.StatusCode >= 500 {
		logging.Errorf("Paystack error: status %d, message %q", resp.StatusCode, env.Message)
		return nil, fmt.Errorf("%w: paystack: status %d", ErrUpstream, resp.StatusCode)
	}

	if !env.Status {
		logging.Infof("Paystack declined request: %s", env.Message)
		return nil, fmt.Errorf("%w: %s", ErrVerificationFailed, env.Message)
	}

	return &env, nil
}

// classifyTransportError separates timeouts from other transport failures
func classifyTransportError(upstream string, err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return fmt.Errorf("%w: %s: %v", ErrUpstreamTimeout, upstream, err)
	}
	return fmt.Errorf("%w: %s: %v", ErrUpstream, upstream, err)
}
