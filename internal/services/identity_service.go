package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront-api/internal/config"
	"storefront-api/pkg/logging"
)

// IdentityService is the client for the external accounts service. Accounts,
// sessions and email confirmation all live there; this service only reads
// users and creates them.
type IdentityService struct {
	BaseURL    string
	AnonKey    string
	ServiceKey string

	httpClient *http.Client
}

// NewIdentityService creates a new identity service client
func NewIdentityService() *IdentityService {
	return &IdentityService{
		BaseURL:    config.AppConfig.IdentityURL,
		AnonKey:    config.AppConfig.IdentityAnonKey,
		ServiceKey: config.AppConfig.IdentityServiceKey,
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// AccountMetadata is the typed profile attached to an account. The identity
// service stores it as free-form metadata; we only read and write these
// named fields.
type AccountMetadata struct {
	FullName        string `json:"full_name,omitempty"`
	PasswordChanged *bool  `json:"password_changed,omitempty"`
}

// Account represents a user in the identity service
type Account struct {
	ID                 string          `json:"id"`
	Email              string          `json:"email"`
	EmailConfirmedAt   *time.Time      `json:"email_confirmed_at"`
	ConfirmationSentAt *time.Time      `json:"confirmation_sent_at"`
	UserMetadata       AccountMetadata `json:"user_metadata"`
}

type identityError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
}

func (e *identityError) text() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Message != "" {
		return e.Message
	}
	return e.ErrorDescription
}

// SignUp creates an account with the given password and profile metadata.
// The identity service sends its own confirmation email as part of signup.
// An existing account surfaces as ErrAccountExists.
func (s *IdentityService) SignUp(email, password string, metadata AccountMetadata) (*Account, error) {
	body := map[string]interface{}{
		"email":    email,
		"password": password,
		"data":     metadata,
	}

	jsonData, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal signup request: %w", err)
	}

	req, err := http.NewRequest("POST", s.BaseURL+"/auth/v1/signup", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", s.AnonKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError("identity", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: identity: read response: %v", ErrUpstream, err)
	}

	if resp.StatusCode != http.StatusOK {
		var ie identityError
		_ = json.Unmarshal(respBody, &ie)
		if isAccountExists(resp.StatusCode, ie.text()) {
			return nil, ErrAccountExists
		}
		logging.Errorf("Identity signup failed: status %d, message %q", resp.StatusCode, ie.text())
		return nil, fmt.Errorf("%w: identity: signup status %d", ErrUpstream, resp.StatusCode)
	}

	var account Account
	if err := json.Unmarshal(respBody, &account); err != nil {
		return nil, fmt.Errorf("%w: identity: parse signup response: %v", ErrUpstream, err)
	}

	if account.ConfirmationSentAt == nil {
		// The account exists but the confirmation mail never went out; the
		// user would be locked out of the linking flow.
		logging.Errorf("Identity signup for %s returned no confirmation_sent_at", email)
		return nil, fmt.Errorf("%w: identity: confirmation email not sent", ErrUpstream)
	}

	return &account, nil
}

// GetUserByToken resolves a bearer token to its account. Invalid or expired
// tokens surface as ErrUnauthenticated.
func (s *IdentityService) GetUserByToken(token string) (*Account, error) {
	req, err := http.NewRequest("GET", s.BaseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", s.AnonKey)
	req.Header.Set("Authorization", "Bearer "+token)

	return s.fetchAccount(req, true)
}

// GetUserByID fetches an account via the admin API using the service key
func (s *IdentityService) GetUserByID(userID string) (*Account, error) {
	req, err := http.NewRequest("GET", s.BaseURL+"/auth/v1/admin/users/"+userID, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", s.ServiceKey)
	req.Header.Set("Authorization", "Bearer "+s.ServiceKey)

	return s.fetchAccount(req, false)
}

func (s *IdentityService) fetchAccount(req *http.Request, authCall bool) (*Account, error) {
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, classifyTransportError("identity", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: identity: read response: %v", ErrUpstream, err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusNotFound {
		if authCall {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: account not found", ErrLinkingDenied)
	}
	if resp.StatusCode != http.StatusOK {
		logging.Errorf("Identity user lookup failed: status %d", resp.StatusCode)
		return nil, fmt.Errorf("%w: identity: status %d", ErrUpstream, resp.StatusCode)
	}

	var account Account
	if err := json.Unmarshal(respBody, &account); err != nil {
		return nil, fmt.Errorf("%w: identity: parse user response: %v", ErrUpstream, err)
	}
	if account.ID == "" {
		if authCall {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("%w: account not found", ErrLinkingDenied)
	}

	return &account, nil
}

// isAccountExists classifies the identity service's duplicate-user errors
func isAccountExists(status int, message string) bool {
	if status == http.StatusConflict {
		return true
	}
	msg := strings.ToLower(message)
	return strings.Contains(msg, "already registered") ||
		strings.Contains(msg, "already exists") ||
		strings.Contains(msg, "already been registered")
}
