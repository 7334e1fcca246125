package services

import (
	"time"

	"storefront-api/internal/config"
	"storefront-api/pkg/logging"

	"github.com/google/uuid"
)

// AccountService provisions buyer accounts after a verified payment
type AccountService struct {
	identity *IdentityService
	redis    *RedisService
}

// NewAccountService creates a new account service
func NewAccountService() *AccountService {
	return &AccountService{
		identity: NewIdentityService(),
		redis:    NewRedisService(),
	}
}

// ProvisionResult is returned after a successful account creation
type ProvisionResult struct {
	Account *Account

	// CredentialToken retrieves the generated password exactly once via
	// the credentials endpoint.
	CredentialToken string
}

// Provision creates an account with a generated one-time password and
// stashes the credentials behind a single-use display token. The identity
// service sends its confirmation email during signup; the purchase stays
// unlinked until that confirmation lands.
func (s *AccountService) Provision(email, fullName string) (*ProvisionResult, error) {
	password, err := GeneratePassword()
	if err != nil {
		return nil, err
	}

	passwordChanged := false
	account, err := s.identity.SignUp(email, password, AccountMetadata{
		FullName:        fullName,
		PasswordChanged: &passwordChanged,
	})
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	ttl := time.Duration(config.AppConfig.CredentialTTLMinutes) * time.Minute
	err = s.redis.StoreCredentials(token, OneTimeCredentials{
		Email:    email,
		Password: password,
	}, ttl)
	if err != nil {
		// The account exists and the confirmation mail is out; the buyer
		// can still recover through a password reset.
		logging.Warnf("Failed to stash one-time credentials for %s: %v", email, err)
		return &ProvisionResult{Account: account}, nil
	}

	return &ProvisionResult{Account: account, CredentialToken: token}, nil
}
