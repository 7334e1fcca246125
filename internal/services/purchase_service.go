package services

import (
	"errors"
	"fmt"
	"strings"

	"storefront-api/internal/database"
	"storefront-api/internal/models"
	"storefront-api/pkg/logging"

	"gorm.io/gorm"
)

// The storefront sells a single product today. The price is the fallback
// when the provider does not echo the charged amount back.
const (
	DefaultProductID    = "ielts-manual"
	DefaultPriceSubunit = 500000 // NGN 5,000.00 in kobo
	DefaultCurrency     = "NGN"
)

// PurchaseService orchestrates purchase recording, linking, and
// entitlement checks
type PurchaseService struct {
	identity *IdentityService
}

// NewPurchaseService creates a new purchase service
func NewPurchaseService() *PurchaseService {
	return &PurchaseService{identity: NewIdentityService()}
}

// RecordPurchase inserts a completed purchase for a provider-verified
// transaction. UserID is always nil at creation, even when a confirmed
// account with the same email already exists; only the explicit linking
// step binds purchases to accounts. The provider reference is the
// idempotency key: recording the same reference twice returns the existing
// row instead of failing.
func (s *PurchaseService) RecordPurchase(tx *PaystackTransaction, name, email string) (*models.Purchase, error) {
	if existing, err := database.GetPurchaseByTransactionID(tx.Reference); err == nil {
		logging.Infof("Purchase for reference %s already recorded, returning existing row", tx.Reference)
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up purchase: %w", err)
	}

	amount := tx.Amount
	currency := tx.Currency
	if amount <= 0 {
		amount = DefaultPriceSubunit
	}
	if currency == "" {
		currency = DefaultCurrency
	}

	purchase := &models.Purchase{
		TransactionID: tx.Reference,
		Email:         email,
		Name:          name,
		ProductID:     DefaultProductID,
		Status:        models.StatusCompleted,
		Amount:        amount,
		Currency:      currency,
		UserID:        nil,
	}

	if err := database.CreatePurchase(purchase); err != nil {
		// A concurrent recorder may have won the unique index on the
		// reference; treat that as the idempotent replay it is.
		if existing, lookupErr := database.GetPurchaseByTransactionID(tx.Reference); lookupErr == nil {
			return existing, nil
		}
		return nil, fmt.Errorf("failed to store purchase: %w", err)
	}

	return purchase, nil
}

// LinkPurchases attaches all completed, unlinked purchases for the email to
// the account. Safe to call repeatedly; a second invocation links nothing
// and succeeds. Preconditions, all verified against the identity service
// regardless of what the caller claims: the account exists, its stored
// email equals the supplied one exactly, and its email is confirmed. Any
// failed precondition surfaces as ErrLinkingDenied with no rows touched.
func (s *PurchaseService) LinkPurchases(userID, email string) ([]models.Purchase, error) {
	account, err := s.identity.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if account.Email != email {
		logging.Infof("Link denied for %s: email does not match account %s", email, userID)
		return nil, fmt.Errorf("%w: email does not match user account", ErrLinkingDenied)
	}

	if account.EmailConfirmedAt == nil {
		logging.Infof("Link denied for %s: email not confirmed", userID)
		return nil, fmt.Errorf("%w: email must be confirmed before linking purchases", ErrLinkingDenied)
	}

	linked, err := database.LinkPurchasesToUser(email, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to link purchases: %w", err)
	}

	if len(linked) > 0 {
		refs := make([]string, 0, len(linked))
		for _, p := range linked {
			refs = append(refs, p.TransactionID)
		}
		logging.Infof("Linked %d purchase(s) to user %s: %s", len(linked), userID, strings.Join(refs, ", "))
	}

	return linked, nil
}

// CheckEntitlement reports whether the account may access the product's
// content. True only when a completed purchase for (user, product) exists.
func (s *PurchaseService) CheckEntitlement(userID, productID string) (bool, error) {
	return database.HasCompletedPurchase(userID, productID)
}
