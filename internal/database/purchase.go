package database

import (
	"storefront-api/internal/models"
	"storefront-api/pkg/logging"

	"gorm.io/gorm"
)

// CreatePurchase inserts a purchase row
func CreatePurchase(purchase *models.Purchase) error {
	return DB.Create(purchase).Error
}

// GetPurchaseByTransactionID looks up a purchase by its provider reference
func GetPurchaseByTransactionID(transactionID string) (*models.Purchase, error) {
	var purchase models.Purchase
	err := DB.Where("transaction_id = ?", transactionID).First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// GetUserPurchases returns all completed purchases for a user, newest first
func GetUserPurchases(userID string) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := DB.Where("user_id = ? AND status = ?", userID, models.StatusCompleted).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}

// HasCompletedPurchase reports whether the user owns a completed purchase
// for the product. This is the entitlement check; it is evaluated on every
// request, never cached.
func HasCompletedPurchase(userID, productID string) (bool, error) {
	var count int64
	err := DB.Model(&models.Purchase{}).
		Where("user_id = ? AND product_id = ? AND status = ?",
			userID, productID, models.StatusCompleted).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindUnlinkedPurchases returns completed purchases for an email that have
// not been attached to any account yet
func FindUnlinkedPurchases(email string) ([]models.Purchase, error) {
	var purchases []models.Purchase
	err := DB.Where("email = ? AND user_id IS NULL AND status = ?",
		email, models.StatusCompleted).
		Find(&purchases).Error
	return purchases, err
}

// LinkPurchasesToUser attaches every completed, unlinked purchase matching
// the email to the given account in one bulk update. The match predicate is
// re-evaluated inside the UPDATE itself, so two concurrent callers cannot
// link the same row twice; one of them simply updates zero rows. Returns the
// rows that this call linked.
func LinkPurchasesToUser(email, userID string) ([]models.Purchase, error) {
	var linked []models.Purchase

	err := DB.Transaction(func(tx *gorm.DB) error {
		// Lock candidate rows for the duration of the transaction
		var candidates []models.Purchase
		err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where("email = ? AND user_id IS NULL AND status = ?",
				email, models.StatusCompleted).
			Find(&candidates).Error
		if err != nil {
			return err
		}

		if len(candidates) == 0 {
			// Nothing to link; a normal outcome on repeat invocations
			return nil
		}

		ids := make([]uint, 0, len(candidates))
		for _, p := range candidates {
			ids = append(ids, p.ID)
		}

		// The predicate is repeated here on purpose: the update only
		// touches rows that are still unlinked and completed.
		result := tx.Model(&models.Purchase{}).
			Where("id IN ? AND user_id IS NULL AND status = ?",
				ids, models.StatusCompleted).
			Update("user_id", userID)
		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected != int64(len(ids)) {
			logging.Infof("Linked %d of %d candidate purchases for %s (concurrent linker won the rest)",
				result.RowsAffected, len(ids), email)
		}

		return tx.Where("id IN ? AND user_id = ?", ids, userID).
			Find(&linked).Error
	})
	if err != nil {
		return nil, err
	}

	return linked, nil
}
