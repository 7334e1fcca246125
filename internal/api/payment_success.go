package api

import (
	"errors"
	"net/http"

	"storefront-api/internal/config"
	"storefront-api/internal/models"
	"storefront-api/internal/response"
	"storefront-api/internal/services"
	"storefront-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// PaymentSuccessRequest represents the post-payment account setup request
type PaymentSuccessRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Reference string `json:"reference" binding:"required"`
}

// PaymentSuccessResponse represents the post-payment response. The
// credential token retrieves the generated password exactly once.
type PaymentSuccessResponse struct {
	Success         bool             `json:"success"`
	Purchase        *models.Purchase `json:"purchase"`
	AccountID       string           `json:"account_id,omitempty"`
	CredentialToken string           `json:"credential_token,omitempty"`
	Message         string           `json:"message"`
}

// PaymentSuccess records a verified purchase and provisions the buyer's
// account. The reference is re-verified with the payment provider before
// anything is written; the purchase row is created with no user attached,
// and linking happens later, after the account's email is confirmed.
// POST /api/payment/success
func PaymentSuccess(c *gin.Context) {
	var req PaymentSuccessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Name, email, and reference are required")
		return
	}

	paystack := services.NewPaystackService()
	tx, err := paystack.VerifyTransaction(req.Reference)
	if err != nil {
		logging.Errorf("Refusing to record purchase %s: verification failed: %v", req.Reference, err)
		response.ServiceErrorJSON(c, err)
		return
	}

	purchaseService := services.NewPurchaseService()
	purchase, err := purchaseService.RecordPurchase(tx, req.Name, req.Email)
	if err != nil {
		logging.Errorf("Failed to store purchase %s: %v", req.Reference, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to store purchase")
		return
	}

	accountService := services.NewAccountService()
	result, err := accountService.Provision(req.Email, req.Name)
	if err != nil {
		if errors.Is(err, services.ErrAccountExists) {
			// The purchase is recorded; linking will attach it to the
			// existing account on the next confirmed dashboard visit.
			logging.Infof("Account for %s already exists, purchase %s left unlinked", req.Email, req.Reference)
		} else {
			logging.Errorf("Account provisioning failed for %s: %v", req.Email, err)
		}
		response.ServiceErrorJSON(c, err)
		return
	}

	// Receipt delivery is best-effort
	if config.AppConfig.BrevoAPIKey != "" {
		brevo := services.NewBrevoService()
		if err := brevo.SendPurchaseReceipt(req.Email, req.Name, purchase.ProductID, purchase.TransactionID, purchase.Amount, purchase.Currency); err != nil {
			logging.Warnf("Failed to send receipt for %s: %v", req.Reference, err)
		}
	}

	c.JSON(http.StatusOK, PaymentSuccessResponse{
		Success:         true,
		Purchase:        purchase,
		AccountID:       result.Account.ID,
		CredentialToken: result.CredentialToken,
		Message:         "Purchase recorded successfully",
	})
}
