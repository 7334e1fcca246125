package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"storefront-api/internal/config"
	"storefront-api/internal/response"
	"storefront-api/internal/services"
	"storefront-api/pkg/logging"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// InitiatePaymentRequest represents initiate payment request
type InitiatePaymentRequest struct {
	Email    string                 `json:"email" binding:"required,email"`
	Amount   int64                  `json:"amount" binding:"required,gt=0"` // major currency units
	Metadata map[string]interface{} `json:"metadata"`
}

// InitiatePaymentResponse represents initiate payment response
type InitiatePaymentResponse struct {
	Success          bool   `json:"success"`
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
	Email            string `json:"email"`
	Amount           int64  `json:"amount"`
}

// InitiatePayment starts a hosted checkout session with the payment provider
// POST /api/payment/initiate
func InitiatePayment(c *gin.Context) {
	var req InitiatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Email and amount are required")
		return
	}

	if config.AppConfig.PaystackSecretKey == "" {
		logging.Errorf("Payment initiation attempted with no provider secret key configured")
		response.ErrorJSON(c, http.StatusInternalServerError, "Payment provider is not configured")
		return
	}

	redisService := services.NewRedisService()
	limited, err := redisService.CheckRateLimit(req.Email)
	if err != nil {
		logging.Errorf("Rate limit check failed for %s: %v", req.Email, err)
	} else if limited {
		response.ErrorJSON(c, http.StatusTooManyRequests, "Please wait before starting another checkout")
		return
	}

	reference := newPaymentReference()
	callbackURL := fmt.Sprintf("%s/payment/success?reference=%s", config.AppConfig.AppBaseURL, reference)

	paystack := services.NewPaystackService()
	// Provider expects the amount in subunits
	auth, err := paystack.InitializeTransaction(req.Email, req.Amount*100, reference, callbackURL, req.Metadata)
	if err != nil {
		logging.Errorf("Payment initiation failed for %s: %v", req.Email, err)
		response.ServiceErrorJSON(c, err)
		return
	}

	if err := redisService.SetRateLimit(req.Email, config.AppConfig.RateLimitMinutes); err != nil {
		logging.Errorf("Failed to set rate limit for %s: %v", req.Email, err)
	}

	c.JSON(http.StatusOK, InitiatePaymentResponse{
		Success:          true,
		AuthorizationURL: auth.AuthorizationURL,
		AccessCode:       auth.AccessCode,
		Reference:        auth.Reference,
		Email:            req.Email,
		Amount:           req.Amount,
	})
}

// newPaymentReference builds a unique provider reference
func newPaymentReference() string {
	frag := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
	return fmt.Sprintf("ref_%d_%s", time.Now().UnixMilli(), frag)
}
