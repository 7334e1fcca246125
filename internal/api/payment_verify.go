package api

import (
	"net/http"

	"storefront-api/internal/response"
	"storefront-api/internal/services"
	"storefront-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// VerifyPaymentRequest represents verify payment request
type VerifyPaymentRequest struct {
	Reference string `json:"reference" binding:"required"`
}

// VerifyPaymentResponse represents verify payment response
type VerifyPaymentResponse struct {
	Success     bool                          `json:"success"`
	Transaction *services.PaystackTransaction `json:"transaction,omitempty"`
	Message     string                        `json:"message"`
}

// VerifyPayment confirms a transaction reference with the payment provider
// POST /api/payment/verify
func VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "Reference is required")
		return
	}

	paystack := services.NewPaystackService()
	tx, err := paystack.VerifyTransaction(req.Reference)
	if err != nil {
		logging.Errorf("Payment verification failed for %s: %v", req.Reference, err)
		response.ServiceErrorJSON(c, err)
		return
	}

	c.JSON(http.StatusOK, VerifyPaymentResponse{
		Success:     true,
		Transaction: tx,
		Message:     "Payment verified successfully",
	})
}
