package api

import (
	"fmt"
	"net/http"

	"storefront-api/internal/response"
	"storefront-api/internal/services"
	"storefront-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// LinkPurchasesRequest represents link purchases request
type LinkPurchasesRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Email  string `json:"email" binding:"required,email"`
}

// LinkedPurchase identifies one purchase attached by a link call
type LinkedPurchase struct {
	ID            uint   `json:"id"`
	TransactionID string `json:"transaction_id"`
}

// LinkPurchasesResponse represents link purchases response
type LinkPurchasesResponse struct {
	Success     bool             `json:"success"`
	LinkedCount int              `json:"linked_count"`
	Purchases   []LinkedPurchase `json:"purchases,omitempty"`
	Message     string           `json:"message"`
}

// LinkPurchases attaches completed, unlinked purchases for a confirmed
// email to its account. Idempotent: a repeat call links nothing and still
// succeeds. Clients call this once per session on first dashboard load, but
// that guard is advisory; this endpoint is the actual safety net.
// POST /api/purchases/link
func LinkPurchases(c *gin.Context) {
	var req LinkPurchasesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorJSON(c, http.StatusBadRequest, "User ID and email are required")
		return
	}

	purchaseService := services.NewPurchaseService()
	linked, err := purchaseService.LinkPurchases(req.UserID, req.Email)
	if err != nil {
		logging.Errorf("Purchase linking failed for user %s: %v", req.UserID, err)
		response.ServiceErrorJSON(c, err)
		return
	}

	resp := LinkPurchasesResponse{
		Success:     true,
		LinkedCount: len(linked),
		Message:     fmt.Sprintf("Successfully linked %d purchase(s)", len(linked)),
	}
	if len(linked) == 0 {
		resp.Message = "No purchases found to link"
	}
	for _, p := range linked {
		resp.Purchases = append(resp.Purchases, LinkedPurchase{
			ID:            p.ID,
			TransactionID: p.TransactionID,
		})
	}

	c.JSON(http.StatusOK, resp)
}
