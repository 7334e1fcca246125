package api

import (
	"net/http"

	"storefront-api/internal/database"
	"storefront-api/internal/response"
	"storefront-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// ListPurchases returns the session user's completed purchases, newest
// first. Requires bearer authentication.
// GET /api/purchases
func ListPurchases(c *gin.Context) {
	userID := c.GetString("user_id")

	purchases, err := database.GetUserPurchases(userID)
	if err != nil {
		logging.Errorf("Failed to list purchases for user %s: %v", userID, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to fetch purchases")
		return
	}

	response.SuccessJSON(c, purchases)
}
