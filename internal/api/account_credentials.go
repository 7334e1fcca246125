package api

import (
	"errors"
	"net/http"

	"storefront-api/internal/response"
	"storefront-api/internal/services"
	"storefront-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// OneTimeCredentialsResponse represents the single credential display
type OneTimeCredentialsResponse struct {
	Success  bool   `json:"success"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// GetOneTimeCredentials returns generated account credentials exactly once.
// The token expires on its own and is deleted on first read, so a replayed
// or stale token always gets a 404.
// GET /api/account/credentials?token=xxx
func GetOneTimeCredentials(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.ErrorJSON(c, http.StatusBadRequest, "Token is required")
		return
	}

	redisService := services.NewRedisService()
	creds, err := redisService.ConsumeCredentials(token)
	if err != nil {
		if errors.Is(err, services.ErrCredentialsNotFound) {
			response.ErrorJSON(c, http.StatusNotFound, "Credentials not found or already displayed")
			return
		}
		logging.Errorf("Failed to fetch one-time credentials: %v", err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to fetch credentials")
		return
	}

	c.JSON(http.StatusOK, OneTimeCredentialsResponse{
		Success:  true,
		Email:    creds.Email,
		Password: creds.Password,
	})
}
