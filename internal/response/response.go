package response

import (
	"errors"
	"net/http"

	"storefront-api/internal/services"

	"github.com/gin-gonic/gin"
)

// Response represents a standard API response
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success returns a success response
func Success(data interface{}) Response {
	return Response{
		Success: true,
		Message: "success",
		Data:    data,
	}
}

// Error returns an error response
func Error(statusCode int, message string) Response {
	return Response{
		Success: false,
		Message: message,
	}
}

// JSON sends a JSON response
func JSON(c *gin.Context, statusCode int, response Response) {
	c.JSON(statusCode, response)
}

// SuccessJSON sends a success JSON response
func SuccessJSON(c *gin.Context, data interface{}) {
	JSON(c, http.StatusOK, Success(data))
}

// ErrorJSON sends an error JSON response
func ErrorJSON(c *gin.Context, statusCode int, message string) {
	JSON(c, statusCode, Error(statusCode, message))
}

// ServiceErrorJSON maps a service-level failure onto its HTTP status with a
// stable, user-safe message. Unclassified errors surface as a generic 500.
func ServiceErrorJSON(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrVerificationFailed):
		ErrorJSON(c, http.StatusBadRequest, "Payment verification failed")
	case errors.Is(err, services.ErrAccountExists):
		ErrorJSON(c, http.StatusBadRequest, "An account with this email already exists")
	case errors.Is(err, services.ErrUnauthenticated):
		ErrorJSON(c, http.StatusUnauthorized, "Invalid or expired token")
	case errors.Is(err, services.ErrLinkingDenied):
		ErrorJSON(c, http.StatusBadRequest, "Unable to link purchases to this account")
	case errors.Is(err, services.ErrUnknownProduct):
		ErrorJSON(c, http.StatusNotFound, "Product not found")
	case errors.Is(err, services.ErrFileUnavailable):
		ErrorJSON(c, http.StatusNotFound, "Content not found")
	case errors.Is(err, services.ErrMalformedRange):
		ErrorJSON(c, http.StatusRequestedRangeNotSatisfiable, "Malformed Range header")
	case errors.Is(err, services.ErrUpstreamTimeout):
		ErrorJSON(c, http.StatusGatewayTimeout, "Upstream service timed out")
	case errors.Is(err, services.ErrUpstream):
		ErrorJSON(c, http.StatusBadGateway, "Upstream service error")
	default:
		ErrorJSON(c, http.StatusInternalServerError, "Internal server error")
	}
}
