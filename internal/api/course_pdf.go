package api

import (
	"fmt"
	"net/http"

	"storefront-api/internal/response"
	"storefront-api/internal/services"
	"storefront-api/pkg/logging"

	"github.com/gin-gonic/gin"
)

// GetCoursePDF streams a product's PDF to an entitled session, honoring
// single-range HTTP Range requests. Entitlement is re-checked on every
// request; nothing about the decision is cached.
// GET /api/course/:productId/pdf
func GetCoursePDF(c *gin.Context) {
	productID := c.Param("productId")
	userID := c.GetString("user_id")

	contentService := services.NewContentService()
	fileName, err := contentService.ResolveProduct(productID)
	if err != nil {
		response.ServiceErrorJSON(c, err)
		return
	}

	purchaseService := services.NewPurchaseService()
	entitled, err := purchaseService.CheckEntitlement(userID, productID)
	if err != nil {
		logging.Errorf("Entitlement check failed for user %s, product %s: %v", userID, productID, err)
		response.ErrorJSON(c, http.StatusInternalServerError, "Failed to verify access")
		return
	}
	if !entitled {
		response.ErrorJSON(c, http.StatusForbidden, "Access denied. You don't have access to this course.")
		return
	}

	data, _, err := contentService.ReadProductFile(productID)
	if err != nil {
		response.ServiceErrorJSON(c, err)
		return
	}
	fileSize := int64(len(data))

	// The content is access-gated and must never land in a shared cache
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", fileName))
	c.Header("Accept-Ranges", "bytes")
	c.Header("Cache-Control", "private, no-cache, no-store, must-revalidate")
	c.Header("X-Content-Type-Options", "nosniff")

	rangeHeader := c.GetHeader("Range")
	if rangeHeader == "" {
		c.Header("Content-Length", fmt.Sprintf("%d", fileSize))
		c.Data(http.StatusOK, "application/pdf", data)
		return
	}

	byteRange, err := services.ParseRange(rangeHeader, fileSize)
	if err != nil {
		c.Status(http.StatusRequestedRangeNotSatisfiable)
		return
	}

	chunk := byteRange.Slice(data)
	c.Header("Content-Range", fmt.Sprintf("bytes %d-%d/%d", byteRange.Start, byteRange.End, fileSize))
	c.Header("Content-Length", fmt.Sprintf("%d", len(chunk)))
	c.Data(http.StatusPartialContent, "application/pdf", chunk)
}
