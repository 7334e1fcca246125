package api

import (
	"storefront-api/internal/middleware"

	"github.com/gin-gonic/gin"
)

// SetupRoutes sets up all routes
func SetupRoutes(r *gin.Engine) {
	// Initialize identity client for bearer authentication
	middleware.InitIdentity()

	// API route group
	api := r.Group("/api")
	{
		// Payment routes (called before any account exists)
		payment := api.Group("/payment")
		{
			payment.POST("/initiate", InitiatePayment)
			payment.POST("/verify", VerifyPayment)
			payment.POST("/success", PaymentSuccess)
		}

		// Purchase linking (reconciliation after email confirmation)
		api.POST("/purchases/link", LinkPurchases)

		// One-time credential display after provisioning
		api.GET("/account/credentials", GetOneTimeCredentials)

		// Authenticated routes
		authed := api.Group("")
		authed.Use(middleware.BearerAuthMiddleware())
		{
			authed.GET("/purchases", ListPurchases)
			authed.GET("/course/:productId/pdf", GetCoursePDF)
		}
	}

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "storefront-service",
		})
	})
}
