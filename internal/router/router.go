// Package router sets up all HTTP routes for the API.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/Shimizu-Technology/bitelist-api/internal/handlers"
	"github.com/Shimizu-Technology/bitelist-api/internal/middleware"
)

// Options configures the middleware stack.
type Options struct {
	APIKey           string // empty leaves the API open
	RateLimitPerHour int    // per client; 0 disables
	AllowedOrigins   []string
}

// Setup creates and configures the Gin router with all routes.
func Setup(h *handlers.Handler, opts Options) *gin.Engine {
	r := gin.Default()
	r.Use(middleware.RequestID())
	r.Use(middleware.CORS(opts.AllowedOrigins))

	rateLimiter := middleware.NewRateLimiter(opts.RateLimitPerHour)

	// --- Public Routes ---
	r.GET("/api/v1/health", h.HealthCheck)
	r.GET("/api/docs", h.ServeSwaggerUI)
	r.GET("/api/docs/openapi.yaml", h.ServeOpenAPISpec)

	// --- Protected Routes ---
	protected := r.Group("/api/v1")
	protected.Use(middleware.APIKeyAuth(opts.APIKey))
	protected.Use(rateLimiter.RateLimit())
	{
		protected.POST("/ingredients/extract", h.ExtractIngredients)

		protected.POST("/extractions", h.CreateExtraction)
		protected.GET("/extractions", h.ListExtractions)
		protected.GET("/extractions/:id", h.GetExtraction)
		protected.DELETE("/extractions/:id", h.DeleteExtraction)
		protected.GET("/extractions/:id/shopping-list", h.ShoppingList)
	}

	return r
}
