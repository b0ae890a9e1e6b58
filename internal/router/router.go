package router

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/recipebox/backend/internal/api"
	"github.com/recipebox/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(
	authHandler *api.AuthHandler,
	recipeHandler *api.RecipeHandler,
	catalogHandler *api.CatalogHandler,
	allowedOrigins []string,
	mediaDir string,
	limiter *middleware.RateLimiter,
) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS(allowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Locally stored recipe images. With S3 configured the image URLs
	// point at the bucket instead and this tree stays empty.
	router.Static("/media", mediaDir)

	// API v1 routes
	v1 := router.Group("/api/v1")
	if limiter != nil {
		v1.Use(limiter.RateLimitMiddleware())
	}

	authHandler.RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)
	catalogHandler.RegisterRoutes(v1)

	return router
}
