package router

import (
	"github.com/gin-gonic/gin"

	"github.com/dishlens/visionchef/backend/internal/api"
	"github.com/dishlens/visionchef/backend/internal/middleware"
)

// SetupRouter configures the application routes
func SetupRouter(recipeHandler *api.RecipeHandler, healthHandler *api.HealthHandler) *gin.Engine {
	router := gin.Default()

	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())

	router.GET("/health", healthHandler.Health)

	v1 := router.Group("/api/v1")
	recipeHandler.RegisterRoutes(v1)

	return router
}
