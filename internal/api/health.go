package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/dishlens/visionchef/backend/internal/database"
	"github.com/dishlens/visionchef/backend/internal/service"
	"github.com/dishlens/visionchef/backend/internal/types"
)

// HealthHandler reports service and model readiness
type HealthHandler struct {
	registry *service.ModelRegistry
	db       *gorm.DB
}

// NewHealthHandler creates a new HealthHandler instance
func NewHealthHandler(registry *service.ModelRegistry, db *gorm.DB) *HealthHandler {
	return &HealthHandler{registry: registry, db: db}
}

// Health handles liveness checks
func (h *HealthHandler) Health(c *gin.Context) {
	status := "healthy"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.HealthCheck(ctx, h.db); err != nil {
			status = "degraded"
		}
	}

	c.JSON(http.StatusOK, types.HealthResponse{
		Status:       status,
		Device:       h.registry.Device(),
		ModelsLoaded: h.registry.Loaded(),
	})
}
