package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dishlens/visionchef/backend/config"
	"github.com/dishlens/visionchef/backend/internal/service"
	"github.com/dishlens/visionchef/backend/internal/types"
)

func healthCheckResponse(t *testing.T, db *gorm.DB) types.HealthResponse {
	t.Helper()
	gin.SetMode(gin.TestMode)

	registry := service.NewModelRegistry(config.ModelConfig{Device: "cpu"}, config.GenerationConfig{})
	handler := NewHealthHandler(registry, db)

	router := gin.New()
	router.GET("/health", handler.Health)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp types.HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestHealthHandler(t *testing.T) {
	t.Run("should report readiness without a database", func(t *testing.T) {
		resp := healthCheckResponse(t, nil)
		assert.Equal(t, "healthy", resp.Status)
		assert.Equal(t, "cpu", resp.Device)
		assert.False(t, resp.ModelsLoaded)
	})

	t.Run("should report healthy with a reachable database", func(t *testing.T) {
		db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "health.db")), &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		})
		require.NoError(t, err)

		resp := healthCheckResponse(t, db)
		assert.Equal(t, "healthy", resp.Status)
	})
}
