package api

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/dishlens/visionchef/backend/internal/models"
	"github.com/dishlens/visionchef/backend/internal/service"
	"github.com/dishlens/visionchef/backend/internal/types"
)

// RecipeHandler handles recipe analysis and history requests
type RecipeHandler struct {
	pipeline service.IPipelineService
	history  *service.HistoryService
	images   *service.ImageService
}

// NewRecipeHandler creates a new RecipeHandler instance
func NewRecipeHandler(pipeline service.IPipelineService, history *service.HistoryService, images *service.ImageService) *RecipeHandler {
	return &RecipeHandler{
		pipeline: pipeline,
		history:  history,
		images:   images,
	}
}

// RegisterRoutes registers the recipe routes
func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	recipes := router.Group("/recipes")
	{
		recipes.POST("/analyze", h.Analyze)
		recipes.GET("", h.ListRecipes)
		recipes.GET("/:id", h.GetRecipe)
		recipes.GET("/:id/export", h.ExportRecipe)
	}
	router.GET("/stats", h.Stats)
}

// Analyze handles a food photo upload and runs the inference pipeline
func (h *RecipeHandler) Analyze(c *gin.Context) {
	var req types.AnalyzeRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no image file provided; use 'image' as the form field name"})
		return
	}
	defer func() { _ = file.Close() }()

	if !allowedImageName(header.Filename) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unsupported image format; use jpg, jpeg or png"})
		return
	}

	imageData, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read image upload"})
		return
	}

	outcome, err := h.pipeline.Analyze(c.Request.Context(), imageData, req)
	if err != nil {
		status := http.StatusBadRequest
		switch {
		case errors.Is(err, service.ErrImageDecode):
			status = http.StatusUnprocessableEntity
		case errors.Is(err, service.ErrImageTooSmall), errors.Is(err, service.ErrImageTooLarge),
			errors.Is(err, service.ErrInvalidRequest):
			status = http.StatusBadRequest
		default:
			status = http.StatusInternalServerError
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	// Archive the upload for redisplay; failures here do not fail the request
	imageKey := ""
	imageURL := ""
	if h.images != nil && !outcome.Cached {
		if key, err := h.images.ArchiveUpload(c.Request.Context(), imageData, header.Header.Get("Content-Type")); err != nil {
			log.Printf("[RecipeHandler] Failed to archive upload: %v", err)
		} else {
			imageKey = key
			if url, err := h.images.UploadURL(c.Request.Context(), key); err == nil {
				imageURL = url
			}
		}
	}

	recipe := models.FromResult(&outcome.Result, imageKey, outcome.ImageSHA256)
	if _, err := h.history.SaveRecipe(c.Request.Context(), recipe); err != nil {
		log.Printf("[RecipeHandler] Failed to save recipe history: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save recipe"})
		return
	}

	c.JSON(http.StatusCreated, types.AnalyzeResponse{
		ID:       recipe.ID.String(),
		Cached:   outcome.Cached,
		ImageURL: imageURL,
		Result:   outcome.Result,
	})
}

// ListRecipes returns the stored analysis history, newest first
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	recipes, err := h.history.ListRecipes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list recipes"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipes": recipes})
}

// GetRecipe returns a single stored analysis
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.history.GetRecipe(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": recipe})
}

// ExportRecipe returns the plain-text export document for a stored analysis
func (h *RecipeHandler) ExportRecipe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recipe id"})
		return
	}

	recipe, err := h.history.GetRecipe(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "recipe not found"})
		return
	}

	text := service.FormatRecipeExport(recipe.ToResult())
	filename := service.ExportFileName(recipe.Dish)

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", []byte(text))
}

// Stats reports how many recipes have been generated
func (h *RecipeHandler) Stats(c *gin.Context) {
	count, err := h.history.CountRecipes(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to count recipes"})
		return
	}
	c.JSON(http.StatusOK, types.StatsResponse{RecipesGenerated: count})
}

func allowedImageName(filename string) bool {
	lower := strings.ToLower(filename)
	return strings.HasSuffix(lower, ".jpg") ||
		strings.HasSuffix(lower, ".jpeg") ||
		strings.HasSuffix(lower, ".png")
}
