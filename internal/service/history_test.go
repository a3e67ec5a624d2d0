package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dishlens/visionchef/backend/internal/models"
	"github.com/dishlens/visionchef/backend/internal/types"
)

func historyTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "history.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Recipe{}))
	return db
}

func historyFixture(dish string) *models.Recipe {
	return models.FromResult(&types.RecipeResult{
		Caption: "a close-up of " + dish,
		Predictions: []types.Prediction{
			{Label: dish, Confidence: 0.9},
			{Label: "stew", Confidence: 0.05},
		},
		RecipeText: "1. Cook it well.",
		Nutrition:  types.NutritionRecord{Calories: "285", Protein: "12g", Carbs: "36g", Fat: "10g"},
		Request: types.GenerationRequest{
			Dish:              dish,
			Caption:           "a close-up of " + dish,
			DietaryPreference: "None",
			Servings:          4,
			Difficulty:        "Medium",
		},
	}, "", "deadbeef")
}

func TestHistoryService(t *testing.T) {
	ctx := context.Background()

	t.Run("should save and retrieve a recipe", func(t *testing.T) {
		service := NewHistoryService(historyTestDB(t))

		saved, err := service.SaveRecipe(ctx, historyFixture("pizza"))
		require.NoError(t, err)
		require.NotEqual(t, uuid.Nil, saved.ID)

		loaded, err := service.GetRecipe(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, "pizza", loaded.Dish)
		assert.Equal(t, "285", loaded.Calories)
		require.Len(t, loaded.Predictions, 2)
		assert.Equal(t, "pizza", loaded.Predictions[0].Label)
		assert.InDelta(t, 0.9, loaded.Predictions[0].Confidence, 1e-9)
	})

	t.Run("should round-trip a result bundle", func(t *testing.T) {
		service := NewHistoryService(historyTestDB(t))

		saved, err := service.SaveRecipe(ctx, historyFixture("sushi"))
		require.NoError(t, err)

		loaded, err := service.GetRecipe(ctx, saved.ID)
		require.NoError(t, err)

		result := loaded.ToResult()
		assert.Equal(t, "sushi", result.Dish())
		assert.Equal(t, "a close-up of sushi", result.Caption)
		assert.Equal(t, "1. Cook it well.", result.RecipeText)
		assert.Equal(t, 4, result.Request.Servings)
	})

	t.Run("should list recipes newest first", func(t *testing.T) {
		service := NewHistoryService(historyTestDB(t))

		for _, dish := range []string{"pizza", "burger", "salad"} {
			_, err := service.SaveRecipe(ctx, historyFixture(dish))
			require.NoError(t, err)
		}

		recipes, err := service.ListRecipes(ctx)
		require.NoError(t, err)
		assert.Len(t, recipes, 3)
	})

	t.Run("should count stored recipes", func(t *testing.T) {
		service := NewHistoryService(historyTestDB(t))

		count, err := service.CountRecipes(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(0), count)

		_, err = service.SaveRecipe(ctx, historyFixture("pasta"))
		require.NoError(t, err)

		count, err = service.CountRecipes(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("should fail on an unknown id", func(t *testing.T) {
		service := NewHistoryService(historyTestDB(t))

		_, err := service.GetRecipe(ctx, uuid.New())
		assert.Error(t, err)
	})
}
