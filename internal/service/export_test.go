package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dishlens/visionchef/backend/internal/types"
)

func exportFixture() *types.RecipeResult {
	return &types.RecipeResult{
		Caption: "a bowl of ramen with egg and scallions",
		Predictions: []types.Prediction{
			{Label: "Tonkotsu Bowl", Confidence: 0.91},
		},
		RecipeText: "1. Simmer the broth.\n2. Cook the noodles.\n3. Assemble and serve.",
		Nutrition:  types.NutritionRecord{Calories: "450", Protein: "20g", Carbs: "65g", Fat: "14g"},
		Request: types.GenerationRequest{
			Dish:              "Tonkotsu Bowl",
			Caption:           "a bowl of ramen with egg and scallions",
			DietaryPreference: "None",
			Servings:          2,
			Difficulty:        "Hard",
		},
	}
}

func TestFormatRecipeExport(t *testing.T) {
	t.Run("should render every section", func(t *testing.T) {
		text := FormatRecipeExport(exportFixture())

		assert.True(t, strings.HasPrefix(text, "Tonkotsu Bowl\n"))
		assert.Contains(t, text, strings.Repeat("=", 50))
		assert.Contains(t, text, "Servings: 2\n")
		assert.Contains(t, text, "Difficulty: Hard\n")
		assert.Contains(t, text, "Image Description: a bowl of ramen with egg and scallions\n")
		assert.Contains(t, text, "NUTRITIONAL INFORMATION (per serving):\n")
		assert.Contains(t, text, "- Calories: 450\n")
		assert.Contains(t, text, "- Protein: 20g\n")
		assert.Contains(t, text, "- Carbs: 65g\n")
		assert.Contains(t, text, "- Fat: 14g\n")
		assert.Contains(t, text, "RECIPE:\n1. Simmer the broth.")
		assert.True(t, strings.HasSuffix(text, "---\nGenerated by AI Vision Recipe Generator\n"))
	})

	t.Run("should render each value exactly once", func(t *testing.T) {
		text := FormatRecipeExport(exportFixture())

		assert.Equal(t, 1, strings.Count(text, "Servings: 2"))
		assert.Equal(t, 1, strings.Count(text, "- Calories: 450"))
		assert.Equal(t, 1, strings.Count(text, "Generated by AI Vision Recipe Generator"))
	})

	t.Run("should omit dietary line for None", func(t *testing.T) {
		text := FormatRecipeExport(exportFixture())
		assert.NotContains(t, text, "Dietary:")
	})

	t.Run("should include dietary line when set", func(t *testing.T) {
		result := exportFixture()
		result.Request.DietaryPreference = "Halal"
		text := FormatRecipeExport(result)
		assert.Contains(t, text, "Dietary: Halal\n")
	})
}

func TestExportFileName(t *testing.T) {
	assert.Equal(t, "Tonkotsu_Bowl_recipe.txt", ExportFileName("Tonkotsu Bowl"))
	assert.Equal(t, "pizza_recipe.txt", ExportFileName("pizza"))
	assert.Equal(t, "Chicken_Tikka_Masala_recipe.txt", ExportFileName("Chicken Tikka Masala"))
}
