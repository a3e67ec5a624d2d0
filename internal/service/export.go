package service

import (
	"fmt"
	"strings"

	"github.com/dishlens/visionchef/backend/internal/types"
)

// exportTrailer attributes the generated document
const exportTrailer = "Generated by AI Vision Recipe Generator"

// FormatRecipeExport renders the downloadable plain-text recipe artifact:
// dish name, a 50-character separator, the request options, the image
// description, a nutrition block, the recipe text and a fixed trailer. The
// dietary line is omitted when the preference is "None".
func FormatRecipeExport(result *types.RecipeResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n", result.Request.Dish)
	fmt.Fprintf(&b, "%s\n\n", strings.Repeat("=", 50))

	fmt.Fprintf(&b, "Servings: %d\n", result.Request.Servings)
	fmt.Fprintf(&b, "Difficulty: %s\n", result.Request.Difficulty)
	if result.Request.DietaryPreference != "" && result.Request.DietaryPreference != "None" {
		fmt.Fprintf(&b, "Dietary: %s\n", result.Request.DietaryPreference)
	}
	b.WriteString("\n")

	fmt.Fprintf(&b, "Image Description: %s\n\n", result.Caption)

	b.WriteString("NUTRITIONAL INFORMATION (per serving):\n")
	fmt.Fprintf(&b, "- Calories: %s\n", result.Nutrition.Calories)
	fmt.Fprintf(&b, "- Protein: %s\n", result.Nutrition.Protein)
	fmt.Fprintf(&b, "- Carbs: %s\n", result.Nutrition.Carbs)
	fmt.Fprintf(&b, "- Fat: %s\n\n", result.Nutrition.Fat)

	b.WriteString("RECIPE:\n")
	fmt.Fprintf(&b, "%s\n\n", result.RecipeText)

	b.WriteString("---\n")
	fmt.Fprintf(&b, "%s\n", exportTrailer)

	return b.String()
}

// ExportFileName derives the download filename from the dish label
func ExportFileName(dish string) string {
	return strings.ReplaceAll(dish, " ", "_") + "_recipe.txt"
}
