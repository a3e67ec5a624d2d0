package service

import (
	"fmt"

	"github.com/dishlens/visionchef/backend/internal/types"
)

// recipePromptTemplate is the fixed instruction structure sent to the recipe
// generator. The dietary clause slot is filled only when a preference is set.
const recipePromptTemplate = `You are a professional chef. Create a detailed recipe.

Dish: %s
Description: %s
%sServings: %d
Difficulty: %s

Provide a complete recipe with:
1. Ingredients list (with exact measurements)
2. Step-by-step cooking instructions (numbered steps)
3. Preparation time and cooking time
4. Helpful tips and possible variations

Format the recipe in a clear, professional manner.`

// BuildRecipePrompt deterministically embeds the request fields into the
// instruction template. Inputs are passed through verbatim; content
// validation is the caller's responsibility. When the dietary preference is
// "None" the clause is omitted entirely.
func BuildRecipePrompt(req types.GenerationRequest) string {
	dietaryClause := ""
	if req.DietaryPreference != "" && req.DietaryPreference != "None" {
		dietaryClause = fmt.Sprintf("The recipe must be %s. ", req.DietaryPreference)
	}

	return fmt.Sprintf(recipePromptTemplate,
		req.Dish,
		req.Caption,
		dietaryClause,
		req.Servings,
		req.Difficulty,
	)
}
