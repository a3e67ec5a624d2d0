package types

// Prediction is a single (label, confidence) pair from the food classifier
type Prediction struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// NutritionRecord maps nutrient names to display strings. Estimated values
// carry a "~" prefix.
type NutritionRecord struct {
	Calories string `json:"calories"`
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
}

// Approximate reports whether the record is an estimate rather than a table hit
func (n NutritionRecord) Approximate() bool {
	return len(n.Calories) > 0 && n.Calories[0] == '~'
}

// GenerationRequest is the immutable value object consumed by the prompt
// builder. It is constructed once per pipeline run.
type GenerationRequest struct {
	Dish              string `json:"dish"`
	Caption           string `json:"caption"`
	DietaryPreference string `json:"dietary_preference"`
	Servings          int    `json:"servings"`
	Difficulty        string `json:"difficulty"`
}

// RecipeResult is the terminal output bundle of one pipeline run
type RecipeResult struct {
	Caption     string            `json:"caption"`
	Predictions []Prediction      `json:"predictions"`
	RecipeText  string            `json:"recipe_text"`
	Nutrition   NutritionRecord   `json:"nutrition"`
	Request     GenerationRequest `json:"request"`
}

// Dish returns the primary classified dish label
func (r *RecipeResult) Dish() string {
	return r.Request.Dish
}
