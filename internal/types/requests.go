package types

// AnalyzeRequest represents the form fields accompanying an image upload
type AnalyzeRequest struct {
	DietaryPreference string `form:"dietary_preference"`
	Servings          int    `form:"servings"`
	Difficulty        string `form:"difficulty"`
	TopK              int    `form:"top_k"`
}

// AnalyzeResponse is the JSON body returned for a completed pipeline run
type AnalyzeResponse struct {
	ID       string       `json:"id"`
	Cached   bool         `json:"cached"`
	ImageURL string       `json:"image_url,omitempty"`
	Result   RecipeResult `json:"result"`
}

// StatsResponse reports usage counters
type StatsResponse struct {
	RecipesGenerated int64 `json:"recipes_generated"`
}

// HealthResponse reports service and model readiness
type HealthResponse struct {
	Status       string `json:"status"`
	Device       string `json:"device"`
	ModelsLoaded bool   `json:"models_loaded"`
}
