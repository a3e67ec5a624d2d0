package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the loaded configuration is internally consistent
func ValidateConfig(cfg *Config) error {
	var errors []string

	if cfg.Models.Device != "cpu" && cfg.Models.Device != "cuda" {
		errors = append(errors, fmt.Sprintf("MODEL_DEVICE must be \"cpu\" or \"cuda\", got %q", cfg.Models.Device))
	}
	if cfg.Models.ClassifierModelPath == "" {
		errors = append(errors, "CLASSIFIER_MODEL_PATH must not be empty")
	}
	if cfg.Models.CaptionerURL == "" {
		errors = append(errors, "CAPTIONER_URL must not be empty")
	}
	if cfg.Models.GeneratorURL == "" {
		errors = append(errors, "GENERATOR_URL must not be empty")
	}

	if cfg.Image.MinWidth <= 0 || cfg.Image.MinHeight <= 0 {
		errors = append(errors, "minimum image dimensions must be positive")
	}
	if cfg.Image.MaxWidth < cfg.Image.MinWidth || cfg.Image.MaxHeight < cfg.Image.MinHeight {
		errors = append(errors, "maximum image dimensions must not be below the minimums")
	}
	if cfg.Image.MaxFileSizeMB <= 0 {
		errors = append(errors, "maximum file size must be positive")
	}

	if cfg.Generation.MinRecipeLength > cfg.Generation.MaxRecipeLength {
		errors = append(errors, "minimum recipe length must not exceed the maximum")
	}
	if cfg.Generation.NumBeams < 1 {
		errors = append(errors, "beam width must be at least 1")
	}
	if cfg.Generation.TopP <= 0 || cfg.Generation.TopP > 1 {
		errors = append(errors, "top_p must be in (0, 1]")
	}

	if cfg.Recipe.MinServings < 1 {
		errors = append(errors, "minimum servings must be at least 1")
	}
	if cfg.Recipe.MaxServings < cfg.Recipe.MinServings {
		errors = append(errors, "maximum servings must not be below the minimum")
	}
	if cfg.Recipe.DefaultServings < cfg.Recipe.MinServings || cfg.Recipe.DefaultServings > cfg.Recipe.MaxServings {
		errors = append(errors, "default servings must be within the servings bounds")
	}
	if !contains(DifficultyLevels, cfg.Recipe.DefaultDifficulty) {
		errors = append(errors, fmt.Sprintf("default difficulty %q is not a known difficulty level", cfg.Recipe.DefaultDifficulty))
	}
	if cfg.Recipe.DefaultTopK < 1 {
		errors = append(errors, "default top_k must be at least 1")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errors, "\n"))
	}

	return nil
}

func contains(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
