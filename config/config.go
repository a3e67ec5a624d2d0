package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string

	// Database configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
	RedisURL      string

	// Model configuration
	Models ModelConfig

	// Image constraints
	Image ImageConfig

	// Generation parameters
	Generation GenerationConfig

	// Recipe request bounds
	Recipe RecipeConfig

	// Optional path to a YAML nutrition table overriding the built-in seed data
	NutritionTablePath string
}

// ModelConfig describes where each pretrained model lives and how it runs.
// The classifier runs in-process through ONNX Runtime; the captioner and
// recipe generator are served by model-serving endpoints.
type ModelConfig struct {
	// Device is fixed once at startup: "cuda" or "cpu".
	Device string

	// Classifier (ViT food model exported to ONNX)
	ClassifierModelPath    string
	ClassifierMetadataPath string

	// Captioner (BLIP-style vision-to-text server)
	CaptionerURL string

	// Generator (FLAN-T5-style text-to-text server)
	GeneratorURL string
}

// ImageConfig bounds uploaded images before any inference runs
type ImageConfig struct {
	MinWidth      int
	MinHeight     int
	MaxWidth      int
	MaxHeight     int
	MaxFileSizeMB int
}

// GenerationConfig carries the decoding parameters for caption and recipe
// generation. These are read once at startup and are not runtime-mutable.
type GenerationConfig struct {
	MaxCaptionLength  int
	MaxRecipeLength   int
	MinRecipeLength   int
	MaxPromptTokens   int
	NumBeams          int
	Temperature       float64
	TopP              float64
	RepetitionPenalty float64
	NoRepeatNgramSize int
}

// RecipeConfig bounds the user-facing recipe request options
type RecipeConfig struct {
	DefaultServings   int
	MinServings       int
	MaxServings       int
	DefaultDifficulty string
	DefaultTopK       int
}

// DietaryPreferences lists the supported dietary restrictions, "None" first
var DietaryPreferences = []string{
	"None",
	"Vegetarian",
	"Vegan",
	"Gluten-Free",
	"Keto",
	"Low-Carb",
	"Dairy-Free",
	"Paleo",
	"Halal",
	"Kosher",
}

// DifficultyLevels lists the supported recipe difficulty levels
var DifficultyLevels = []string{"Easy", "Medium", "Hard"}

// AllowedImageFormats lists the accepted upload formats
var AllowedImageFormats = []string{"jpg", "jpeg", "png"}

// LoadConfig creates a new Config instance with values from environment variables
func LoadConfig() (*Config, error) {
	cfg := &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		ServerHost: getEnv("SERVER_HOST", "0.0.0.0"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "visionchef"),
		DBSSLMode:  getEnv("DB_SSL_MODE", "disable"),

		RedisHost:     getEnv("REDIS_HOST", "localhost"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisURL:      os.Getenv("REDIS_URL"),

		Models: ModelConfig{
			Device:                 getEnv("MODEL_DEVICE", "cpu"),
			ClassifierModelPath:    getEnv("CLASSIFIER_MODEL_PATH", "models/food_classifier.onnx"),
			ClassifierMetadataPath: getEnv("CLASSIFIER_METADATA_PATH", "models/food_classifier.json"),
			CaptionerURL:           getEnv("CAPTIONER_URL", "http://localhost:8090"),
			GeneratorURL:           getEnv("GENERATOR_URL", "http://localhost:8091"),
		},

		Image: ImageConfig{
			MinWidth:      50,
			MinHeight:     50,
			MaxWidth:      4096,
			MaxHeight:     4096,
			MaxFileSizeMB: 10,
		},

		Generation: GenerationConfig{
			MaxCaptionLength:  50,
			MaxRecipeLength:   600,
			MinRecipeLength:   200,
			MaxPromptTokens:   512,
			NumBeams:          5,
			Temperature:       0.8,
			TopP:              0.95,
			RepetitionPenalty: 1.2,
			NoRepeatNgramSize: 3,
		},

		Recipe: RecipeConfig{
			DefaultServings:   4,
			MinServings:       1,
			MaxServings:       12,
			DefaultDifficulty: "Medium",
			DefaultTopK:       5,
		},

		NutritionTablePath: os.Getenv("NUTRITION_TABLE_PATH"),
	}

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}
