package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/dishlens/visionchef/backend/internal/types"
)

// JSONBPredictions is a custom type for storing classifier output as JSONB
type JSONBPredictions []types.Prediction

// Value implements the driver.Valuer interface
func (p JSONBPredictions) Value() (driver.Value, error) {
	if len(p) == 0 {
		return "[]", nil
	}
	return json.Marshal(p)
}

// Scan implements the sql.Scanner interface
func (p *JSONBPredictions) Scan(value interface{}) error {
	if value == nil {
		*p = JSONBPredictions{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return nil
	}

	return json.Unmarshal(bytes, p)
}

// Recipe is one completed pipeline run persisted for history, statistics and export
type Recipe struct {
	ID                uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
	DeletedAt         gorm.DeletedAt   `gorm:"index" json:"-"`
	Dish              string           `gorm:"size:255;not null" json:"dish"`
	Caption           string           `gorm:"type:text" json:"caption"`
	RecipeText        string           `gorm:"type:text" json:"recipe_text"`
	Predictions       JSONBPredictions `gorm:"type:jsonb;not null;default:'[]'" json:"predictions"`
	Calories          string           `gorm:"size:20" json:"calories"`
	Protein           string           `gorm:"size:20" json:"protein"`
	Carbs             string           `gorm:"size:20" json:"carbs"`
	Fat               string           `gorm:"size:20" json:"fat"`
	DietaryPreference string           `gorm:"size:50" json:"dietary_preference"`
	Servings          int              `json:"servings"`
	Difficulty        string           `gorm:"size:20" json:"difficulty"`
	ImageKey          string           `gorm:"size:255" json:"-"`
	ImageSHA256       string           `gorm:"size:64;index" json:"-"`
}

// FromResult builds a Recipe row from a pipeline result bundle
func FromResult(result *types.RecipeResult, imageKey, imageSHA256 string) *Recipe {
	return &Recipe{
		ID:                uuid.New(),
		Dish:              result.Request.Dish,
		Caption:           result.Caption,
		RecipeText:        result.RecipeText,
		Predictions:       JSONBPredictions(result.Predictions),
		Calories:          result.Nutrition.Calories,
		Protein:           result.Nutrition.Protein,
		Carbs:             result.Nutrition.Carbs,
		Fat:               result.Nutrition.Fat,
		DietaryPreference: result.Request.DietaryPreference,
		Servings:          result.Request.Servings,
		Difficulty:        result.Request.Difficulty,
		ImageKey:          imageKey,
		ImageSHA256:       imageSHA256,
	}
}

// ToResult reconstructs the pipeline result bundle from a stored row
func (r *Recipe) ToResult() *types.RecipeResult {
	return &types.RecipeResult{
		Caption:     r.Caption,
		Predictions: []types.Prediction(r.Predictions),
		RecipeText:  r.RecipeText,
		Nutrition: types.NutritionRecord{
			Calories: r.Calories,
			Protein:  r.Protein,
			Carbs:    r.Carbs,
			Fat:      r.Fat,
		},
		Request: types.GenerationRequest{
			Dish:              r.Dish,
			Caption:           r.Caption,
			DietaryPreference: r.DietaryPreference,
			Servings:          r.Servings,
			Difficulty:        r.Difficulty,
		},
	}
}
