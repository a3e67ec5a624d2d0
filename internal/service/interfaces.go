package service

import (
	"context"
	"image"

	"github.com/dishlens/visionchef/backend/internal/types"
)

// ICaptionService describes the image captioning capability
type ICaptionService interface {
	Caption(ctx context.Context, img image.Image) (string, error)
}

// IClassifierService describes the food classification capability
type IClassifierService interface {
	Classify(ctx context.Context, img image.Image, topK int) ([]types.Prediction, error)
}

// IGeneratorService describes the recipe text generation capability
type IGeneratorService interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// INutritionService describes the nutrition estimation capability
type INutritionService interface {
	Estimate(dishLabel string) types.NutritionRecord
}

// IPipelineService runs the full analyze pipeline for one uploaded image
type IPipelineService interface {
	Analyze(ctx context.Context, imageData []byte, req types.AnalyzeRequest) (*PipelineOutcome, error)
}
