package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dishlens/visionchef/backend/config"
	"github.com/dishlens/visionchef/backend/internal/types"
)

// PipelineState tracks the orchestrator's progress through one run
type PipelineState string

const (
	StateIdle                PipelineState = "idle"
	StateValidating          PipelineState = "validating"
	StateCaptioning          PipelineState = "captioning"
	StateClassifying         PipelineState = "classifying"
	StatePromptBuilding      PipelineState = "prompt_building"
	StateRecipeGenerating    PipelineState = "recipe_generating"
	StateNutritionEstimating PipelineState = "nutrition_estimating"
	StateDone                PipelineState = "done"
	StateFailed              PipelineState = "failed"
)

// Fallback values substituted when a post-validation stage fails. Only
// validation failures abort a run; inference failures are absorbed here so
// the pipeline always returns a complete result bundle.
const (
	FallbackCaption = "Unable to generate caption"
	FallbackRecipe  = "Unable to generate recipe. Please try again."
	FallbackLabel   = "Unknown"
)

// cacheTTL matches the original application's one-hour result cache
const cacheTTL = time.Hour

// PipelineOutcome bundles the result of one pipeline run with its terminal
// state and cache provenance
type PipelineOutcome struct {
	Result      types.RecipeResult
	State       PipelineState
	Cached      bool
	ImageSHA256 string
}

// PipelineService sequences validate, caption, classify, prompt build,
// recipe generation and nutrition estimation. Runs are strictly linear and
// synchronous; the only state shared across runs is the registry's memoized
// model handles and the Redis result cache.
type PipelineService struct {
	validator  *ImageValidator
	captioner  ICaptionService
	classifier IClassifierService
	generator  IGeneratorService
	nutrition  INutritionService
	recipeCfg  config.RecipeConfig
	redis      *redis.Client
}

// NewPipelineService creates a new PipelineService instance. The Redis
// client is optional; without one every request runs full inference.
func NewPipelineService(
	validator *ImageValidator,
	captioner ICaptionService,
	classifier IClassifierService,
	generator IGeneratorService,
	nutrition INutritionService,
	recipeCfg config.RecipeConfig,
	redisClient *redis.Client,
) *PipelineService {
	return &PipelineService{
		validator:  validator,
		captioner:  captioner,
		classifier: classifier,
		generator:  generator,
		nutrition:  nutrition,
		recipeCfg:  recipeCfg,
		redis:      redisClient,
	}
}

// Analyze runs the full pipeline over raw uploaded image bytes. Validation
// failures short-circuit before any inference cost; every later failure is
// converted to its stage's fallback value.
func (s *PipelineService) Analyze(ctx context.Context, imageData []byte, req types.AnalyzeRequest) (*PipelineOutcome, error) {
	state := StateIdle

	if err := s.normalizeRequest(&req); err != nil {
		return nil, err
	}

	transition := func(next PipelineState) {
		state = next
		log.Printf("[PipelineService] %s", state)
	}

	img, _, err := image.Decode(bytes.NewReader(imageData))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImageDecode, err)
	}

	transition(StateValidating)
	if err := s.validator.Validate(img); err != nil {
		log.Printf("[PipelineService] Validation failed: %v", err)
		return &PipelineOutcome{State: StateFailed}, err
	}

	digest := fmt.Sprintf("%x", sha256.Sum256(imageData))
	cacheKey := fmt.Sprintf("pipeline:result:%s:%s:%d:%s:%d",
		digest, req.DietaryPreference, req.Servings, req.Difficulty, req.TopK)

	if cached := s.cachedResult(ctx, cacheKey); cached != nil {
		log.Printf("[PipelineService] Cache hit for image %s", digest[:12])
		return &PipelineOutcome{Result: *cached, State: StateDone, Cached: true, ImageSHA256: digest}, nil
	}

	transition(StateCaptioning)
	caption, err := s.captioner.Caption(ctx, img)
	if err != nil {
		log.Printf("[PipelineService] Caption stage failed, using fallback: %v", err)
		caption = FallbackCaption
	}

	transition(StateClassifying)
	predictions, err := s.classifier.Classify(ctx, img, req.TopK)
	if err != nil || len(predictions) == 0 {
		log.Printf("[PipelineService] Classify stage failed, using fallback: %v", err)
		predictions = []types.Prediction{{Label: FallbackLabel, Confidence: 0.0}}
	}

	transition(StatePromptBuilding)
	genReq := types.GenerationRequest{
		Dish:              predictions[0].Label,
		Caption:           caption,
		DietaryPreference: req.DietaryPreference,
		Servings:          req.Servings,
		Difficulty:        req.Difficulty,
	}
	prompt := BuildRecipePrompt(genReq)

	transition(StateRecipeGenerating)
	recipeText, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		log.Printf("[PipelineService] Generation stage failed, using fallback: %v", err)
		recipeText = FallbackRecipe
	}

	transition(StateNutritionEstimating)
	nutrition := s.nutrition.Estimate(genReq.Dish)

	transition(StateDone)
	result := types.RecipeResult{
		Caption:     caption,
		Predictions: predictions,
		RecipeText:  recipeText,
		Nutrition:   nutrition,
		Request:     genReq,
	}

	s.storeResult(ctx, cacheKey, &result)

	return &PipelineOutcome{Result: result, State: state, ImageSHA256: digest}, nil
}

// normalizeRequest applies defaults and rejects out-of-bounds options
func (s *PipelineService) normalizeRequest(req *types.AnalyzeRequest) error {
	if req.DietaryPreference == "" {
		req.DietaryPreference = "None"
	}
	if req.Servings == 0 {
		req.Servings = s.recipeCfg.DefaultServings
	}
	if req.Difficulty == "" {
		req.Difficulty = s.recipeCfg.DefaultDifficulty
	}
	if req.TopK == 0 {
		req.TopK = s.recipeCfg.DefaultTopK
	}

	if !containsString(config.DietaryPreferences, req.DietaryPreference) {
		return fmt.Errorf("%w: unknown dietary preference %q", ErrInvalidRequest, req.DietaryPreference)
	}
	if req.Servings < s.recipeCfg.MinServings || req.Servings > s.recipeCfg.MaxServings {
		return fmt.Errorf("%w: servings must be between %d and %d",
			ErrInvalidRequest, s.recipeCfg.MinServings, s.recipeCfg.MaxServings)
	}
	if !containsString(config.DifficultyLevels, req.Difficulty) {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidRequest, req.Difficulty)
	}
	if req.TopK < 1 {
		return fmt.Errorf("%w: top_k must be at least 1", ErrInvalidRequest)
	}
	return nil
}

func (s *PipelineService) cachedResult(ctx context.Context, key string) *types.RecipeResult {
	if s.redis == nil {
		return nil
	}
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil
	}
	var result types.RecipeResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil
	}
	return &result
}

func (s *PipelineService) storeResult(ctx context.Context, key string, result *types.RecipeResult) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, key, data, cacheTTL).Err(); err != nil {
		log.Printf("[PipelineService] Failed to cache result: %v", err)
	}
}

func containsString(values []string, target string) bool {
	for _, v := range values {
		if v == target {
			return true
		}
	}
	return false
}
