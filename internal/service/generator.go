package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dishlens/visionchef/backend/config"
)

// GeneratorService invokes a FLAN-T5-style text-to-text serving endpoint to
// turn a built prompt into recipe text. The decoding parameters are fixed at
// startup from configuration.
type GeneratorService struct {
	baseURL string
	gen     config.GenerationConfig
	client  *http.Client
}

// generateRequest is the wire request for the text generation endpoint
type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
}

type generateParameters struct {
	MaxLength         int     `json:"max_length"`
	MinLength         int     `json:"min_length"`
	NumBeams          int     `json:"num_beams"`
	Temperature       float64 `json:"temperature"`
	TopP              float64 `json:"top_p"`
	RepetitionPenalty float64 `json:"repetition_penalty"`
	NoRepeatNgramSize int     `json:"no_repeat_ngram_size"`
	EarlyStopping     bool    `json:"early_stopping"`
	Truncation        bool    `json:"truncation"`
	MaxInputLength    int     `json:"max_input_length"`
}

type generateResponse struct {
	GeneratedText string `json:"generated_text"`
}

// NewGeneratorService creates a new GeneratorService instance
func NewGeneratorService(baseURL string, gen config.GenerationConfig) *GeneratorService {
	return &GeneratorService{
		baseURL: baseURL,
		gen:     gen,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// Generate produces recipe text from the prompt. The input is truncated to
// the configured token budget server-side; output length, beam width,
// temperature, nucleus filtering, repetition penalty and the no-repeat
// n-gram constraint all come from configuration. Failures wrap ErrInference.
func (s *GeneratorService) Generate(ctx context.Context, prompt string) (string, error) {
	reqBody := generateRequest{
		Inputs: prompt,
		Parameters: generateParameters{
			MaxLength:         s.gen.MaxRecipeLength,
			MinLength:         s.gen.MinRecipeLength,
			NumBeams:          s.gen.NumBeams,
			Temperature:       s.gen.Temperature,
			TopP:              s.gen.TopP,
			RepetitionPenalty: s.gen.RepetitionPenalty,
			NoRepeatNgramSize: s.gen.NoRepeatNgramSize,
			EarlyStopping:     true,
			Truncation:        true,
			MaxInputLength:    s.gen.MaxPromptTokens,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %v", ErrInference, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/generate", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("%w: failed to create request: %v", ErrInference, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: failed to send request: %v", ErrInference, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read response: %v", ErrInference, err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: generation request failed with status %d", ErrInference, resp.StatusCode)
	}

	var result generateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInference, err)
	}

	text := strings.TrimSpace(result.GeneratedText)
	if text == "" {
		return "", fmt.Errorf("%w: empty generation in response", ErrInference)
	}

	return text, nil
}

// Healthy probes the serving endpoint once. The registry treats a failed
// probe as a fatal model load error at startup.
func (s *GeneratorService) Healthy(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("generator backend returned status %d", resp.StatusCode)
	}
	return nil
}
