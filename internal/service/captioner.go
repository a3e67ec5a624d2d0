package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"time"

	"github.com/dishlens/visionchef/backend/config"
)

// CaptionService produces a natural-language description of a food image by
// calling a BLIP-style vision-to-text serving endpoint. Decoding is beam
// search with sampling disabled, so output is deterministic for a fixed
// model and identical input.
type CaptionService struct {
	baseURL string
	gen     config.GenerationConfig
	client  *http.Client
}

// captionRequest is the wire request for the caption endpoint
type captionRequest struct {
	Image      string            `json:"image"`
	Parameters captionParameters `json:"parameters"`
}

type captionParameters struct {
	MaxLength int  `json:"max_length"`
	NumBeams  int  `json:"num_beams"`
	DoSample  bool `json:"do_sample"`
}

type captionResponse struct {
	Caption string `json:"caption"`
}

// NewCaptionService creates a new CaptionService instance
func NewCaptionService(baseURL string, gen config.GenerationConfig) *CaptionService {
	return &CaptionService{
		baseURL: baseURL,
		gen:     gen,
		client: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Caption generates a description of the image. Failures wrap ErrInference;
// the orchestrator substitutes a placeholder so the pipeline can proceed.
func (s *CaptionService) Caption(ctx context.Context, img image.Image) (string, error) {
	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		return "", fmt.Errorf("%w: failed to encode image: %v", ErrInference, err)
	}

	reqBody := captionRequest{
		Image: base64.StdEncoding.EncodeToString(encoded.Bytes()),
		Parameters: captionParameters{
			MaxLength: s.gen.MaxCaptionLength,
			NumBeams:  s.gen.NumBeams,
			DoSample:  false,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: failed to marshal request: %v", ErrInference, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/caption", bytes.NewBuffer(jsonData))
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
		return "", fmt.Errorf("%w: caption request failed with status %d", ErrInference, resp.StatusCode)
	}

	var result captionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("%w: failed to decode response: %v", ErrInference, err)
	}
	if result.Caption == "" {
		return "", fmt.Errorf("%w: empty caption in response", ErrInference)
	}

	return result.Caption, nil
}

// Healthy probes the serving endpoint once. The registry treats a failed
// probe as a fatal model load error at startup.
func (s *CaptionService) Healthy(ctx context.Context) error {
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
		return fmt.Errorf("caption backend returned status %d", resp.StatusCode)
	}
	return nil
}
