package service

import (
	"context"
	"encoding/json"
	"fmt"
	"image"
	"math"
	"os"
	"sort"
	"sync"

	"github.com/nfnt/resize"
	ort "github.com/yalue/onnxruntime_go"

	"github.com/dishlens/visionchef/backend/internal/types"
)

// ClassifierMetadata describes the exported food classification model
type ClassifierMetadata struct {
	InputShape  []int64  `json:"input_shape"`
	OutputShape []int64  `json:"output_shape"`
	Labels      []string `json:"labels"`
	ImageSize   int      `json:"image_size"`
}

// ClassifierService runs the food classification model in-process through
// ONNX Runtime. The session's tensors are reused across calls, so access is
// serialized with a mutex; the handle itself lives for the whole process.
type ClassifierService struct {
	mu           sync.Mutex
	session      *ort.AdvancedSession
	metadata     ClassifierMetadata
	inputTensor  *ort.Tensor[float32]
	outputTensor *ort.Tensor[float32]
}

// NewClassifierService loads the ONNX model and its metadata. The device is
// fixed here for the process lifetime; failures are fatal model load errors.
func NewClassifierService(modelPath, metadataPath, device string) (*ClassifierService, error) {
	if err := ort.InitializeEnvironment(); err != nil {
		return nil, fmt.Errorf("%w: failed to initialize ONNX environment: %v", ErrModelLoad, err)
	}

	metaFile, err := os.ReadFile(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read metadata: %v", ErrModelLoad, err)
	}

	var metadata ClassifierMetadata
	if err := json.Unmarshal(metaFile, &metadata); err != nil {
		return nil, fmt.Errorf("%w: failed to parse metadata: %v", ErrModelLoad, err)
	}
	if len(metadata.Labels) == 0 {
		return nil, fmt.Errorf("%w: metadata has no labels", ErrModelLoad)
	}

	inputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(metadata.InputShape...))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create input tensor: %v", ErrModelLoad, err)
	}

	outputTensor, err := ort.NewEmptyTensor[float32](ort.NewShape(metadata.OutputShape...))
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("%w: failed to create output tensor: %v", ErrModelLoad, err)
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("%w: failed to create session options: %v", ErrModelLoad, err)
	}
	defer options.Destroy()

	if device == "cuda" {
		cudaOptions, err := ort.NewCUDAProviderOptions()
		if err != nil {
			inputTensor.Destroy()
			outputTensor.Destroy()
			return nil, fmt.Errorf("%w: failed to create CUDA provider options: %v", ErrModelLoad, err)
		}
		defer cudaOptions.Destroy()
		if err := options.AppendExecutionProviderCUDA(cudaOptions); err != nil {
			inputTensor.Destroy()
			outputTensor.Destroy()
			return nil, fmt.Errorf("%w: failed to enable CUDA execution: %v", ErrModelLoad, err)
		}
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"}, []string{"output"},
		[]ort.ArbitraryTensor{inputTensor}, []ort.ArbitraryTensor{outputTensor},
		options)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("%w: failed to create ONNX session: %v", ErrModelLoad, err)
	}

	return &ClassifierService{
		session:      session,
		metadata:     metadata,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
	}, nil
}

// Classify returns the topK highest-probability labels for the image, sorted
// by descending confidence. Failures wrap ErrInference.
func (s *ClassifierService) Classify(ctx context.Context, img image.Image, topK int) ([]types.Prediction, error) {
	if topK < 1 {
		return nil, fmt.Errorf("%w: top_k must be at least 1", ErrInvalidRequest)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}

	inputData := preprocessImage(img, s.metadata.ImageSize)

	s.mu.Lock()
	defer s.mu.Unlock()

	copy(s.inputTensor.GetData(), inputData)
	if err := s.session.Run(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInference, err)
	}

	logits := make([]float32, len(s.outputTensor.GetData()))
	copy(logits, s.outputTensor.GetData())

	probs := softmax(logits)
	return topKPredictions(probs, s.metadata.Labels, topK), nil
}

// Labels returns the model's full label set
func (s *ClassifierService) Labels() []string {
	return s.metadata.Labels
}

// Close releases the ONNX session and its tensors
func (s *ClassifierService) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inputTensor != nil {
		s.inputTensor.Destroy()
	}
	if s.outputTensor != nil {
		s.outputTensor.Destroy()
	}
	if s.session != nil {
		s.session.Destroy()
	}
	ort.DestroyEnvironment()
}

// preprocessImage resizes the image to the model's square input size and
// normalizes pixels to [-1, 1] in channel-first layout, matching the ViT
// preprocessor the model was exported with.
func preprocessImage(img image.Image, targetSize int) []float32 {
	resized := resize.Resize(uint(targetSize), uint(targetSize), img, resize.Lanczos3)

	bounds := resized.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	inputData := make([]float32, 3*width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			r, g, b, _ := resized.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()

			pixelIndex := y*width + x
			inputData[pixelIndex] = float32(r)/32767.5 - 1.0
			inputData[width*height+pixelIndex] = float32(g)/32767.5 - 1.0
			inputData[2*width*height+pixelIndex] = float32(b)/32767.5 - 1.0
		}
	}

	return inputData
}

// softmax converts raw logits into a probability distribution. The max logit
// is subtracted first for numerical stability.
func softmax(logits []float32) []float64 {
	if len(logits) == 0 {
		return nil
	}

	maxLogit := logits[0]
	for _, v := range logits[1:] {
		if v > maxLogit {
			maxLogit = v
		}
	}

	probs := make([]float64, len(logits))
	var sum float64
	for i, v := range logits {
		probs[i] = math.Exp(float64(v - maxLogit))
		sum += probs[i]
	}
	for i := range probs {
		probs[i] /= sum
	}
	return probs
}

// topKPredictions selects the k highest-probability entries in descending
// order. Equal confidences keep the lower label index first, so output is
// deterministic for identical logits.
func topKPredictions(probs []float64, labels []string, k int) []types.Prediction {
	if k > len(probs) {
		k = len(probs)
	}

	indices := make([]int, len(probs))
	for i := range indices {
		indices[i] = i
	}
	sort.SliceStable(indices, func(a, b int) bool {
		return probs[indices[a]] > probs[indices[b]]
	})

	predictions := make([]types.Prediction, 0, k)
	for _, idx := range indices[:k] {
		label := "Unknown"
		if idx < len(labels) {
			label = labels[idx]
		}
		predictions = append(predictions, types.Prediction{
			Label:      label,
			Confidence: probs[idx],
		})
	}
	return predictions
}
