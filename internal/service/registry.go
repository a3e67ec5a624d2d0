package service

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/dishlens/visionchef/backend/config"
)

// ModelKind identifies one of the three pretrained models in the pipeline
type ModelKind string

const (
	ModelCaptioner  ModelKind = "captioner"
	ModelClassifier ModelKind = "classifier"
	ModelGenerator  ModelKind = "generator"
)

// ModelRegistry owns the process-lifetime model handles. The first request
// for a kind performs the expensive load (ONNX session creation for the
// classifier, a serving-endpoint probe for the captioner and generator) and
// memoizes the handle; later requests return it without re-loading. The
// device is fixed at construction and never queried again. There is no
// unload: handles live until process exit.
type ModelRegistry struct {
	cfg config.ModelConfig
	gen config.GenerationConfig

	mu         sync.Mutex
	captioner  ICaptionService
	classifier *ClassifierService
	generator  IGeneratorService
}

// NewModelRegistry creates a registry for the configured device. No model is
// loaded yet; call LoadAll at startup or rely on first-use loading.
func NewModelRegistry(cfg config.ModelConfig, gen config.GenerationConfig) *ModelRegistry {
	return &ModelRegistry{cfg: cfg, gen: gen}
}

// LoadAll eagerly loads every model. Any failure is fatal: the pipeline has
// no degraded mode because each stage depends on its model.
func (r *ModelRegistry) LoadAll(ctx context.Context) error {
	if _, err := r.Captioner(ctx); err != nil {
		return err
	}
	if _, err := r.Classifier(ctx); err != nil {
		return err
	}
	if _, err := r.Generator(ctx); err != nil {
		return err
	}
	return nil
}

// Captioner returns the memoized caption model handle, loading it on first use
func (r *ModelRegistry) Captioner(ctx context.Context) (ICaptionService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.captioner != nil {
		return r.captioner, nil
	}

	log.Printf("[ModelRegistry] Loading %s from %s", ModelCaptioner, r.cfg.CaptionerURL)
	captioner := NewCaptionService(r.cfg.CaptionerURL, r.gen)
	if err := captioner.Healthy(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelLoad, ModelCaptioner, err)
	}

	r.captioner = captioner
	return r.captioner, nil
}

// Classifier returns the memoized classification model handle, loading it on
// first use
func (r *ModelRegistry) Classifier(ctx context.Context) (IClassifierService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.classifier != nil {
		return r.classifier, nil
	}

	log.Printf("[ModelRegistry] Loading %s from %s on %s", ModelClassifier, r.cfg.ClassifierModelPath, r.cfg.Device)
	classifier, err := NewClassifierService(r.cfg.ClassifierModelPath, r.cfg.ClassifierMetadataPath, r.cfg.Device)
	if err != nil {
		return nil, err
	}

	r.classifier = classifier
	return r.classifier, nil
}

// Generator returns the memoized generation model handle, loading it on first use
func (r *ModelRegistry) Generator(ctx context.Context) (IGeneratorService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.generator != nil {
		return r.generator, nil
	}

	log.Printf("[ModelRegistry] Loading %s from %s", ModelGenerator, r.cfg.GeneratorURL)
	generator := NewGeneratorService(r.cfg.GeneratorURL, r.gen)
	if err := generator.Healthy(ctx); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrModelLoad, ModelGenerator, err)
	}

	r.generator = generator
	return r.generator, nil
}

// Loaded reports whether every model handle has been memoized
func (r *ModelRegistry) Loaded() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.captioner != nil && r.classifier != nil && r.generator != nil
}

// Device returns the compute device fixed at construction
func (r *ModelRegistry) Device() string {
	return r.cfg.Device
}

// Close releases the classifier's ONNX resources. HTTP-backed handles hold
// no local state worth releasing.
func (r *ModelRegistry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.classifier != nil {
		r.classifier.Close()
		r.classifier = nil
	}
}
