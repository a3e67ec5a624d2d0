package service

import "errors"

// Error taxonomy for the inference pipeline. ErrModelLoad is fatal at
// startup; every stage dependency is required, so there is no degraded mode.
// ErrInference is absorbed at the stage boundary and replaced with a
// fallback value so a run that passed validation always completes.
var (
	ErrImageTooSmall  = errors.New("image is too small")
	ErrImageTooLarge  = errors.New("image is too large")
	ErrImageDecode    = errors.New("image could not be decoded")
	ErrModelLoad      = errors.New("model load failed")
	ErrInference      = errors.New("inference failed")
	ErrInvalidRequest = errors.New("invalid request")
)
