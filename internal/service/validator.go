package service

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/dishlens/visionchef/backend/config"
)

// ImageValidator checks uploaded images against configured bounds before any
// inference cost is incurred. It is a pure predicate over configuration and
// image metadata.
type ImageValidator struct {
	cfg config.ImageConfig
}

// NewImageValidator creates a new ImageValidator instance
func NewImageValidator(cfg config.ImageConfig) *ImageValidator {
	return &ImageValidator{cfg: cfg}
}

// Validate returns nil when the image is within bounds. Failures wrap
// ErrImageTooSmall or ErrImageTooLarge with a human-readable reason.
func (v *ImageValidator) Validate(img image.Image) error {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	if width < v.cfg.MinWidth || height < v.cfg.MinHeight {
		return fmt.Errorf("%w: %dx%d is below the %dx%d minimum",
			ErrImageTooSmall, width, height, v.cfg.MinWidth, v.cfg.MinHeight)
	}
	if width > v.cfg.MaxWidth || height > v.cfg.MaxHeight {
		return fmt.Errorf("%w: %dx%d exceeds the %dx%d maximum",
			ErrImageTooLarge, width, height, v.cfg.MaxWidth, v.cfg.MaxHeight)
	}

	// Approximate the stored size by re-encoding to PNG, matching how the
	// image would be archived.
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return fmt.Errorf("%w: %v", ErrImageDecode, err)
	}
	sizeMB := float64(buf.Len()) / (1024 * 1024)
	if sizeMB > float64(v.cfg.MaxFileSizeMB) {
		return fmt.Errorf("%w: %.1fMB exceeds the %dMB maximum",
			ErrImageTooLarge, sizeMB, v.cfg.MaxFileSizeMB)
	}

	return nil
}
