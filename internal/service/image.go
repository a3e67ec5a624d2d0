package service

import (
	"bytes"
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dishlens/visionchef/backend/config"
)

// ImageService archives uploaded food images to S3 so results can be
// redisplayed later. Archiving is best-effort: the pipeline result does not
// depend on it.
type ImageService struct {
	s3Config *config.S3Config
}

// NewImageService creates a new ImageService instance. A nil S3 config
// disables archiving.
func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// ArchiveUpload stores the original upload bytes and returns the object key.
// Returns an empty key when archiving is disabled.
func (s *ImageService) ArchiveUpload(ctx context.Context, imageData []byte, contentType string) (string, error) {
	if s.s3Config == nil {
		return "", nil
	}

	key := fmt.Sprintf("uploads/%s.png", uuid.New().String())
	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image to S3: %w", err)
	}

	log.Printf("[ImageService] Archived upload as %s", key)
	return key, nil
}

// UploadURL returns a presigned URL for an archived object. Returns an empty
// URL when archiving is disabled or the key is empty.
func (s *ImageService) UploadURL(ctx context.Context, key string) (string, error) {
	if s.s3Config == nil || key == "" {
		return "", nil
	}
	return s.s3Config.GeneratePresignedURL(ctx, key, 24*time.Hour)
}
