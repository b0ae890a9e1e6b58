package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/recipebox/backend/config"
	"github.com/recipebox/backend/internal/types"
)

var dataURIRe = regexp.MustCompile(`^data:image/(png|jpe?g|gif|webp);base64,(.+)$`)

// ImageService decodes embedded recipe images and stores them either in S3
// or under a local media directory when S3 is not configured.
type ImageService struct {
	s3Config *config.S3Config
	mediaDir string
}

func NewImageService(s3Config *config.S3Config, mediaDir string) *ImageService {
	return &ImageService{
		s3Config: s3Config,
		mediaDir: mediaDir,
	}
}

// SaveBase64 decodes a base64 image payload (optionally a data URI) and
// stores it, returning the stored asset reference.
func (s *ImageService) SaveBase64(ctx context.Context, data string) (string, error) {
	ext := "png"
	payload := data
	if m := dataURIRe.FindStringSubmatch(data); m != nil {
		ext = m[1]
		payload = m[2]
	}
	if ext == "jpg" {
		ext = "jpeg"
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil || len(raw) == 0 {
		return "", &types.ValidationError{Field: "image", Message: "invalid base64 image payload"}
	}

	key := fmt.Sprintf("recipes/%s.%s", uuid.New().String(), ext)

	if s.s3Config != nil {
		_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(s.s3Config.BucketName),
			Key:         aws.String(key),
			Body:        bytes.NewReader(raw),
			ContentType: aws.String("image/" + ext),
		})
		if err != nil {
			return "", fmt.Errorf("failed to upload image to S3: %w", err)
		}
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key), nil
	}

	path := filepath.Join(s.mediaDir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return "", err
	}
	return "/media/" + key, nil
}

// Remove deletes a previously stored asset by its reference. Callers use it
// to clean up an image whose owning record failed to persist.
func (s *ImageService) Remove(ctx context.Context, ref string) error {
	if s.s3Config != nil {
		prefix := fmt.Sprintf("https://%s.s3.amazonaws.com/", s.s3Config.BucketName)
		if !strings.HasPrefix(ref, prefix) {
			return nil
		}
		key := strings.TrimPrefix(ref, prefix)
		_, err := s.s3Config.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(s.s3Config.BucketName),
			Key:    aws.String(key),
		})
		return err
	}

	key := strings.TrimPrefix(ref, "/media/")
	if key == ref || key == "" {
		return nil
	}
	err := os.Remove(filepath.Join(s.mediaDir, filepath.FromSlash(key)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
