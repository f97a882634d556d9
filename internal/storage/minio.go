// Package storage provides object storage for listing photos, backed by
// MinIO (or any S3-compatible endpoint).
package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"wex_backend/platform/apperr"
	"wex_backend/platform/config"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	// PresignedURLTTL is the expiration for presigned upload/download URLs.
	PresignedURLTTL = 15 * time.Minute

	maxPhotoSizeBytes = 25 << 20
)

var allowedPhotoTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/heic": true,
}

// PresignedURL is a time-limited URL plus the object key it targets.
type PresignedURL struct {
	URL       string    `json:"url"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Service exposes the storage operations the warehouses module needs.
type Service interface {
	EnsureBucketExists(ctx context.Context, bucket string) error
	GenerateUploadURL(ctx context.Context, bucket, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error)
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (string, error)
	DeleteObject(ctx context.Context, bucket, fileKey string) error
}

// MinIOService implements Service using MinIO.
type MinIOService struct {
	client *minio.Client
}

// NewMinIOService creates a new MinIO storage service.
func NewMinIOService(cfg config.StorageConfig) (*MinIOService, error) {
	if cfg.GetMinioEndpoint() == "" {
		return nil, fmt.Errorf("minio is not configured")
	}

	client, err := minio.New(cfg.GetMinioEndpoint(), &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.GetMinioAccessKey(), cfg.GetMinioSecretKey(), ""),
		Secure: cfg.GetMinioUseSSL(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	return &MinIOService{client: client}, nil
}

// EnsureBucketExists creates the bucket if it doesn't exist.
func (s *MinIOService) EnsureBucketExists(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}
	if !exists {
		if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
		}
	}
	return nil
}

// GenerateUploadURL creates a presigned PUT URL for a listing photo. The
// object key gets a UUID suffix so re-uploads never overwrite.
func (s *MinIOService) GenerateUploadURL(ctx context.Context, bucket, folder, fileName, contentType string, sizeBytes int64) (*PresignedURL, error) {
	if !allowedPhotoTypes[strings.ToLower(contentType)] {
		return nil, apperr.Validation("unsupported photo content type")
	}
	if sizeBytes <= 0 || sizeBytes > maxPhotoSizeBytes {
		return nil, apperr.Validation("photo exceeds the maximum upload size")
	}

	ext := path.Ext(fileName)
	baseName := strings.TrimSuffix(fileName, ext)
	uniqueFileName := fmt.Sprintf("%s_%s%s", baseName, uuid.New().String()[:8], ext)
	fileKey := filepath.ToSlash(filepath.Join(folder, uniqueFileName))

	expiresAt := time.Now().Add(PresignedURLTTL)
	presignedURL, err := s.client.PresignedPutObject(ctx, bucket, fileKey, PresignedURLTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned upload URL: %w", err)
	}

	return &PresignedURL{
		URL:       presignedURL.String(),
		FileKey:   fileKey,
		ExpiresAt: expiresAt,
	}, nil
}

// GenerateDownloadURL creates a presigned GET URL for an existing object.
func (s *MinIOService) GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (string, error) {
	presignedURL, err := s.client.PresignedGetObject(ctx, bucket, fileKey, PresignedURLTTL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned download URL: %w", err)
	}
	return presignedURL.String(), nil
}

// DeleteObject removes an object from the bucket.
func (s *MinIOService) DeleteObject(ctx context.Context, bucket, fileKey string) error {
	if err := s.client.RemoveObject(ctx, bucket, fileKey, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s: %w", fileKey, err)
	}
	return nil
}

// Compile-time check that MinIOService implements Service
var _ Service = (*MinIOService)(nil)
