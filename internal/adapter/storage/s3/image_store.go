package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/Zethembe177/Job-Portal/internal/domain"
	"github.com/Zethembe177/Job-Portal/internal/platform/logger"
	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

// Config carries the object store connection parameters.
type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// ImageStore keeps listing attachments in a MinIO bucket and hands out
// public URLs for them.
type ImageStore struct {
	client *minio.Client
	bucket string
	logger *logger.Logger
}

// NewImageStore connects to the object store and ensures the bucket exists.
func NewImageStore(ctx context.Context, cfg Config, log *logger.Logger) (*ImageStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ensureCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ensureCtx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %q: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ensureCtx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %q: %w", cfg.Bucket, err)
		}
		log.Info("Created object storage bucket", zap.String("bucket", cfg.Bucket))
	}

	return &ImageStore{
		client: client,
		bucket: cfg.Bucket,
		logger: log.Named("ImageStore"),
	}, nil
}

// Upload stores the bytes under a fresh object key and returns the public
// URL plus the key for later deletion.
func (s *ImageStore) Upload(ctx context.Context, fileName string, data []byte) (domain.Image, error) {
	objectKey := "listings/" + uuid.NewString() + strings.ToLower(filepath.Ext(fileName))

	reader := bytes.NewReader(data)
	_, err := s.client.PutObject(ctx, s.bucket, objectKey, reader, int64(len(data)), minio.PutObjectOptions{
		ContentType: contentTypeForExt(filepath.Ext(fileName)),
	})
	if err != nil {
		s.logger.Error("Failed to upload image", zap.String("object_key", objectKey), zap.Error(err))
		return domain.Image{}, fmt.Errorf("failed to upload object: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL(), s.bucket, objectKey)
	s.logger.Debug("Uploaded image", zap.String("object_key", objectKey), zap.Int("size_bytes", len(data)))
	return domain.Image{URL: url, PublicID: objectKey}, nil
}

// Delete removes the object identified by its key.
func (s *ImageStore) Delete(ctx context.Context, publicID string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %q: %w", publicID, err)
	}
	return nil
}

func contentTypeForExt(ext string) string {
	switch strings.ToLower(ext) {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

var _ domain.ImageStore = (*ImageStore)(nil)
