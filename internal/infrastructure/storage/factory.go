package storage

import (
	"context"
	"fmt"

	"propertyhub-backend/internal/config"
)

// New picks the backend named by STORAGE_DRIVER.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.StorageDriver {
	case "", "s3", "minio":
		return NewS3Storage(ctx, S3Options{
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			UseSSL:    cfg.S3UseSSL,
			PublicURL: cfg.S3PublicURL,
		})
	case "supabase":
		return &SupabaseStorage{
			BaseURL:   cfg.SupabaseURL,
			SecretKey: cfg.SupabaseSecretKey,
			Bucket:    cfg.SupabaseBucket,
		}, nil
	default:
		return nil, fmt.Errorf("storage: unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}
}
