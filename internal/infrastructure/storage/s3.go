package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// S3Storage stores images in an S3-compatible bucket (MinIO, AWS S3, R2).
type S3Storage struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

type S3Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string // base for object URLs; defaults to endpoint/bucket
}

// NewS3Storage connects to the endpoint and makes sure the bucket exists.
func NewS3Storage(ctx context.Context, opts S3Options) (*S3Storage, error) {
	if opts.Endpoint == "" {
		return nil, fmt.Errorf("s3: S3_ENDPOINT is not set")
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("s3: create client for %s: %w", opts.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("s3: check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("s3: make bucket %s: %w", opts.Bucket, err)
		}
		log.Info().Str("bucket", opts.Bucket).Msg("s3 bucket created")
	}

	base := strings.TrimRight(opts.PublicURL, "/")
	if base == "" {
		base = fmt.Sprintf("%s/%s", client.EndpointURL().String(), opts.Bucket)
	}
	return &S3Storage{client: client, bucket: opts.Bucket, publicURL: base}, nil
}

func (s *S3Storage) Upload(ctx context.Context, name, contentType string, data []byte) (string, error) {
	key := ObjectKey(name)
	info, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: map[string]string{"original-filename": name},
	})
	if err != nil {
		return "", fmt.Errorf("s3: put %s: %w", key, err)
	}
	log.Debug().Str("bucket", info.Bucket).Str("key", info.Key).Int64("size", info.Size).Msg("image stored")
	return s.objectURL(key), nil
}

func (s *S3Storage) SignUpload(ctx context.Context, name string) (*SignedUpload, error) {
	key := ObjectKey(name)
	u, err := s.client.PresignedPutObject(ctx, s.bucket, key, signedUploadTTL)
	if err != nil {
		return nil, fmt.Errorf("s3: presign %s: %w", key, err)
	}
	return &SignedUpload{UploadURL: u.String(), PublicURL: s.objectURL(key), Path: key}, nil
}

func (s *S3Storage) objectURL(key string) string {
	return s.publicURL + "/" + key
}
