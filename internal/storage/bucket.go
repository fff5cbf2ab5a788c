package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/minio/minio-go/v7"
	miniocreds "github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog/log"
)

// EnsureBucket creates the bucket on an S3-compatible endpoint (MinIO) if it is missing
func EnsureBucket(ctx context.Context, cfg S3Config) error {
	if cfg.Endpoint == "" {
		return fmt.Errorf("S3_ENDPOINT is required to bootstrap a bucket")
	}

	host, secure := splitEndpoint(cfg.Endpoint)
	client, err := minio.New(host, &minio.Options{
		Creds:  miniocreds.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return fmt.Errorf("failed to create MinIO client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if exists {
		return nil
	}

	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
	}
	log.Info().Str("bucket", cfg.Bucket).Str("endpoint", host).Msg("Created storage bucket")
	return nil
}

// splitEndpoint strips the scheme; minio-go takes host:port plus a TLS flag
func splitEndpoint(endpoint string) (host string, secure bool) {
	switch {
	case strings.HasPrefix(endpoint, "https://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "https://"), "/"), true
	case strings.HasPrefix(endpoint, "http://"):
		return strings.TrimSuffix(strings.TrimPrefix(endpoint, "http://"), "/"), false
	default:
		return strings.TrimSuffix(endpoint, "/"), false
	}
}
