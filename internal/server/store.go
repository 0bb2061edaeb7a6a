package server

import (
	"context"
	"fmt"

	"foodgram/internal/config"
	"foodgram/internal/storage"
)

// NewImageStore picks the image backend named by IMAGE_STORE.
func NewImageStore(ctx context.Context, cfg *config.Config) (storage.Store, error) {
	switch cfg.ImageStore {
	case "local", "":
		return storage.NewLocalStore(cfg.MediaDir, cfg.MediaURL)
	case "s3":
		return storage.NewS3Store(ctx, storage.S3Config{
			Bucket:    cfg.S3.Bucket,
			Region:    cfg.S3.Region,
			Endpoint:  cfg.S3.Endpoint,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			PublicURL: cfg.S3.PublicURL,
		})
	default:
		return nil, fmt.Errorf("unknown IMAGE_STORE %q", cfg.ImageStore)
	}
}
