package storage

import (
	"context"
	"fmt"

	"github.com/bayside-church/magnus-cli/internal/config"
	"github.com/bayside-church/magnus-cli/internal/storage/local"
	s3backend "github.com/bayside-church/magnus-cli/internal/storage/s3"
)

// New creates the Backend selected by cfg. root is the local pull root used
// by the local backend.
func New(ctx context.Context, cfg config.StorageConfig, root string) (Backend, error) {
	switch cfg.Backend {
	case "", "local":
		b, err := local.New(local.Config{RootPath: root})
		if err != nil {
			return nil, err
		}
		return b, nil
	case "s3":
		b, err := s3backend.New(ctx, s3backend.Config{
			Endpoint:  cfg.S3.Endpoint,
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
		})
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", cfg.Backend)
	}
}
