package storage

import (
	"context"
	"io"
	"log/slog"

	"github.com/cockroachdb/errors"

	"github.com/casetrack/casetrack/internal/config"
)

// Storage defines the interface for blob storage operations
type Storage interface {
	// Save stores the blob at the given key
	Save(ctx context.Context, key string, r io.Reader) error

	// Delete removes the blob at the given key
	Delete(ctx context.Context, key string) error

	// URL returns an address clients can fetch the blob from
	URL(ctx context.Context, key string) (string, error)
}

// New builds the storage backend selected by STORAGE_DRIVER.
func New(ctx context.Context, c *config.Config) (Storage, error) {
	switch c.StorageDriver {
	case config.StorageDriverS3:
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(ctx, S3Config{
			Region:        c.S3Region,
			Bucket:        c.S3Bucket,
			AccessKey:     c.S3AccessKey,
			SecretKey:     c.S3SecretKey,
			Endpoint:      c.S3Endpoint,
			PresignExpiry: c.S3PresignExpiry,
		})
	case config.StorageDriverLocal:
		slog.Info("initializing local storage", "path", c.StorageLocalPath)
		return NewLocalStorage(c.StorageLocalPath, LocalURLPrefix)
	default:
		return nil, errors.Newf("unsupported storage driver: %q", c.StorageDriver)
	}
}
