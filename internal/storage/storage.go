// Package storage uploads user media to an object store.
package storage

import (
	"context"
	"fmt"

	"inkwell/internal/config"
)

// Uploader stores an image and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename, contentType string) (string, error)
	Provider() string
}

// New selects the configured upload backend.
func New(cfg *config.Config) (Uploader, error) {
	switch cfg.UploadProvider {
	case "cloudinary":
		return NewCloudinaryUploader(cfg.CloudinaryURL)
	case "s3", "":
		return NewS3Uploader(cfg)
	default:
		return nil, fmt.Errorf("unknown upload provider %q", cfg.UploadProvider)
	}
}
