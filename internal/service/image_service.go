package service

import (
	"context"
	"fmt"
	"net/http"

	"inkwell/internal/middleware"
	"inkwell/internal/models"
	"inkwell/internal/storage"
)

// ImageService validates uploads and hands them to the configured object store.
type ImageService struct {
	uploader storage.Uploader
	maxBytes int
}

// UploadResult is the outcome of a successful image upload.
type UploadResult struct {
	URL string `json:"url"`
}

var allowedImageTypes = map[string]struct{}{
	"image/jpeg": {},
	"image/png":  {},
	"image/gif":  {},
	"image/webp": {},
}

// NewImageService creates a new image service. maxSizeMB bounds a single upload.
func NewImageService(uploader storage.Uploader, maxSizeMB int) *ImageService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &ImageService{
		uploader: uploader,
		maxBytes: maxSizeMB * 1024 * 1024,
	}
}

// Upload checks size and content type, then stores the image and returns its URL.
// The declared Content-Type is ignored; the type is sniffed from the bytes.
func (s *ImageService) Upload(ctx context.Context, data []byte, filename string) (*UploadResult, error) {
	if s.uploader == nil {
		return nil, models.NewValidationError("Image uploads are not configured")
	}
	if len(data) == 0 {
		return nil, models.NewValidationError("Image file is empty")
	}
	if len(data) > s.maxBytes {
		return nil, models.NewValidationError(
			fmt.Sprintf("Image too large (max %d MB)", s.maxBytes/(1024*1024)))
	}

	contentType := http.DetectContentType(data)
	if _, ok := allowedImageTypes[contentType]; !ok {
		return nil, models.NewValidationError("Unsupported image type (jpeg, png, gif or webp)")
	}

	url, err := s.uploader.Upload(ctx, data, filename, contentType)
	if err != nil {
		middleware.UploadFailures.WithLabelValues(s.uploader.Provider()).Inc()
		return nil, models.NewUpstreamError("Image storage", err)
	}
	return &UploadResult{URL: url}, nil
}
