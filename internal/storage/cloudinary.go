package storage

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// CloudinaryUploader stores images in Cloudinary.
type CloudinaryUploader struct {
	client *cloudinary.Cloudinary
}

// NewCloudinaryUploader builds the Cloudinary backend from a CLOUDINARY_URL.
func NewCloudinaryUploader(url string) (*CloudinaryUploader, error) {
	if url == "" {
		return nil, fmt.Errorf("CLOUDINARY_URL is required for the cloudinary upload provider")
	}
	client, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("create cloudinary client: %w", err)
	}
	return &CloudinaryUploader{client: client}, nil
}

// Upload stores the image under a unique public ID and returns its secure URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	resp, err := u.client.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID: "blog/" + uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	return resp.SecureURL, nil
}

func (u *CloudinaryUploader) Provider() string { return "cloudinary" }
