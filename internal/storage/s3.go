package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"inkwell/internal/config"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"
)

// S3Uploader stores images in an S3 bucket.
type S3Uploader struct {
	uploader *s3manager.Uploader
	bucket   string
}

// NewS3Uploader builds the S3 backend from configuration.
func NewS3Uploader(cfg *config.Config) (*S3Uploader, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET is required for the s3 upload provider")
	}

	awsCfg := aws.NewConfig().WithRegion(cfg.AWSRegion)
	if cfg.AWSAccessKeyID != "" {
		awsCfg = awsCfg.WithCredentials(
			credentials.NewStaticCredentials(cfg.AWSAccessKeyID, cfg.AWSSecretAccessKey, ""),
		)
	}

	sess, err := session.NewSession(awsCfg)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	return &S3Uploader{
		uploader: s3manager.NewUploader(sess),
		bucket:   cfg.S3Bucket,
	}, nil
}

// Upload stores the image under a unique key and returns its public URL.
func (u *S3Uploader) Upload(ctx context.Context, data []byte, filename, contentType string) (string, error) {
	key := fmt.Sprintf("images/%s%s", uuid.NewString(), filepath.Ext(filename))

	out, err := u.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload: %w", err)
	}
	return out.Location, nil
}

func (u *S3Uploader) Provider() string { return "s3" }
