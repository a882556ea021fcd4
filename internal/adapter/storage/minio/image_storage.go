package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/app/config"
	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ImageStorage keeps product photos in a MinIO (or any S3 compatible) bucket.
type ImageStorage struct {
	client    *minio.Client
	bucket    string
	publicURL string
	log       logger.Logger
}

// NewImageStorage connects and makes sure the bucket exists.
func NewImageStorage(ctx context.Context, cfg config.MinIOConfig, log logger.Logger) (*ImageStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", cfg.Endpoint, err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		log.Infof("Created image bucket %s", cfg.Bucket)
	}

	publicURL := cfg.PublicURL
	if publicURL == "" {
		publicURL = client.EndpointURL().String()
	}

	return &ImageStorage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
		log:       log,
	}, nil
}

func (s *ImageStorage) Upload(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectName, s.bucket, err)
	}
	s.log.Infof("Uploaded %s (%d bytes, etag %s)", info.Key, info.Size, info.ETag)
	return objectURL(s.publicURL, s.bucket, objectName), nil
}

func objectURL(base, bucket, objectName string) string {
	return fmt.Sprintf("%s/%s/%s", base, bucket, strings.TrimLeft(objectName, "/"))
}
