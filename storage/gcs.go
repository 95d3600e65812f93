package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"streampack/config"
	"streampack/logger"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSClient talks to Google Cloud Storage.
type GCSClient struct {
	client *gcs.Client
}

// NewGCSClient builds a GCS-backed storage client. A service-account JSON
// file may be configured; otherwise application default credentials apply.
func NewGCSClient(ctx context.Context) (*GCSClient, error) {
	var opts []option.ClientOption
	if credsFile := config.GetGCSCredentialsFile(); credsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credsFile))
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}
	return &GCSClient{client: client}, nil
}

func (c *GCSClient) Download(ctx context.Context, bucket, key, destPath string) error {
	rc, err := c.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		return fmt.Errorf("failed to open object %s in bucket %s: %w", key, bucket, err)
	}
	defer rc.Close()

	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, rc); err != nil {
		return fmt.Errorf("failed to download object %s from bucket %s: %w", key, bucket, err)
	}

	logger.Debugf("Downloaded object '%s' from bucket '%s' to %s", key, bucket, destPath)
	return nil
}

func (c *GCSClient) Upload(ctx context.Context, bucket, key, srcPath, contentType string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", srcPath, err)
	}
	defer f.Close()

	wc := c.client.Bucket(bucket).Object(key).NewWriter(ctx)
	wc.ContentType = contentType

	if _, err := io.Copy(wc, f); err != nil {
		wc.Close()
		return fmt.Errorf("io.Copy: %w", err)
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("Writer.Close: %w", err)
	}

	logger.Debugf("Uploaded object '%s' to bucket '%s'", key, bucket)
	return nil
}

func (c *GCSClient) PresignURL(_ context.Context, bucket, key string) (string, error) {
	url, err := c.client.Bucket(bucket).SignedURL(key, &gcs.SignedURLOptions{
		Scheme:  gcs.SigningSchemeV4,
		Method:  "GET",
		Expires: time.Now().Add(config.GetPresignTTL()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign URL for object %s in bucket %s: %w", key, bucket, err)
	}
	return url, nil
}
