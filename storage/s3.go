package storage

import (
	"context"
	"fmt"
	"os"

	"streampack/config"
	"streampack/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Client talks to AWS S3 or any compatible endpoint (MinIO etc.).
type S3Client struct {
	client     *s3.Client
	uploader   *manager.Uploader
	downloader *manager.Downloader
	presigner  *s3.PresignClient
}

// NewS3Client builds an S3-backed storage client from environment
// configuration: region, static credentials, and an optional custom
// endpoint.
func NewS3Client(_ context.Context) (*S3Client, error) {
	region := config.GetS3Region()
	if region == "" {
		return nil, fmt.Errorf("s3 backend: STREAMPACK_S3_REGION not set")
	}

	opts := s3.Options{
		Region: region,
		Credentials: credentials.NewStaticCredentialsProvider(
			config.GetS3AccessKey(), config.GetS3SecretKey(), ""),
	}
	if endpoint := config.GetS3Endpoint(); endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
		opts.UsePathStyle = true
	}

	client := s3.New(opts)
	return &S3Client{
		client:     client,
		uploader:   manager.NewUploader(client),
		downloader: manager.NewDownloader(client),
		presigner:  s3.NewPresignClient(client),
	}, nil
}

func (c *S3Client) Download(ctx context.Context, bucket, key, destPath string) error {
	f, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer f.Close()

	_, err = c.downloader.Download(ctx, f, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to download object %s from bucket %s: %w", key, bucket, err)
	}

	logger.Debugf("Downloaded object '%s' from bucket '%s' to %s", key, bucket, destPath)
	return nil
}

func (c *S3Client) Upload(ctx context.Context, bucket, key, srcPath, contentType string) error {
	f, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", srcPath, err)
	}
	defer f.Close()

	_, err = c.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object %s to bucket %s: %w", key, bucket, err)
	}

	logger.Debugf("Uploaded object '%s' to bucket '%s'", key, bucket)
	return nil
}

func (c *S3Client) PresignURL(ctx context.Context, bucket, key string) (string, error) {
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(config.GetPresignTTL()))
	if err != nil {
		return "", fmt.Errorf("failed to presign object %s in bucket %s: %w", key, bucket, err)
	}
	return req.URL, nil
}
