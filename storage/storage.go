// Package storage provides the object-storage client the job handlers use
// to fetch sources and publish outputs. One backend is active per process,
// selected from configuration: s3, gcs, sftp, or local.
package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"streampack/config"
)

// Client is the storage surface the jobs consume. Any error from these calls
// is fatal to the calling job.
type Client interface {
	// Download fetches bucket/key into destPath on the local filesystem.
	Download(ctx context.Context, bucket, key, destPath string) error
	// Upload publishes the local file at srcPath to bucket/key.
	Upload(ctx context.Context, bucket, key, srcPath, contentType string) error
	// PresignURL returns a retrievable URL for bucket/key.
	PresignURL(ctx context.Context, bucket, key string) (string, error)
}

// NewFromConfig builds the configured backend.
func NewFromConfig(ctx context.Context) (Client, error) {
	backend := config.GetStorageBackend()
	switch backend {
	case "s3":
		return NewS3Client(ctx)
	case "gcs":
		return NewGCSClient(ctx)
	case "sftp":
		return NewSFTPClient()
	case "local":
		return NewLocalClient()
	default:
		return nil, fmt.Errorf("unknown storage backend: %s", backend)
	}
}

// ContentTypeFor maps an output filename to the content type it is uploaded
// with.
func ContentTypeFor(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".m3u8":
		return "application/vnd.apple.mpegurl"
	case ".ts":
		return "video/mp2t"
	case ".vtt":
		return "text/vtt"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".mp4":
		return "video/mp4"
	default:
		return "application/octet-stream"
	}
}
