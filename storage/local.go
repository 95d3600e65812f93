package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"streampack/config"
	"streampack/logger"
)

// LocalClient keeps objects on the local filesystem under the serve
// directory, where the HTTP server exposes them directly. Useful for
// single-node deployments and tests.
type LocalClient struct {
	baseDir string
	baseURL string
}

func NewLocalClient() (*LocalClient, error) {
	return &LocalClient{
		baseDir: config.GetServeDir(),
		baseURL: config.GetServeBaseURL(),
	}, nil
}

func (c *LocalClient) objectPath(bucket, key string) string {
	return filepath.Join(c.baseDir, bucket, filepath.FromSlash(key))
}

func (c *LocalClient) Download(_ context.Context, bucket, key, destPath string) error {
	src, err := os.Open(c.objectPath(bucket, key))
	if err != nil {
		return fmt.Errorf("failed to open object %s/%s: %w", bucket, key, err)
	}
	defer src.Close()

	dst, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", destPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to copy object %s/%s: %w", bucket, key, err)
	}
	return nil
}

func (c *LocalClient) Upload(_ context.Context, bucket, key, srcPath, _ string) error {
	dest := c.objectPath(bucket, key)
	if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	src, err := os.Open(srcPath)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", srcPath, err)
	}
	defer src.Close()

	dst, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create file %s: %w", dest, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return fmt.Errorf("failed to write to file %s: %w", dest, err)
	}

	logger.Debugf("Saved object '%s/%s' to '%s'", bucket, key, dest)
	return nil
}

func (c *LocalClient) PresignURL(_ context.Context, bucket, key string) (string, error) {
	return strings.TrimSuffix(c.baseURL, "/") + path.Join("/", bucket, key), nil
}
