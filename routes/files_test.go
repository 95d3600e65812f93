package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"streampack/storage"
)

func TestFilesHandlerServesLocalBackendURLs(t *testing.T) {
	serveDir := t.TempDir()
	t.Setenv("STREAMPACK_SERVE_DIR", serveDir)
	t.Setenv("STREAMPACK_SERVE_BASE_URL", "/files")

	client, err := storage.NewLocalClient()
	if err != nil {
		t.Fatalf("NewLocalClient failed: %v", err)
	}

	src := filepath.Join(t.TempDir(), "master.m3u8")
	if err := os.WriteFile(src, []byte("#EXTM3U\n"), 0644); err != nil {
		t.Fatalf("Failed to write source file: %v", err)
	}
	if err := client.Upload(context.Background(), "out", "movie/hls/master.m3u8", src, "application/vnd.apple.mpegurl"); err != nil {
		t.Fatalf("Upload failed: %v", err)
	}

	url, err := client.PresignURL(context.Background(), "out", "movie/hls/master.m3u8")
	if err != nil {
		t.Fatalf("PresignURL failed: %v", err)
	}

	// The retrieval URL the backend hands out must resolve through the
	// file handler the server mounts for it.
	handler := FilesHandler("/files", serveDir)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200 for %s, got %d", url, w.Code)
	}
	if got := w.Body.String(); got != "#EXTM3U\n" {
		t.Errorf("Unexpected body: %q", got)
	}
}

func TestFilesHandlerMissingFile(t *testing.T) {
	handler := FilesHandler("/files", t.TempDir())
	req := httptest.NewRequest(http.MethodGet, "/files/out/nope.ts", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for absent file, got %d", w.Code)
	}
}
