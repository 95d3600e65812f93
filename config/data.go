package config

import (
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// GetDataDir returns the directory where streampack stores its databases.
// Priority: STREAMPACK_DATA_DIR environment variable > "./data" default.
func GetDataDir() string {
	if dir := os.Getenv("STREAMPACK_DATA_DIR"); dir != "" {
		return dir
	}
	return "./data"
}

// GetWorkDir returns the directory under which per-job scratch workspaces
// are created. Defaults to the OS temp directory.
func GetWorkDir() string {
	if dir := os.Getenv("STREAMPACK_WORK_DIR"); dir != "" {
		return dir
	}
	return os.TempDir()
}

// GetPendingQueuePath returns the full path to the pending-job queue database.
// Path: {DATA_DIR}/PendingJobs.db
func GetPendingQueuePath() string {
	return filepath.Join(GetDataDir(), "PendingJobs.db")
}

// GetResultsDBPath returns the full path to the completed-results database.
// Path: {DATA_DIR}/results.db
func GetResultsDBPath() string {
	return filepath.Join(GetDataDir(), "results.db")
}

// GetFailuresDBPath returns the full path to the failures database.
// Path: {DATA_DIR}/failures.db
func GetFailuresDBPath() string {
	return filepath.Join(GetDataDir(), "failures.db")
}

// GetWorkerCount returns how many job invocations may run concurrently.
// Each worker slot runs exactly one job at a time; within a job all stages
// are sequential. Defaults to 1.
func GetWorkerCount() int {
	if v := os.Getenv("STREAMPACK_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return 1
}

// GetListenAddr returns the HTTP listen address for the job API.
func GetListenAddr() string {
	if addr := os.Getenv("STREAMPACK_ADDR"); addr != "" {
		return addr
	}
	return ":8080"
}

// GetJWTSecret returns the shared HMAC secret used to verify job-submission
// tokens. Submission is rejected when unset.
func GetJWTSecret() string {
	return os.Getenv("STREAMPACK_JWT_SECRET")
}

// FFmpegPath returns the ffmpeg binary to invoke, overridable for
// non-standard installs.
func FFmpegPath() string {
	if p := os.Getenv("STREAMPACK_FFMPEG"); p != "" {
		return p
	}
	return "ffmpeg"
}

// FFprobePath returns the ffprobe binary to invoke.
func FFprobePath() string {
	if p := os.Getenv("STREAMPACK_FFPROBE"); p != "" {
		return p
	}
	return "ffprobe"
}

// GetStorageBackend selects the object-storage backend: "s3", "gcs", "sftp"
// or "local". Defaults to "s3".
func GetStorageBackend() string {
	if b := os.Getenv("STREAMPACK_STORAGE"); b != "" {
		return b
	}
	return "s3"
}

// S3 backend settings.
func GetS3Region() string    { return os.Getenv("STREAMPACK_S3_REGION") }
func GetS3AccessKey() string { return os.Getenv("STREAMPACK_S3_ACCESS_KEY") }
func GetS3SecretKey() string { return os.Getenv("STREAMPACK_S3_SECRET_KEY") }

// GetS3Endpoint returns a custom S3 endpoint (MinIO and friends); empty means
// the default AWS endpoints.
func GetS3Endpoint() string { return os.Getenv("STREAMPACK_S3_ENDPOINT") }

// GetGCSCredentialsFile returns the service-account JSON path for the GCS
// backend; empty means application default credentials.
func GetGCSCredentialsFile() string { return os.Getenv("STREAMPACK_GCS_CREDENTIALS") }

// SFTP backend settings.
func GetSFTPHost() string { return os.Getenv("STREAMPACK_SFTP_HOST") }
func GetSFTPUser() string { return os.Getenv("STREAMPACK_SFTP_USER") }
func GetSFTPPassword() string { return os.Getenv("STREAMPACK_SFTP_PASSWORD") }
func GetSFTPPrivateKey() string { return os.Getenv("STREAMPACK_SFTP_KEY") }

func GetSFTPPort() string {
	if p := os.Getenv("STREAMPACK_SFTP_PORT"); p != "" {
		return p
	}
	return "22"
}

// GetSFTPBaseURL returns the public URL prefix under which SFTP-uploaded
// files are served; used to build retrievable URLs.
func GetSFTPBaseURL() string { return os.Getenv("STREAMPACK_SFTP_BASE_URL") }

// GetServeDir returns the base directory for the local storage backend.
// Files written there are served directly by this server.
// Defaults to "./serve".
func GetServeDir() string {
	if dir := os.Getenv("STREAMPACK_SERVE_DIR"); dir != "" {
		return dir
	}
	return "./serve"
}

// GetServeBaseURL returns the public URL prefix for the local backend.
func GetServeBaseURL() string {
	if u := os.Getenv("STREAMPACK_SERVE_BASE_URL"); u != "" {
		return u
	}
	return "/files"
}

// GetPresignTTL returns how long presigned retrieval URLs stay valid.
// STREAMPACK_PRESIGN_TTL_MINUTES, default 6 hours.
func GetPresignTTL() time.Duration {
	if v := os.Getenv("STREAMPACK_PRESIGN_TTL_MINUTES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return time.Duration(n) * time.Minute
		}
	}
	return 6 * time.Hour
}
