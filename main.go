package main

import (
	"context"
	"net/http"
	"os/exec"
	"strings"
	"time"

	"streampack/config"
	"streampack/failures"
	"streampack/job"
	"streampack/logger"
	"streampack/results"
	"streampack/routes"
	"streampack/storage"
	taskqueue "streampack/taskQueue"
)

func main() {
	logger.Info("Starting streampack server initialization")

	// The whole service is a wrapper around these two binaries; refuse to
	// start without them.
	if _, err := exec.LookPath(config.FFmpegPath()); err != nil {
		logger.Fatalf("ffmpeg not found (%s): %v", config.FFmpegPath(), err)
	}
	if _, err := exec.LookPath(config.FFprobePath()); err != nil {
		logger.Fatalf("ffprobe not found (%s): %v", config.FFprobePath(), err)
	}

	// Initialize the pending-job queue
	logger.Debug("Initializing pending queue database")
	if err := taskqueue.OpenPendingQueue(); err != nil {
		logger.Fatalf("Failed to initialize pending queue: %v", err)
	}
	defer taskqueue.ClosePendingQueue()
	logger.Info("Pending queue database initialized successfully")

	// Initialize failure store
	logger.Debug("Initializing failures database")
	if err := failures.Init(config.GetFailuresDBPath()); err != nil {
		logger.Fatalf("Failed to initialize failure store: %v", err)
	}
	defer failures.Close()
	logger.Info("Failures database initialized successfully")

	// Initialize result store
	logger.Debug("Initializing results database")
	if err := results.Init(config.GetResultsDBPath()); err != nil {
		logger.Fatalf("Failed to initialize result store: %v", err)
	}
	defer results.Close()
	logger.Info("Results database initialized successfully")

	// Build the configured storage backend
	logger.Debugf("Initializing %s storage backend", config.GetStorageBackend())
	store, err := storage.NewFromConfig(context.Background())
	if err != nil {
		logger.Fatalf("Failed to initialize storage backend: %v", err)
	}
	job.SetStorage(store)
	logger.Info("Storage backend initialized successfully")

	// Re-enqueue jobs accepted before the last shutdown
	logger.Info("Scanning for pending jobs on startup")
	if err := job.RecoverPending(); err != nil {
		logger.Errorf("Failed to recover pending jobs: %v", err)
		// Don't exit - continue with server startup
	}

	// Start cleanup routine for old records (runs every 24 hours)
	logger.Info("Starting cleanup routine (runs every 24 hours)")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go cleanupRoutine(ctx)

	// Start the worker pool
	job.Start(config.GetWorkerCount())

	// Register HTTP routes
	logger.Info("Registering HTTP routes")
	http.HandleFunc("/jobs", routes.SubmitJobHandler)
	http.HandleFunc("/health", routes.HealthHandler)
	http.HandleFunc("/version", routes.VersionHandler)
	http.HandleFunc("/status", routes.JobStatusHandler)
	http.HandleFunc("/cancel", routes.CancelJobHandler)
	http.HandleFunc("/result", routes.JobResultHandler)
	http.HandleFunc("/result/list", routes.ResultListHandler)
	http.HandleFunc("/failures", routes.FailureQueryHandler)
	http.HandleFunc("/failures/list", routes.FailureListHandler)
	if config.GetStorageBackend() == "local" {
		// The local backend's retrieval URLs point back at this server.
		base := strings.TrimSuffix(config.GetServeBaseURL(), "/")
		http.Handle(base+"/", routes.FilesHandler(base, config.GetServeDir()))
		logger.Infof("Serving local storage from %s under %s/", config.GetServeDir(), base)
	}
	logger.Info("HTTP routes registered successfully")

	addr := config.GetListenAddr()
	logger.Infof("streampack server starting on %s", addr)
	if err := http.ListenAndServe(addr, nil); err != nil {
		logger.Fatalf("Server failed to start: %v", err)
	}
}

// cleanupRoutine periodically cleans up old result and failure records
func cleanupRoutine(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("Cleanup routine stopped due to context cancellation")
			return
		case <-ticker.C:
			logger.Info("Running scheduled cleanup of old records")
			maxAge := 30 * 24 * time.Hour

			if err := results.CleanupOldRecords(maxAge); err != nil {
				logger.Errorf("Failed to cleanup old result records: %v", err)
			}
			if err := failures.CleanupOldRecords(maxAge); err != nil {
				logger.Errorf("Failed to cleanup old failure records: %v", err)
			}
		}
	}
}
