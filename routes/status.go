package routes

import (
	"encoding/json"
	"fmt"
	"net/http"

	"streampack/job"
	"streampack/logger"
)

// JobStatusResponse represents the job status response
type JobStatusResponse struct {
	ID       string  `json:"id"`
	State    string  `json:"state"`
	Progress float64 `json:"progress"`
}

// JobStatusHandler returns the state and progress of a job by id
func JobStatusHandler(w http.ResponseWriter, r *http.Request) {
	logger.Debugf("Job status request: method=%s, remoteAddr=%s", r.Method, r.RemoteAddr)

	if r.Method != http.MethodGet {
		logger.Warnf("Invalid method for status endpoint: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		logger.Warn("Missing id parameter in status request")
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return
	}

	state, exists := job.GetState(id)
	if !exists {
		logger.Warnf("Job not found: %s", id)
		http.Error(w, fmt.Sprintf("Job %s not found", id), http.StatusNotFound)
		return
	}

	progress, _ := job.GetProgress(id)

	response := JobStatusResponse{
		ID:       id,
		State:    state.String(),
		Progress: progress,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Errorf("Failed to encode status response: %v", err)
		return
	}
}
