package routes

import (
	"encoding/json"
	"fmt"
	"net/http"

	"streampack/logger"
	"streampack/results"
)

// JobResultHandler returns the stored result of a completed job by id
func JobResultHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	id := r.URL.Query().Get("id")
	if id == "" {
		http.Error(w, "Missing id parameter", http.StatusBadRequest)
		return
	}

	record, err := results.GetResult(id)
	if err != nil {
		logger.Errorf("Failed to query result for job %s: %v", id, err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if record == nil {
		http.Error(w, fmt.Sprintf("No result for job %s", id), http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(record); err != nil {
		logger.Errorf("Failed to encode result response: %v", err)
	}
}

// ResultListHandler lists all stored results (admin endpoint)
func ResultListHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	resultList, err := results.ListResults()
	if err != nil {
		logger.Errorf("Failed to list results: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"results": resultList,
		"count":   len(resultList),
	})
}
