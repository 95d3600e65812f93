package routes

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"streampack/job"
	"streampack/models"
	taskqueue "streampack/taskQueue"
	"streampack/utils"
)

const testSecret = "routes-test-secret-at-least-32-bytes-long!"

func setupSubmitTest(t *testing.T) {
	t.Helper()
	t.Setenv("STREAMPACK_DATA_DIR", t.TempDir())
	t.Setenv("STREAMPACK_JWT_SECRET", testSecret)
	if err := taskqueue.OpenPendingQueue(); err != nil {
		t.Fatalf("Failed to open pending queue: %v", err)
	}
	t.Cleanup(func() { taskqueue.ClosePendingQueue() })
}

func submitToken(t *testing.T, jobType string, payload interface{}) string {
	t.Helper()
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("Failed to marshal payload: %v", err)
	}
	claims := &models.SubmitClaims{
		Subject:   "test",
		IssuedAt:  time.Now().Unix(),
		ExpiresAt: time.Now().Add(time.Hour).Unix(),
		Job:       models.JobSubmitted{Type: jobType, Payload: raw},
	}
	token, err := utils.CreateJobToken(claims, []byte(testSecret))
	if err != nil {
		t.Fatalf("Failed to create token: %v", err)
	}
	return token
}

func TestSubmitJobAccepted(t *testing.T) {
	setupSubmitTest(t)

	token := submitToken(t, models.JobTypeTranscode, models.TranscodePayload{
		SourceBucket: "in",
		SourceKey:    "movie.mp4",
		OutputBucket: "out",
		OutputPrefix: "movie/hls",
	})

	req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	SubmitJobHandler(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d: %s", w.Code, w.Body.String())
	}

	var resp SubmitResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.ID == "" {
		t.Error("Expected a job id")
	}
	if resp.State != "pending" {
		t.Errorf("Expected pending state, got %s", resp.State)
	}

	// The job must be tracked and durably queued.
	if state, exists := job.GetState(resp.ID); !exists || state != job.StatePending {
		t.Errorf("Job not tracked as pending: %v (exists=%v)", state, exists)
	}
	envs, err := taskqueue.AllPending()
	if err != nil {
		t.Fatalf("AllPending failed: %v", err)
	}
	found := false
	for _, env := range envs {
		if env.ID == resp.ID {
			found = true
		}
	}
	if !found {
		t.Error("Accepted job not found in the pending queue")
	}
}

func TestSubmitJobMissingToken(t *testing.T) {
	setupSubmitTest(t)

	req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
	w := httptest.NewRecorder()
	SubmitJobHandler(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestSubmitJobInvalidPayload(t *testing.T) {
	setupSubmitTest(t)

	token := submitToken(t, models.JobTypeTranscode, models.TranscodePayload{
		SourceBucket: "in",
	})

	req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	SubmitJobHandler(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for incomplete payload, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSubmitJobUnknownType(t *testing.T) {
	setupSubmitTest(t)

	token := submitToken(t, "repackage", models.TranscodePayload{
		SourceBucket: "in",
		SourceKey:    "movie.mp4",
		OutputBucket: "out",
		OutputPrefix: "movie/hls",
	})

	req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	SubmitJobHandler(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown job type, got %d", w.Code)
	}
}

func TestSubmitJobWrongMethod(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/jobs", nil)
	w := httptest.NewRecorder()
	SubmitJobHandler(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected 405, got %d", w.Code)
	}
}

func TestStatusAndCancelEndpoints(t *testing.T) {
	setupSubmitTest(t)

	token := submitToken(t, models.JobTypeSubtitle, models.SubtitlePayload{
		SourceBucket: "in",
		SourceKey:    "movie.mkv",
		OutputBucket: "out",
		OutputPrefix: "movie/subs",
	})

	req := httptest.NewRequest(http.MethodPost, "/jobs", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	SubmitJobHandler(w, req)
	if w.Code != http.StatusAccepted {
		t.Fatalf("Submission failed: %d", w.Code)
	}
	var resp SubmitResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	// Status reports the tracked state.
	req = httptest.NewRequest(http.MethodGet, "/status?id="+resp.ID, nil)
	w = httptest.NewRecorder()
	JobStatusHandler(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("Status lookup failed: %d", w.Code)
	}
	var status JobStatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("Failed to decode status: %v", err)
	}
	if status.State != "pending" {
		t.Errorf("Expected pending, got %s", status.State)
	}

	// Cancel succeeds while pending.
	req = httptest.NewRequest(http.MethodDelete, "/cancel?id="+resp.ID, nil)
	w = httptest.NewRecorder()
	CancelJobHandler(w, req)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected 204 on cancel, got %d: %s", w.Code, w.Body.String())
	}

	// A second cancel conflicts.
	req = httptest.NewRequest(http.MethodDelete, "/cancel?id="+resp.ID, nil)
	w = httptest.NewRecorder()
	CancelJobHandler(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 on double cancel, got %d", w.Code)
	}
}

func TestStatusUnknownJob(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/status?id=nope", nil)
	w := httptest.NewRecorder()
	JobStatusHandler(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}
