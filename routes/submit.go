package routes

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"streampack/config"
	"streampack/job"
	"streampack/logger"
	"streampack/models"
	"streampack/utils"

	"github.com/google/uuid"
)

// verifyJWT verifies the bearer token on a submission request and returns
// the claims.
func verifyJWT(r *http.Request) (*models.SubmitClaims, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return nil, fmt.Errorf("authorization header required")
	}

	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader {
		return nil, fmt.Errorf("invalid authorization header format")
	}

	secret := config.GetJWTSecret()
	if secret == "" {
		return nil, fmt.Errorf("server has no submission secret configured")
	}

	return utils.VerifyJobToken(token, utils.VerifyConfig{
		SecretKey: []byte(secret),
	})
}

// SubmitResponse is returned on successful job acceptance.
type SubmitResponse struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	State string `json:"state"`
}

// SubmitJobHandler accepts a new job. The job description travels inside a
// signed JWT; the payload is validated per job type before the job is
// durably enqueued.
func SubmitJobHandler(w http.ResponseWriter, r *http.Request) {
	logger.Debugf("Submit job request: method=%s, remoteAddr=%s", r.Method, r.RemoteAddr)

	if r.Method != http.MethodPost {
		logger.Warnf("Invalid method for submit endpoint: %s", r.Method)
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	claims, err := verifyJWT(r)
	if err != nil {
		logger.Warnf("Rejected job submission: %v", err)
		http.Error(w, fmt.Sprintf("Unauthorized: %v", err), http.StatusUnauthorized)
		return
	}

	payload, err := validatePayload(claims.Job.Type, claims.Job.Payload)
	if err != nil {
		logger.Warnf("Rejected %s job submission: %v", claims.Job.Type, err)
		http.Error(w, fmt.Sprintf("Invalid job: %v", err), http.StatusBadRequest)
		return
	}

	env := models.Envelope{
		ID:      uuid.NewString(),
		Type:    claims.Job.Type,
		Payload: payload,
	}

	if err := job.Enqueue(env); err != nil {
		logger.Errorf("Failed to enqueue job %s: %v", env.ID, err)
		http.Error(w, "Failed to enqueue job", http.StatusInternalServerError)
		return
	}

	logger.Infof("Accepted %s job %s", env.Type, env.ID)

	response := SubmitResponse{
		ID:    env.ID,
		Type:  env.Type,
		State: job.StatePending.String(),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		logger.Errorf("Failed to encode submit response: %v", err)
	}
}

// validatePayload decodes and validates the raw payload against its type,
// returning the normalized payload (with defaults filled in) re-encoded.
func validatePayload(jobType string, raw json.RawMessage) (json.RawMessage, error) {
	switch jobType {
	case models.JobTypeTranscode:
		var p models.TranscodePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("malformed payload: %w", err)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return json.Marshal(&p)
	case models.JobTypeTrickplay:
		var p models.TrickplayPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("malformed payload: %w", err)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return json.Marshal(&p)
	case models.JobTypeSubtitle:
		var p models.SubtitlePayload
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, fmt.Errorf("malformed payload: %w", err)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return json.Marshal(&p)
	default:
		return nil, fmt.Errorf("unknown job type %q", jobType)
	}
}
