package models

import "encoding/json"

// SubmitClaims is the JWT claim set carried by a job-submission request.
// The job envelope rides inside the token so a submission is a single signed
// artifact: type tag plus the type-specific payload from job.go.
type SubmitClaims struct {
	Issuer    string       `json:"iss"` // optional
	Subject   string       `json:"sub"`
	IssuedAt  int64        `json:"iat"`
	ExpiresAt int64        `json:"exp"`
	Job       JobSubmitted `json:"job"`
}

// JobSubmitted is the job envelope inside a submission token.
type JobSubmitted struct {
	Type    string          `json:"type"`    // transcode | trickplay | subtitle
	Payload json.RawMessage `json:"payload"` // shape depends on Type
}
