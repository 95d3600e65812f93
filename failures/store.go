package failures

import (
	"encoding/json"
	"fmt"
	"time"

	pebble "github.com/cockroachdb/pebble"
)

// FailureRecord represents one failed job.
type FailureRecord struct {
	JobID     string    `json:"job_id"`
	JobType   string    `json:"job_type"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error"`
	Payload   string    `json:"payload"` // JSON string of the job payload
}

var db *pebble.DB

// Init initializes the failure store
func Init(dbPath string) error {
	var err error
	db, err = pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return fmt.Errorf("failed to open failure store: %w", err)
	}
	return nil
}

// Close closes the failure store
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// StoreFailure records a job failure keyed by job id.
func StoreFailure(jobID, jobType string, jobErr error, payload interface{}) error {
	if db == nil {
		return fmt.Errorf("failure store not initialized")
	}

	payloadJSON, jsonErr := json.Marshal(payload)
	if jsonErr != nil {
		payloadJSON = []byte(fmt.Sprintf("failed to marshal payload: %v", jsonErr))
	}

	record := FailureRecord{
		JobID:     jobID,
		JobType:   jobType,
		Timestamp: time.Now(),
		Error:     jobErr.Error(),
		Payload:   string(payloadJSON),
	}

	data, jsonErr := json.Marshal(record)
	if jsonErr != nil {
		return fmt.Errorf("failed to marshal failure record: %w", jsonErr)
	}

	return db.Set([]byte(jobID), data, pebble.Sync)
}

// GetFailure retrieves a failure record by job id; nil when none exists.
func GetFailure(jobID string) (*FailureRecord, error) {
	if db == nil {
		return nil, fmt.Errorf("failure store not initialized")
	}

	data, closer, err := db.Get([]byte(jobID))
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get failure: %w", err)
	}
	defer closer.Close()

	var record FailureRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal failure record: %w", err)
	}

	return &record, nil
}

// ListFailures returns all failure records (for admin purposes)
func ListFailures() ([]FailureRecord, error) {
	if db == nil {
		return nil, fmt.Errorf("failure store not initialized")
	}

	var records []FailureRecord
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var record FailureRecord
		if err := json.Unmarshal(iter.Value(), &record); err != nil {
			continue // Skip invalid records
		}
		records = append(records, record)
	}

	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("iteration error: %w", err)
	}

	return records, nil
}

// CleanupOldRecords deletes failure records older than maxAge.
func CleanupOldRecords(maxAge time.Duration) error {
	if db == nil {
		return fmt.Errorf("failure store not initialized")
	}

	cutoff := time.Now().Add(-maxAge)
	records, err := ListFailures()
	if err != nil {
		return err
	}

	for _, record := range records {
		if record.Timestamp.Before(cutoff) {
			if err := db.Delete([]byte(record.JobID), pebble.Sync); err != nil {
				return fmt.Errorf("failed to delete record %s: %w", record.JobID, err)
			}
		}
	}
	return nil
}
