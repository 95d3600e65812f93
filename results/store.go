package results

import (
	"encoding/json"
	"fmt"
	"time"

	pebble "github.com/cockroachdb/pebble"
)

// ResultRecord holds the typed success payload of one completed job.
type ResultRecord struct {
	JobID     string          `json:"job_id"`
	JobType   string          `json:"job_type"`
	Timestamp time.Time       `json:"timestamp"`
	Result    json.RawMessage `json:"result"`
}

var db *pebble.DB

// Init initializes the result store
func Init(dbPath string) error {
	var err error
	db, err = pebble.Open(dbPath, &pebble.Options{})
	if err != nil {
		return fmt.Errorf("failed to open result store: %w", err)
	}
	return nil
}

// Close closes the result store
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// StoreResult records a completed job's result object keyed by job id.
func StoreResult(jobID, jobType string, result interface{}) error {
	if db == nil {
		return fmt.Errorf("result store not initialized")
	}

	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	record := ResultRecord{
		JobID:     jobID,
		JobType:   jobType,
		Timestamp: time.Now(),
		Result:    resultJSON,
	}

	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal result record: %w", err)
	}

	return db.Set([]byte(jobID), data, pebble.Sync)
}

// GetResult retrieves a result record by job id; nil when none exists.
func GetResult(jobID string) (*ResultRecord, error) {
	if db == nil {
		return nil, fmt.Errorf("result store not initialized")
	}

	data, closer, err := db.Get([]byte(jobID))
	if err != nil {
		if err == pebble.ErrNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	defer closer.Close()

	var record ResultRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal result record: %w", err)
	}

	return &record, nil
}

// ListResults returns all result records (for admin purposes)
func ListResults() ([]ResultRecord, error) {
	if db == nil {
		return nil, fmt.Errorf("result store not initialized")
	}

	var records []ResultRecord
	iter, err := db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to create iterator: %w", err)
	}
	defer iter.Close()

	for iter.First(); iter.Valid(); iter.Next() {
		var record ResultRecord
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

// CleanupOldRecords deletes result records older than maxAge.
func CleanupOldRecords(maxAge time.Duration) error {
	if db == nil {
		return fmt.Errorf("result store not initialized")
	}

	cutoff := time.Now().Add(-maxAge)
	records, err := ListResults()
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
