package taskqueue

import (
	"encoding/json"
	"fmt"
	"sort"

	"streampack/config"
	"streampack/models"
)

// PendingQueue persists job envelopes so accepted work survives a process
// restart; the worker loop re-enqueues everything found here on startup.

var pendingQueue *DBQueue

// OpenPendingQueue opens the pending-job database.
func OpenPendingQueue() error {
	q, err := OpenQueue(config.GetPendingQueuePath())
	if err != nil {
		return fmt.Errorf("failed to open pending queue: %w", err)
	}
	pendingQueue = q
	return nil
}

// ClosePendingQueue closes the pending-job database.
func ClosePendingQueue() error {
	if pendingQueue != nil {
		return pendingQueue.Close()
	}
	return nil
}

// AddPending persists a job envelope keyed by job id.
func AddPending(env models.Envelope) error {
	if pendingQueue == nil {
		return fmt.Errorf("pending queue not initialized")
	}
	data, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal envelope: %w", err)
	}
	return pendingQueue.Add(env.ID, data)
}

// RemovePending drops a job envelope once the job reached a terminal state.
func RemovePending(id string) error {
	if pendingQueue == nil {
		return fmt.Errorf("pending queue not initialized")
	}
	return pendingQueue.Delete(id)
}

// AllPending returns every persisted envelope in enqueue order.
func AllPending() ([]models.Envelope, error) {
	if pendingQueue == nil {
		return nil, fmt.Errorf("pending queue not initialized")
	}
	var envs []models.Envelope
	err := pendingQueue.Each(func(_ string, value []byte) error {
		var env models.Envelope
		if err := json.Unmarshal(value, &env); err != nil {
			return nil // skip unreadable records
		}
		envs = append(envs, env)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(envs, func(i, j int) bool {
		return envs[i].EnqueuedAt.Before(envs[j].EnqueuedAt)
	})
	return envs, nil
}
