package job

import (
	"context"
	"fmt"
	"sync"
)

// State represents the lifecycle stage of a job.
type State int

const (
	StatePending State = iota
	StateProcessing
	StateCompleted
	StateFailed
	StateCancelled
)

// String returns the wire name of a state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateProcessing:
		return "processing"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

var (
	jobStates   = make(map[string]State)              // job id -> lifecycle state
	jobCancels  = make(map[string]context.CancelFunc) // job id -> cancel for pending/processing jobs
	jobProgress = make(map[string]float64)            // job id -> percent complete, 0-100
	mu          sync.RWMutex
)

// Track registers a newly accepted job as pending.
func Track(jobID string) {
	mu.Lock()
	defer mu.Unlock()
	jobStates[jobID] = StatePending
	jobProgress[jobID] = 0
}

// setState transitions a job and registers or clears its cancel function.
// A cancelled job stays cancelled: an acknowledged cancellation must not be
// overwritten by a worker racing toward a different terminal state.
func setState(jobID string, state State, cancel context.CancelFunc) {
	mu.Lock()
	defer mu.Unlock()
	if jobStates[jobID] == StateCancelled {
		delete(jobCancels, jobID)
		return
	}
	jobStates[jobID] = state
	if cancel != nil {
		jobCancels[jobID] = cancel
	} else {
		delete(jobCancels, jobID)
	}
	if state == StateCompleted {
		jobProgress[jobID] = 100
	}
}

// claimForProcessing atomically moves a pending job to processing and
// registers its cancel function. It refuses when the job was cancelled while
// queued, so a dequeue racing a cancellation cannot resurrect the job.
func claimForProcessing(jobID string, cancel context.CancelFunc) bool {
	mu.Lock()
	defer mu.Unlock()
	if jobStates[jobID] != StatePending {
		return false
	}
	jobStates[jobID] = StateProcessing
	jobCancels[jobID] = cancel
	return true
}

// GetState returns the current state of a job.
func GetState(jobID string) (State, bool) {
	mu.RLock()
	defer mu.RUnlock()
	state, exists := jobStates[jobID]
	return state, exists
}

// GetProgress returns a job's percent complete.
func GetProgress(jobID string) (float64, bool) {
	mu.RLock()
	defer mu.RUnlock()
	p, exists := jobProgress[jobID]
	return p, exists
}

// UpdateProgress records a job's percent complete. Progress never moves
// backwards; stale subprocess reports are dropped.
func UpdateProgress(jobID string, percent float64) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	mu.Lock()
	defer mu.Unlock()
	if percent > jobProgress[jobID] {
		jobProgress[jobID] = percent
	}
}

// Cancel cancels a pending or processing job. Cancelling a processing job
// kills its running subprocess through the job context.
func Cancel(jobID string) error {
	mu.Lock()
	defer mu.Unlock()

	state, exists := jobStates[jobID]
	if !exists {
		return fmt.Errorf("job %s not found", jobID)
	}

	switch state {
	case StateCompleted:
		return fmt.Errorf("job %s is already completed", jobID)
	case StateFailed:
		return fmt.Errorf("job %s has already failed", jobID)
	case StateCancelled:
		return fmt.Errorf("job %s is already cancelled", jobID)
	case StatePending, StateProcessing:
		if cancel, ok := jobCancels[jobID]; ok {
			cancel()
			delete(jobCancels, jobID)
		}
		jobStates[jobID] = StateCancelled
		return nil
	default:
		return fmt.Errorf("job %s is in unknown state", jobID)
	}
}

// isCancelled reports whether the job was already moved to cancelled, which
// happens under the broker lock before the context fires.
func isCancelled(jobID string) bool {
	mu.RLock()
	defer mu.RUnlock()
	return jobStates[jobID] == StateCancelled
}
