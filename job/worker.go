package job

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"streampack/failures"
	"streampack/logger"
	"streampack/models"
	"streampack/results"
	"streampack/storage"
	taskqueue "streampack/taskQueue"
)

var (
	store     storage.Client
	pendingCh = make(chan models.Envelope, 256)
)

// SetStorage installs the storage backend every job handler reads from and
// writes to. Must be called before Start.
func SetStorage(c storage.Client) {
	store = c
}

// Enqueue persists an accepted job and hands it to the worker pool. The
// envelope is durable before this returns, so an accepted job survives a
// process restart.
func Enqueue(env models.Envelope) error {
	if env.EnqueuedAt.IsZero() {
		env.EnqueuedAt = time.Now()
	}
	if err := taskqueue.AddPending(env); err != nil {
		return fmt.Errorf("failed to persist job %s: %w", env.ID, err)
	}
	Track(env.ID)

	select {
	case pendingCh <- env:
	default:
		// Channel full; the job stays durable and will be picked up on the
		// next restart scan. Extremely unlikely with a buffer this size.
		logger.Warnf("Worker channel full, job %s deferred to restart scan", env.ID)
	}
	return nil
}

// RecoverPending re-enqueues every job that was accepted but not finished
// before the last shutdown.
func RecoverPending() error {
	envs, err := taskqueue.AllPending()
	if err != nil {
		return fmt.Errorf("failed to scan pending queue: %w", err)
	}
	for _, env := range envs {
		Track(env.ID)
		select {
		case pendingCh <- env:
		default:
			logger.Warnf("Worker channel full during recovery, job %s dropped from this run", env.ID)
		}
	}
	if len(envs) > 0 {
		logger.Infof("Recovered %d pending jobs from previous run", len(envs))
	}
	return nil
}

// Start launches the worker pool. Each worker runs one job at a time,
// start to finish.
func Start(workers int) {
	if workers < 1 {
		workers = 1
	}
	for i := 0; i < workers; i++ {
		go workerLoop(i)
	}
	logger.Infof("Started %d job workers", workers)
}

func workerLoop(slot int) {
	for env := range pendingCh {
		logger.Infof("Worker %d picked up %s job %s", slot, env.Type, env.ID)
		runJob(env)
	}
}

// runJob drives one envelope through its handler and records the outcome.
func runJob(env models.Envelope) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The claim is the single point where pending becomes processing; a job
	// cancelled while it waited in the queue is dropped here.
	if !claimForProcessing(env.ID, cancel) {
		logger.Infof("Job %s no longer pending, skipping", env.ID)
		if err := taskqueue.RemovePending(env.ID); err != nil {
			logger.Errorf("Failed to remove skipped job %s: %v", env.ID, err)
		}
		return
	}

	result, err := dispatch(ctx, env)

	switch {
	case err != nil && (ctx.Err() == context.Canceled || isCancelled(env.ID)):
		setState(env.ID, StateCancelled, nil)
		logger.Infof("Job %s cancelled", env.ID)
	case err != nil:
		setState(env.ID, StateFailed, nil)
		logger.Errorf("Job %s failed: %v", env.ID, err)
		if storeErr := failures.StoreFailure(env.ID, env.Type, err, json.RawMessage(env.Payload)); storeErr != nil {
			logger.Errorf("Failed to store failure for job %s: %v", env.ID, storeErr)
		}
	case isCancelled(env.ID):
		// Cancelled after the handler finished; the acknowledgement wins.
		logger.Infof("Job %s cancelled", env.ID)
	default:
		setState(env.ID, StateCompleted, nil)
		logger.Infof("Job %s completed", env.ID)
		if storeErr := results.StoreResult(env.ID, env.Type, result); storeErr != nil {
			logger.Errorf("Failed to store result for job %s: %v", env.ID, storeErr)
		}
	}

	if err := taskqueue.RemovePending(env.ID); err != nil {
		logger.Errorf("Failed to remove finished job %s from pending queue: %v", env.ID, err)
	}
}

// dispatch decodes the payload and invokes the handler for the envelope type.
func dispatch(ctx context.Context, env models.Envelope) (any, error) {
	switch env.Type {
	case models.JobTypeTranscode:
		var p models.TranscodePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("invalid transcode payload: %w", err)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return RunTranscode(ctx, env.ID, &p)
	case models.JobTypeTrickplay:
		var p models.TrickplayPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("invalid trickplay payload: %w", err)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return RunTrickplay(ctx, env.ID, &p)
	case models.JobTypeSubtitle:
		var p models.SubtitlePayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			return nil, fmt.Errorf("invalid subtitle payload: %w", err)
		}
		if err := p.Validate(); err != nil {
			return nil, err
		}
		return RunSubtitle(ctx, env.ID, &p)
	default:
		return nil, fmt.Errorf("unknown job type %q", env.Type)
	}
}
