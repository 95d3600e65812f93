package job

import (
	"context"
	"testing"
)

func TestJobLifecycleStates(t *testing.T) {
	Track("life-1")

	state, exists := GetState("life-1")
	if !exists || state != StatePending {
		t.Fatalf("Expected pending after Track, got %v (exists=%v)", state, exists)
	}

	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	setState("life-1", StateProcessing, cancel)
	if state, _ := GetState("life-1"); state != StateProcessing {
		t.Errorf("Expected processing, got %v", state)
	}

	setState("life-1", StateCompleted, nil)
	if state, _ := GetState("life-1"); state != StateCompleted {
		t.Errorf("Expected completed, got %v", state)
	}
	if p, _ := GetProgress("life-1"); p != 100 {
		t.Errorf("Completion must pin progress to 100, got %f", p)
	}
}

func TestProgressNeverMovesBackwards(t *testing.T) {
	Track("prog-1")

	UpdateProgress("prog-1", 40)
	UpdateProgress("prog-1", 30)
	if p, _ := GetProgress("prog-1"); p != 40 {
		t.Errorf("Progress regressed: got %f, want 40", p)
	}

	UpdateProgress("prog-1", 150)
	if p, _ := GetProgress("prog-1"); p != 100 {
		t.Errorf("Progress must clamp to 100, got %f", p)
	}
}

func TestCancelPendingJob(t *testing.T) {
	Track("cancel-pending")
	if err := Cancel("cancel-pending"); err != nil {
		t.Fatalf("Cancelling a pending job should succeed: %v", err)
	}
	if state, _ := GetState("cancel-pending"); state != StateCancelled {
		t.Errorf("Expected cancelled, got %v", state)
	}
}

func TestCancelProcessingJobFiresContext(t *testing.T) {
	Track("cancel-processing")
	ctx, cancel := context.WithCancel(context.Background())
	setState("cancel-processing", StateProcessing, cancel)

	if err := Cancel("cancel-processing"); err != nil {
		t.Fatalf("Cancelling a processing job should succeed: %v", err)
	}
	select {
	case <-ctx.Done():
	default:
		t.Error("Cancelling a processing job must cancel its context")
	}
	if state, _ := GetState("cancel-processing"); state != StateCancelled {
		t.Errorf("Expected cancelled, got %v", state)
	}
}

func TestCancelTerminalJobFails(t *testing.T) {
	Track("cancel-done")
	setState("cancel-done", StateCompleted, nil)
	if err := Cancel("cancel-done"); err == nil {
		t.Error("Cancelling a completed job must fail")
	}

	if err := Cancel("no-such-job"); err == nil {
		t.Error("Cancelling an unknown job must fail")
	}
}

func TestClaimForProcessing(t *testing.T) {
	Track("claim-1")
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !claimForProcessing("claim-1", cancel) {
		t.Fatal("Claiming a pending job should succeed")
	}
	if state, _ := GetState("claim-1"); state != StateProcessing {
		t.Errorf("Expected processing after claim, got %v", state)
	}

	// A second claim must fail; the job is no longer pending.
	if claimForProcessing("claim-1", cancel) {
		t.Error("Claiming a processing job should fail")
	}
	if claimForProcessing("never-tracked", cancel) {
		t.Error("Claiming an unknown job should fail")
	}
}

func TestCancelBetweenDequeueAndClaim(t *testing.T) {
	// A cancellation can land after a worker pulls the envelope off the
	// queue but before it claims the job. The claim must lose: the caller
	// was told the cancel succeeded, so the job may not run.
	Track("race-1")

	if err := Cancel("race-1"); err != nil {
		t.Fatalf("Cancelling a pending job should succeed: %v", err)
	}

	_, cancel := context.WithCancel(context.Background())
	defer cancel()
	if claimForProcessing("race-1", cancel) {
		t.Fatal("Claiming a cancelled job must fail")
	}
	if state, _ := GetState("race-1"); state != StateCancelled {
		t.Errorf("Cancelled job resurrected: state = %v, want cancelled", state)
	}
}

func TestSetStateNeverOverwritesCancelled(t *testing.T) {
	Track("sticky-1")
	ctx, cancel := context.WithCancel(context.Background())
	if !claimForProcessing("sticky-1", cancel) {
		t.Fatal("Claim should succeed")
	}
	if err := Cancel("sticky-1"); err != nil {
		t.Fatalf("Cancel should succeed: %v", err)
	}
	<-ctx.Done()

	// A worker finishing around the cancellation must not flip the state.
	setState("sticky-1", StateCompleted, nil)
	if state, _ := GetState("sticky-1"); state != StateCancelled {
		t.Errorf("Expected cancelled to stick, got %v", state)
	}
	setState("sticky-1", StateFailed, nil)
	if state, _ := GetState("sticky-1"); state != StateCancelled {
		t.Errorf("Expected cancelled to stick, got %v", state)
	}
}

func TestStateString(t *testing.T) {
	cases := map[State]string{
		StatePending:    "pending",
		StateProcessing: "processing",
		StateCompleted:  "completed",
		StateFailed:     "failed",
		StateCancelled:  "cancelled",
		State(99):       "unknown",
	}
	for state, want := range cases {
		if got := state.String(); got != want {
			t.Errorf("State(%d).String() = %q, want %q", state, got, want)
		}
	}
}
