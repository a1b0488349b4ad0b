package acquire

import (
	"context"
	"testing"

	apperrors "github.com/samir-abis/facefusion/internal/errors"
)

func TestNopLifecycle(t *testing.T) {
	lc := NopLifecycle{}

	if err := lc.Checkpoint(context.Background()); err != nil {
		t.Errorf("Checkpoint failed on a live context: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := lc.Checkpoint(ctx)
	if err == nil {
		t.Fatal("Checkpoint ignored a canceled context")
	}
	if !apperrors.IsCanceled(err) {
		t.Errorf("error is not canceled: %v", err)
	}
}

func TestStateLifecycle(t *testing.T) {
	lc := NewStateLifecycle()

	if got := lc.Phase(); got != PhasePending {
		t.Fatalf("initial phase = %s, want pending", got)
	}

	if err := lc.Checkpoint(context.Background()); err != nil {
		t.Fatalf("Checkpoint failed: %v", err)
	}
	if got := lc.Phase(); got != PhaseChecking {
		t.Errorf("phase after checkpoint = %s, want checking", got)
	}

	lc.Complete()
	if got := lc.Phase(); got != PhasePending {
		t.Errorf("phase after complete = %s, want pending", got)
	}
}

func TestStateLifecycleStop(t *testing.T) {
	lc := NewStateLifecycle()
	lc.Stop()

	if got := lc.Phase(); got != PhaseStopping {
		t.Fatalf("phase after stop = %s, want stopping", got)
	}

	err := lc.Checkpoint(context.Background())
	if err == nil {
		t.Fatal("Checkpoint proceeded after a stop request")
	}
	if !apperrors.IsCanceled(err) {
		t.Errorf("error is not canceled: %v", err)
	}
}

func TestStateLifecycleCanceledContext(t *testing.T) {
	lc := NewStateLifecycle()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := lc.Checkpoint(ctx); err == nil {
		t.Fatal("Checkpoint ignored a canceled context")
	}
	if got := lc.Phase(); got != PhaseStopping {
		t.Errorf("phase after canceled checkpoint = %s, want stopping", got)
	}
}
