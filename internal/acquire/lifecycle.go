package acquire

import (
	"context"
	"sync/atomic"

	apperrors "github.com/samir-abis/facefusion/internal/errors"
)

// Lifecycle is the cooperative cancellation collaborator. Checkpoint is
// consulted before orchestration work starts; Complete is signaled when a
// set finishes with every asset valid.
type Lifecycle interface {
	Checkpoint(ctx context.Context) error
	Complete()
}

// NopLifecycle ignores completion signals and only honors context
// cancellation.
type NopLifecycle struct{}

func (NopLifecycle) Checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return apperrors.CanceledError("acquisition canceled", err).
			WithModule("acquire").
			WithOperation("Checkpoint")
	}
	return nil
}

func (NopLifecycle) Complete() {}

// Phase describes the externally visible processing state.
type Phase int32

const (
	PhasePending Phase = iota
	PhaseChecking
	PhaseStopping
)

// String renders the textual representation of a Phase.
func (p Phase) String() string {
	switch p {
	case PhasePending:
		return "pending"
	case PhaseChecking:
		return "checking"
	case PhaseStopping:
		return "stopping"
	default:
		return "unknown"
	}
}

// StateLifecycle tracks an explicit processing phase. Stop flips the phase
// to stopping; the next checkpoint observes it and aborts.
type StateLifecycle struct {
	phase atomic.Int32
}

// NewStateLifecycle constructs a lifecycle in the pending phase.
func NewStateLifecycle() *StateLifecycle {
	return &StateLifecycle{}
}

// Stop requests a cooperative abort.
func (l *StateLifecycle) Stop() {
	l.phase.Store(int32(PhaseStopping))
}

// Phase returns the current phase.
func (l *StateLifecycle) Phase() Phase {
	return Phase(l.phase.Load())
}

// Checkpoint moves the lifecycle to checking, unless a stop was requested
// or the context is done.
func (l *StateLifecycle) Checkpoint(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		l.phase.Store(int32(PhaseStopping))
		return apperrors.CanceledError("acquisition canceled", err).
			WithModule("acquire").
			WithOperation("Checkpoint")
	}
	if Phase(l.phase.Load()) == PhaseStopping {
		return apperrors.CanceledError("stop requested", nil).
			WithModule("acquire").
			WithOperation("Checkpoint")
	}
	l.phase.Store(int32(PhaseChecking))
	return nil
}

// Complete returns the lifecycle to pending once a set finishes with all
// assets valid.
func (l *StateLifecycle) Complete() {
	l.phase.Store(int32(PhasePending))
}
