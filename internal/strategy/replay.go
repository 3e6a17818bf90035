package strategy

import (
	"github.com/amirkhaki/conductor/internal/operation"
	"github.com/amirkhaki/conductor/pkg/trace"
)

// Replay deterministically reproduces a previously recorded trace: it
// returns the enabled operation whose sequenceId matches the next
// trace entry, and fails the iteration if no enabled operation
// matches (the trace has diverged from what the program under test is
// now doing). Nondeterministic boolean/integer choices are replayed
// from the same trace, in the same call order they were originally
// recorded in.
type Replay struct {
	cursor   *trace.Cursor
	steps    stepBudget
	diverged bool
}

// NewReplay creates a Replay strategy over t.
func NewReplay(t *trace.Trace) *Replay {
	return &Replay{cursor: trace.NewCursor(t)}
}

func (r *Replay) InitializeNextIteration(iteration int) {
	r.steps.reset()
	r.cursor.Reset()
	r.diverged = false
}

func (r *Replay) GetStepCount() int      { return r.steps.count() }
func (r *Replay) IsMaxStepsReached() bool { return r.cursor.Remaining() == 0 }
func (r *Replay) IsFair() bool           { return false }
func (r *Replay) GetDescription() string { return "replay" }

// Diverged reports whether a GetNextOperation call has already failed
// to find a matching enabled operation for the expected sequenceId.
func (r *Replay) Diverged() bool { return r.diverged }

func (r *Replay) GetNextOperation(enabled []*operation.Operation, current *operation.Operation, isYielding bool) (*operation.Operation, bool) {
	expected, ok := r.cursor.Next()
	if !ok {
		return nil, false
	}
	for _, op := range enabled {
		if op.SequenceID == expected {
			r.steps.increment()
			return op, true
		}
	}
	r.diverged = true
	return nil, false
}

func (r *Replay) GetNextBoolean() bool {
	v, ok := r.cursor.Next()
	if !ok {
		return false
	}
	return v != 0
}

func (r *Replay) GetNextInteger(max int) int {
	v, ok := r.cursor.Next()
	if !ok || max <= 0 {
		return 0
	}
	n := int(v)
	if n < 0 {
		n = -n
	}
	return n % max
}
