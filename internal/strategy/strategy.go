// Package strategy implements the pluggable scheduling policies:
// operation-selection strategies, which choose the next enabled
// operation to run, and delay-injection strategies, which choose a
// cooperative delay to insert before a step. Both shapes share the
// small common interface below rather than a base-class-plus-
// subclasses hierarchy.
package strategy

import "github.com/amirkhaki/conductor/internal/operation"

// Strategy is the shape every concrete policy implements, regardless
// of which family it belongs to.
type Strategy interface {
	// InitializeNextIteration resets any per-iteration state ahead of
	// a new exploration iteration.
	InitializeNextIteration(iteration int)
	// GetStepCount returns the number of scheduling steps taken in
	// the current iteration.
	GetStepCount() int
	// IsMaxStepsReached reports whether the configured step budget
	// for the current iteration has been exhausted.
	IsMaxStepsReached() bool
	// IsFair reports whether the strategy guarantees every enabled
	// operation is eventually chosen.
	IsFair() bool
	// GetDescription returns a short human-readable identifier.
	GetDescription() string
}

// OperationStrategy chooses the next enabled operation to run, and
// also serves as the scheduler's nondeterministic-choice hook for
// GetNextBoolean/GetNextInteger.
type OperationStrategy interface {
	Strategy

	// GetNextOperation picks the next operation to run from enabled.
	// current is the operation that was scheduled previously (or nil
	// at the very start of an iteration); isYielding is reserved for
	// future use and always false in this implementation. ok is false
	// if the strategy cannot make a choice (e.g. a Replay strategy
	// whose trace has diverged).
	GetNextOperation(enabled []*operation.Operation, current *operation.Operation, isYielding bool) (next *operation.Operation, ok bool)

	// GetNextBoolean returns a nondeterministic boolean choice.
	GetNextBoolean() bool

	// GetNextInteger returns a nondeterministic integer choice in
	// [0, max).
	GetNextInteger(max int) int
}

// DelayStrategy chooses a cooperative delay, in milliseconds, to
// inject before a task's next step. Tasks register and unregister by
// an opaque id (the calling goroutine or process, from the transport's
// point of view) — several delay strategies (PPCT, FairPCT,
// OneStopOneGo, RapidContextSwitch) need to know the live task set to
// partition or pick among tasks.
type DelayStrategy interface {
	Strategy

	// RegisterTask announces a new task the strategy may be asked to
	// delay.
	RegisterTask(taskID uint64)
	// UnregisterTask announces a task is gone.
	UnregisterTask(taskID uint64)

	// GetNextDelay returns the delay to inject for taskID's next
	// step, bounded by maxValue. ok is false if the strategy has
	// nothing to offer (e.g. an empty portfolio rotation).
	GetNextDelay(taskID uint64, maxValue int) (delayMs int, ok bool)
}

// Config carries the configuration inputs that strategies consult.
type Config struct {
	MaxFairSchedulingSteps   int
	MaxUnfairSchedulingSteps int
	SafetyPrefixBound        int
	StrategyBound            int
	RandomSeed               int64
}

// stepBudget is the small piece of bookkeeping almost every concrete
// strategy needs: how many steps have been taken this iteration, and
// what the ceiling is.
type stepBudget struct {
	steps int
	max   int
}

func (b *stepBudget) reset() {
	b.steps = 0
}

func (b *stepBudget) increment() {
	b.steps++
}

func (b *stepBudget) count() int {
	return b.steps
}

func (b *stepBudget) reached() bool {
	return b.max > 0 && b.steps >= b.max
}

// maxStepsFor returns the step ceiling appropriate to fair vs unfair
// strategies.
func maxStepsFor(cfg Config, fair bool) int {
	if fair {
		return cfg.MaxFairSchedulingSteps
	}
	return cfg.MaxUnfairSchedulingSteps
}
