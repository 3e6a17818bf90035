package strategy

import (
	"github.com/amirkhaki/conductor/internal/operation"
	"github.com/amirkhaki/conductor/pkg/prng"
)

// Random uniformly picks among the enabled operations. It is fair:
// over an unbounded sequence every persistently-enabled operation is
// selected with probability 1.
type Random struct {
	rng   *prng.Source
	steps stepBudget
	cfg   Config
}

// NewRandom creates a Random operation-selection strategy.
func NewRandom(cfg Config) *Random {
	return &Random{
		rng: prng.New(cfg.RandomSeed),
		cfg: cfg,
	}
}

func (r *Random) InitializeNextIteration(iteration int) {
	r.steps.reset()
	r.steps.max = maxStepsFor(r.cfg, true)
}

func (r *Random) GetStepCount() int    { return r.steps.count() }
func (r *Random) IsMaxStepsReached() bool { return r.steps.reached() }
func (r *Random) IsFair() bool         { return true }
func (r *Random) GetDescription() string { return "random" }

func (r *Random) GetNextOperation(enabled []*operation.Operation, current *operation.Operation, isYielding bool) (*operation.Operation, bool) {
	if len(enabled) == 0 {
		return nil, false
	}
	r.steps.increment()
	idx := r.rng.Next(len(enabled))
	return enabled[idx], true
}

func (r *Random) GetNextBoolean() bool {
	return r.rng.NextBool(0.5)
}

func (r *Random) GetNextInteger(max int) int {
	return r.rng.Next(max)
}
