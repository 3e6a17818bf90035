package strategy

import (
	"github.com/amirkhaki/conductor/internal/operation"
	"github.com/amirkhaki/conductor/pkg/prng"
)

// Probabilistic is the probabilistic-random operation-selection
// strategy: with small bias 1/N it forces a boolean-style choice of
// the first enabled operation, and otherwise picks uniformly. This is
// used to force occasional corner-case schedules that pure uniform
// random tends to under-sample.
type Probabilistic struct {
	rng   *prng.Source
	n     int
	steps stepBudget
	cfg   Config
}

// NewProbabilistic creates a Probabilistic strategy with bias 1/n.
func NewProbabilistic(cfg Config, n int) *Probabilistic {
	if n <= 0 {
		n = 1
	}
	return &Probabilistic{
		rng: prng.New(cfg.RandomSeed),
		n:   n,
		cfg: cfg,
	}
}

func (p *Probabilistic) InitializeNextIteration(iteration int) {
	p.steps.reset()
	p.steps.max = maxStepsFor(p.cfg, true)
}

func (p *Probabilistic) GetStepCount() int      { return p.steps.count() }
func (p *Probabilistic) IsMaxStepsReached() bool { return p.steps.reached() }
func (p *Probabilistic) IsFair() bool           { return true }
func (p *Probabilistic) GetDescription() string { return "probabilistic" }

func (p *Probabilistic) GetNextOperation(enabled []*operation.Operation, current *operation.Operation, isYielding bool) (*operation.Operation, bool) {
	if len(enabled) == 0 {
		return nil, false
	}
	p.steps.increment()
	if p.rng.NextBool(1.0 / float64(p.n)) {
		return enabled[0], true
	}
	idx := p.rng.Next(len(enabled))
	return enabled[idx], true
}

func (p *Probabilistic) GetNextBoolean() bool {
	return p.rng.NextBool(1.0 / float64(p.n))
}

func (p *Probabilistic) GetNextInteger(max int) int {
	return p.rng.Next(max)
}
