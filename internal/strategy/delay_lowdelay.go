package strategy

import "github.com/amirkhaki/conductor/pkg/prng"

// lowDelayProbability is the probability that LowDelayPercentage
// injects a uniform random delay instead of zero.
const lowDelayProbability = 0.01

// DelayLowPercentage injects a uniform random delay in [0, maxValue)
// with probability 0.01, and zero otherwise.
type DelayLowPercentage struct {
	rng   *prng.Source
	steps stepBudget
	cfg   Config
}

// NewDelayLowPercentage creates a DelayLowPercentage strategy.
func NewDelayLowPercentage(cfg Config) *DelayLowPercentage {
	return &DelayLowPercentage{rng: prng.New(cfg.RandomSeed), cfg: cfg}
}

func (d *DelayLowPercentage) InitializeNextIteration(iteration int) {
	d.steps.reset()
	d.steps.max = maxStepsFor(d.cfg, true)
}

func (d *DelayLowPercentage) GetStepCount() int       { return d.steps.count() }
func (d *DelayLowPercentage) IsMaxStepsReached() bool { return d.steps.reached() }
func (d *DelayLowPercentage) IsFair() bool            { return true }
func (d *DelayLowPercentage) GetDescription() string  { return "low-delay-percentage" }

func (d *DelayLowPercentage) RegisterTask(taskID uint64)   {}
func (d *DelayLowPercentage) UnregisterTask(taskID uint64) {}

func (d *DelayLowPercentage) GetNextDelay(taskID uint64, maxValue int) (int, bool) {
	d.steps.increment()
	if maxValue <= 0 || !d.rng.NextBool(lowDelayProbability) {
		return 0, true
	}
	return d.rng.Next(maxValue), true
}
