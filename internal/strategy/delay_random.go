package strategy

import "github.com/amirkhaki/conductor/pkg/prng"

// DelayRandom injects a uniform random delay in [0, maxValue) before
// every step, for every task. Trivially fair — delays never starve an
// operation, they only slow it down.
type DelayRandom struct {
	rng   *prng.Source
	steps stepBudget
	cfg   Config
}

// NewDelayRandom creates a DelayRandom strategy.
func NewDelayRandom(cfg Config) *DelayRandom {
	return &DelayRandom{rng: prng.New(cfg.RandomSeed), cfg: cfg}
}

func (d *DelayRandom) InitializeNextIteration(iteration int) {
	d.steps.reset()
	d.steps.max = maxStepsFor(d.cfg, true)
}

func (d *DelayRandom) GetStepCount() int       { return d.steps.count() }
func (d *DelayRandom) IsMaxStepsReached() bool { return d.steps.reached() }
func (d *DelayRandom) IsFair() bool            { return true }
func (d *DelayRandom) GetDescription() string  { return "delay-random" }

func (d *DelayRandom) RegisterTask(taskID uint64)   {}
func (d *DelayRandom) UnregisterTask(taskID uint64) {}

func (d *DelayRandom) GetNextDelay(taskID uint64, maxValue int) (int, bool) {
	d.steps.increment()
	if maxValue <= 0 {
		return 0, true
	}
	return d.rng.Next(maxValue), true
}
