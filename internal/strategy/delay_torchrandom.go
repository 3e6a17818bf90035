package strategy

import "github.com/amirkhaki/conductor/pkg/prng"

const (
	torchRandomProbability = 0.05
	torchRandomRange       = 100
	torchRandomTotalCap    = 5000
)

// DelayTorchRandom injects, with probability 0.05, a uniform random
// delay in [0, 100), and otherwise zero — but never lets a single
// task's cumulative injected delay across the iteration exceed 5000ms.
type DelayTorchRandom struct {
	rng    *prng.Source
	totals map[uint64]int
	steps  stepBudget
	cfg    Config
}

// NewDelayTorchRandom creates a DelayTorchRandom strategy.
func NewDelayTorchRandom(cfg Config) *DelayTorchRandom {
	return &DelayTorchRandom{
		rng:    prng.New(cfg.RandomSeed),
		totals: make(map[uint64]int),
		cfg:    cfg,
	}
}

func (d *DelayTorchRandom) InitializeNextIteration(iteration int) {
	d.steps.reset()
	d.steps.max = maxStepsFor(d.cfg, true)
	d.totals = make(map[uint64]int)
}

func (d *DelayTorchRandom) GetStepCount() int       { return d.steps.count() }
func (d *DelayTorchRandom) IsMaxStepsReached() bool { return d.steps.reached() }
func (d *DelayTorchRandom) IsFair() bool            { return true }
func (d *DelayTorchRandom) GetDescription() string  { return "torch-random" }

func (d *DelayTorchRandom) RegisterTask(taskID uint64)   {}
func (d *DelayTorchRandom) UnregisterTask(taskID uint64) { delete(d.totals, taskID) }

func (d *DelayTorchRandom) GetNextDelay(taskID uint64, maxValue int) (int, bool) {
	d.steps.increment()

	delay := 0
	if d.rng.NextBool(torchRandomProbability) {
		delay = d.rng.Next(torchRandomRange)
	}

	remaining := torchRandomTotalCap - d.totals[taskID]
	if remaining < 0 {
		remaining = 0
	}
	if delay > remaining {
		delay = remaining
	}
	d.totals[taskID] += delay

	if maxValue > 0 && delay > maxValue {
		delay = maxValue
	}
	return delay, true
}
