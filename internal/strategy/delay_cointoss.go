package strategy

import "github.com/amirkhaki/conductor/pkg/prng"

// coinTossCap is the per-task delay ceiling.
const coinTossCap = 500

// DelayCoinToss maintains a per-task delay that starts at 1ms and, on
// each step, doubles with probability 0.5 (capped at coinTossCap) or
// stays the same with probability 0.5.
type DelayCoinToss struct {
	rng     *prng.Source
	current map[uint64]int
	steps   stepBudget
	cfg     Config
}

// NewDelayCoinToss creates a DelayCoinToss strategy.
func NewDelayCoinToss(cfg Config) *DelayCoinToss {
	return &DelayCoinToss{
		rng:     prng.New(cfg.RandomSeed),
		current: make(map[uint64]int),
		cfg:     cfg,
	}
}

func (d *DelayCoinToss) InitializeNextIteration(iteration int) {
	d.steps.reset()
	d.steps.max = maxStepsFor(d.cfg, true)
	d.current = make(map[uint64]int)
}

func (d *DelayCoinToss) GetStepCount() int       { return d.steps.count() }
func (d *DelayCoinToss) IsMaxStepsReached() bool { return d.steps.reached() }
func (d *DelayCoinToss) IsFair() bool            { return true }
func (d *DelayCoinToss) GetDescription() string  { return "coin-toss" }

func (d *DelayCoinToss) RegisterTask(taskID uint64) {
	if _, ok := d.current[taskID]; !ok {
		d.current[taskID] = 1
	}
}

func (d *DelayCoinToss) UnregisterTask(taskID uint64) {
	delete(d.current, taskID)
}

func (d *DelayCoinToss) GetNextDelay(taskID uint64, maxValue int) (int, bool) {
	d.steps.increment()
	cur, ok := d.current[taskID]
	if !ok {
		cur = 1
	}
	if d.rng.NextBool(0.5) {
		cur *= 2
		if cur > coinTossCap {
			cur = coinTossCap
		}
	}
	d.current[taskID] = cur

	delay := cur
	if maxValue > 0 && delay > maxValue {
		delay = maxValue
	}
	return delay, true
}
