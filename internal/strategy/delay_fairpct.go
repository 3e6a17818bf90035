package strategy

import "github.com/amirkhaki/conductor/pkg/prng"

// fairPCTGrowthPeriod is the number of iterations after which the
// change-point count grows by one.
const fairPCTGrowthPeriod = 1000

// DelayFairPCT keeps a per-task step counter and, at a set of random
// "priority change points" drawn from [0, observedMaxStepCount),
// injects Next(10)*50ms; otherwise it injects nothing. The number of
// change points grows every 1000 iterations, capped at
// observedMaxStepCount — the longest iteration seen so far.
type DelayFairPCT struct {
	rng              *prng.Source
	cfg              Config
	observedMax      int
	changePointCount int
	changePoints     map[int]bool
	taskCounters     map[uint64]int
	steps            stepBudget
}

// NewDelayFairPCT creates a DelayFairPCT strategy.
func NewDelayFairPCT(cfg Config) *DelayFairPCT {
	return &DelayFairPCT{
		rng:          prng.New(cfg.RandomSeed),
		cfg:          cfg,
		taskCounters: make(map[uint64]int),
	}
}

func (d *DelayFairPCT) InitializeNextIteration(iteration int) {
	if d.steps.count() > d.observedMax {
		d.observedMax = d.steps.count()
	}
	d.steps.reset()
	d.steps.max = maxStepsFor(d.cfg, true)
	d.taskCounters = make(map[uint64]int)

	d.changePointCount = 1 + iteration/fairPCTGrowthPeriod
	if d.changePointCount > d.observedMax {
		d.changePointCount = d.observedMax
	}

	d.changePoints = make(map[int]bool)
	if d.observedMax > 0 {
		for len(d.changePoints) < d.changePointCount {
			d.changePoints[d.rng.Next(d.observedMax)] = true
		}
	}
}

func (d *DelayFairPCT) GetStepCount() int       { return d.steps.count() }
func (d *DelayFairPCT) IsMaxStepsReached() bool { return d.steps.reached() }
func (d *DelayFairPCT) IsFair() bool            { return true }
func (d *DelayFairPCT) GetDescription() string  { return "fair-pct" }

func (d *DelayFairPCT) RegisterTask(taskID uint64)   { d.taskCounters[taskID] = 0 }
func (d *DelayFairPCT) UnregisterTask(taskID uint64) { delete(d.taskCounters, taskID) }

func (d *DelayFairPCT) GetNextDelay(taskID uint64, maxValue int) (int, bool) {
	counter := d.taskCounters[taskID]
	d.taskCounters[taskID] = counter + 1
	d.steps.increment()

	delay := 0
	if d.changePoints[counter] {
		delay = d.rng.Next(10) * 50
	}
	if maxValue > 0 && delay > maxValue {
		delay = maxValue
	}
	return delay, true
}
