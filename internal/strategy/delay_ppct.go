package strategy

import "github.com/amirkhaki/conductor/pkg/prng"

const ppctLowPriorityProbability = 0.05

// DelayPPCT partitions tasks into a low-priority and a high-priority
// bag, reshuffled every maxSteps/5 steps. High-priority tasks are
// never delayed; low-priority tasks get a uniform delay on [0,50) or
// [50,100), chosen per call.
type DelayPPCT struct {
	rng      *prng.Source
	lowBag   map[uint64]bool
	tasks    map[uint64]bool
	steps    stepBudget
	cfg      Config
	interval int
}

// NewDelayPPCT creates a DelayPPCT strategy.
func NewDelayPPCT(cfg Config) *DelayPPCT {
	return &DelayPPCT{
		rng:    prng.New(cfg.RandomSeed),
		lowBag: make(map[uint64]bool),
		tasks:  make(map[uint64]bool),
		cfg:    cfg,
	}
}

func (d *DelayPPCT) InitializeNextIteration(iteration int) {
	d.steps.reset()
	d.steps.max = maxStepsFor(d.cfg, true)
	d.interval = d.steps.max / 5
	if d.interval <= 0 {
		d.interval = 1
	}
	d.reshuffle()
}

func (d *DelayPPCT) GetStepCount() int       { return d.steps.count() }
func (d *DelayPPCT) IsMaxStepsReached() bool { return d.steps.reached() }
func (d *DelayPPCT) IsFair() bool            { return true }
func (d *DelayPPCT) GetDescription() string  { return "ppct" }

func (d *DelayPPCT) RegisterTask(taskID uint64) {
	d.tasks[taskID] = true
	d.lowBag[taskID] = d.rng.NextBool(ppctLowPriorityProbability)
}

func (d *DelayPPCT) UnregisterTask(taskID uint64) {
	delete(d.tasks, taskID)
	delete(d.lowBag, taskID)
}

func (d *DelayPPCT) reshuffle() {
	for taskID := range d.tasks {
		d.lowBag[taskID] = d.rng.NextBool(ppctLowPriorityProbability)
	}
}

func (d *DelayPPCT) GetNextDelay(taskID uint64, maxValue int) (int, bool) {
	if d.interval > 0 && d.steps.count()%d.interval == 0 {
		d.reshuffle()
	}
	d.steps.increment()

	if !d.lowBag[taskID] {
		return 0, true
	}

	var delay int
	if d.rng.NextBool(0.5) {
		delay = d.rng.Next(50)
	} else {
		delay = 50 + d.rng.Next(50)
	}
	if maxValue > 0 && delay > maxValue {
		delay = maxValue
	}
	return delay, true
}
