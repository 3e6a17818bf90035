package strategy

import "github.com/amirkhaki/conductor/pkg/prng"

const oneStopOneGoHighDelay = 100

// DelayOneStopOneGo flips a coin at the start of each iteration
// between two modes. In OneStop, exactly one task (the first one seen
// that iteration) is kept at delay 0 and every other task gets 100ms.
// In OneGo, exactly one task gets 100ms and every other task gets 0.
type DelayOneStopOneGo struct {
	rng          *prng.Source
	cfg          Config
	oneStop      bool
	specialSet   bool
	specialTask  uint64
	steps        stepBudget
}

// NewDelayOneStopOneGo creates a DelayOneStopOneGo strategy.
func NewDelayOneStopOneGo(cfg Config) *DelayOneStopOneGo {
	return &DelayOneStopOneGo{rng: prng.New(cfg.RandomSeed), cfg: cfg}
}

func (d *DelayOneStopOneGo) InitializeNextIteration(iteration int) {
	d.steps.reset()
	d.steps.max = maxStepsFor(d.cfg, true)
	d.oneStop = d.rng.NextBool(0.5)
	d.specialSet = false
	d.specialTask = 0
}

func (d *DelayOneStopOneGo) GetStepCount() int       { return d.steps.count() }
func (d *DelayOneStopOneGo) IsMaxStepsReached() bool { return d.steps.reached() }
func (d *DelayOneStopOneGo) IsFair() bool            { return true }
func (d *DelayOneStopOneGo) GetDescription() string  { return "one-stop-one-go" }

func (d *DelayOneStopOneGo) RegisterTask(taskID uint64) {
	if !d.specialSet {
		d.specialTask = taskID
		d.specialSet = true
	}
}

func (d *DelayOneStopOneGo) UnregisterTask(taskID uint64) {
	if d.specialSet && d.specialTask == taskID {
		d.specialSet = false
	}
}

func (d *DelayOneStopOneGo) GetNextDelay(taskID uint64, maxValue int) (int, bool) {
	if !d.specialSet {
		d.specialTask = taskID
		d.specialSet = true
	}
	d.steps.increment()

	isSpecial := taskID == d.specialTask
	var delay int
	switch {
	case d.oneStop && isSpecial:
		delay = 0
	case d.oneStop && !isSpecial:
		delay = oneStopOneGoHighDelay
	case !d.oneStop && isSpecial:
		delay = oneStopOneGoHighDelay
	default:
		delay = 0
	}
	if maxValue > 0 && delay > maxValue {
		delay = maxValue
	}
	return delay, true
}
