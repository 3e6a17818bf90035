package strategy

import (
	"sync"
	"time"

	"github.com/amirkhaki/conductor/pkg/prng"
)

// rapidContextSwitchCeiling bounds how long the calling task parks
// waiting to be woken.
const rapidContextSwitchCeiling = 300 * time.Millisecond

// DelayRapidContextSwitch synchronously parks the calling task on an
// auto-reset latch, wakes a random other registered task, and returns
// once woken or once the 300ms ceiling elapses. Unlike every other
// delay strategy, it does not hand back a number for the caller to
// sleep — the park happens inside GetNextDelay itself.
type DelayRapidContextSwitch struct {
	rng     *prng.Source
	cfg     Config
	mu      sync.Mutex
	latches map[uint64]chan struct{}
	steps   stepBudget
}

// NewDelayRapidContextSwitch creates a DelayRapidContextSwitch
// strategy.
func NewDelayRapidContextSwitch(cfg Config) *DelayRapidContextSwitch {
	return &DelayRapidContextSwitch{
		rng:     prng.New(cfg.RandomSeed),
		cfg:     cfg,
		latches: make(map[uint64]chan struct{}),
	}
}

func (d *DelayRapidContextSwitch) InitializeNextIteration(iteration int) {
	d.steps.reset()
	d.steps.max = maxStepsFor(d.cfg, true)
}

func (d *DelayRapidContextSwitch) GetStepCount() int       { return d.steps.count() }
func (d *DelayRapidContextSwitch) IsMaxStepsReached() bool { return d.steps.reached() }
func (d *DelayRapidContextSwitch) IsFair() bool            { return true }
func (d *DelayRapidContextSwitch) GetDescription() string  { return "rapid-context-switch" }

func (d *DelayRapidContextSwitch) RegisterTask(taskID uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.latches[taskID]; !ok {
		d.latches[taskID] = make(chan struct{}, 1)
	}
}

func (d *DelayRapidContextSwitch) UnregisterTask(taskID uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.latches, taskID)
}

func (d *DelayRapidContextSwitch) wakeRandomOther(taskID uint64) {
	others := make([]uint64, 0, len(d.latches))
	for id := range d.latches {
		if id != taskID {
			others = append(others, id)
		}
	}
	if len(others) == 0 {
		return
	}
	target := others[d.rng.Next(len(others))]
	select {
	case d.latches[target] <- struct{}{}:
	default:
	}
}

func (d *DelayRapidContextSwitch) GetNextDelay(taskID uint64, maxValue int) (int, bool) {
	d.steps.increment()

	d.mu.Lock()
	latch, ok := d.latches[taskID]
	if !ok {
		latch = make(chan struct{}, 1)
		d.latches[taskID] = latch
	}
	d.wakeRandomOther(taskID)
	d.mu.Unlock()

	select {
	case <-latch:
	case <-time.After(rapidContextSwitchCeiling):
	}
	return 0, true
}
