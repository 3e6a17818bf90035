package strategy

import "github.com/amirkhaki/conductor/internal/operation"

// FairPCT is PCT's priority-demotion selection with a fairness
// backstop: if any enabled operation has gone unscheduled for longer
// than the number of known operations, it is forced to run next
// regardless of priority. This keeps PCT's priority-change-point
// exploration while guaranteeing every persistently-enabled operation
// is eventually chosen.
type FairPCT struct {
	inner      *PCT
	lastPicked map[int64]int
	step       int
}

// NewFairPCT creates a FairPCT strategy with change-point bound d.
func NewFairPCT(cfg Config, d int) *FairPCT {
	return &FairPCT{
		inner:      NewPCT(cfg, d),
		lastPicked: make(map[int64]int),
	}
}

func (f *FairPCT) InitializeNextIteration(iteration int) {
	f.inner.InitializeNextIteration(iteration)
	f.lastPicked = make(map[int64]int)
	f.step = 0
}

func (f *FairPCT) GetStepCount() int       { return f.inner.GetStepCount() }
func (f *FairPCT) IsMaxStepsReached() bool { return f.inner.IsMaxStepsReached() }
func (f *FairPCT) IsFair() bool            { return true }
func (f *FairPCT) GetDescription() string  { return "fair-pct-selection" }

func (f *FairPCT) starved(enabled []*operation.Operation) *operation.Operation {
	bound := len(f.lastPicked)
	if bound == 0 {
		return nil
	}
	for _, op := range enabled {
		last, seen := f.lastPicked[op.SequenceID]
		if !seen {
			continue
		}
		if f.step-last > bound {
			return op
		}
	}
	return nil
}

func (f *FairPCT) GetNextOperation(enabled []*operation.Operation, current *operation.Operation, isYielding bool) (*operation.Operation, bool) {
	if len(enabled) == 0 {
		return nil, false
	}

	chosen := f.starved(enabled)
	if chosen == nil {
		var ok bool
		chosen, ok = f.inner.GetNextOperation(enabled, current, isYielding)
		if !ok {
			return nil, false
		}
	} else {
		f.inner.registerNew(enabled)
		f.inner.steps.increment()
	}

	f.step++
	for _, op := range enabled {
		if _, seen := f.lastPicked[op.SequenceID]; !seen {
			f.lastPicked[op.SequenceID] = f.step
		}
	}
	f.lastPicked[chosen.SequenceID] = f.step
	return chosen, true
}

func (f *FairPCT) GetNextBoolean() bool {
	return f.inner.GetNextBoolean()
}

func (f *FairPCT) GetNextInteger(max int) int {
	return f.inner.GetNextInteger(max)
}
