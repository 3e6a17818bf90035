package strategy

import (
	"github.com/amirkhaki/conductor/internal/operation"
	"github.com/amirkhaki/conductor/pkg/prng"
)

// PCT implements Priority-based Concurrency Testing: every operation
// gets a random priority when first seen, and at a bounded number of
// random "priority change points" within the iteration the
// highest-priority enabled operation is demoted to the lowest
// priority. PCT always selects the highest-priority enabled
// operation, and is not fair — a starved low-priority operation can
// remain unscheduled for the rest of the iteration.
type PCT struct {
	rng   *prng.Source
	cfg   Config
	bound int // d, the number of priority change points

	priority     []int64         // handles, highest priority first
	knownHandles map[int64]bool
	changePoints map[int]bool
	demotions    int

	steps stepBudget
}

// NewPCT creates a PCT strategy with change-point bound d.
func NewPCT(cfg Config, d int) *PCT {
	return &PCT{
		rng:          prng.New(cfg.RandomSeed),
		cfg:          cfg,
		bound:        d,
		knownHandles: make(map[int64]bool),
	}
}

func (p *PCT) InitializeNextIteration(iteration int) {
	p.steps.reset()
	p.steps.max = maxStepsFor(p.cfg, false)
	p.priority = nil
	p.knownHandles = make(map[int64]bool)
	p.demotions = 0
	p.changePoints = make(map[int]bool)

	max := p.steps.max
	if max <= 0 {
		max = 1
	}
	for len(p.changePoints) < p.bound && len(p.changePoints) < max {
		p.changePoints[p.rng.Next(max)] = true
	}
}

func (p *PCT) GetStepCount() int       { return p.steps.count() }
func (p *PCT) IsMaxStepsReached() bool { return p.steps.reached() }
func (p *PCT) IsFair() bool            { return false }
func (p *PCT) GetDescription() string  { return "pct" }

// DemotionCount reports how many times a top-priority operation has
// been demoted this iteration.
func (p *PCT) DemotionCount() int { return p.demotions }

func (p *PCT) registerNew(ops []*operation.Operation) {
	for _, op := range ops {
		if p.knownHandles[op.SequenceID] {
			continue
		}
		p.knownHandles[op.SequenceID] = true
		pos := p.rng.Next(len(p.priority) + 1)
		p.priority = append(p.priority, 0)
		copy(p.priority[pos+1:], p.priority[pos:])
		p.priority[pos] = op.SequenceID
	}
}

func (p *PCT) demoteHandle(handle int64) {
	idx := -1
	for i, h := range p.priority {
		if h == handle {
			idx = i
			break
		}
	}
	if idx < 0 {
		return
	}
	p.priority = append(p.priority[:idx], p.priority[idx+1:]...)
	p.priority = append(p.priority, handle)
}

func (p *PCT) highestEnabled(enabled map[int64]*operation.Operation) *operation.Operation {
	for _, handle := range p.priority {
		if op, ok := enabled[handle]; ok {
			return op
		}
	}
	return nil
}

func (p *PCT) GetNextOperation(enabled []*operation.Operation, current *operation.Operation, isYielding bool) (*operation.Operation, bool) {
	if len(enabled) == 0 {
		return nil, false
	}
	p.registerNew(enabled)

	enabledByHandle := make(map[int64]*operation.Operation, len(enabled))
	for _, op := range enabled {
		enabledByHandle[op.SequenceID] = op
	}

	if p.changePoints[p.steps.count()] {
		if top := p.highestEnabled(enabledByHandle); top != nil {
			p.demoteHandle(top.SequenceID)
			p.demotions++
		}
	}

	p.steps.increment()

	chosen := p.highestEnabled(enabledByHandle)
	if chosen == nil {
		return nil, false
	}
	return chosen, true
}

func (p *PCT) GetNextBoolean() bool {
	return p.rng.NextBool(0.5)
}

func (p *PCT) GetNextInteger(max int) int {
	return p.rng.Next(max)
}
