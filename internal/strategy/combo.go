package strategy

import "github.com/amirkhaki/conductor/internal/operation"

// Combo runs a prefix strategy for its configured prefix length, then
// switches to a suffix strategy for the remainder of the iteration —
// for example, a short safety-focused prefix followed by a long
// random-exploration suffix.
type Combo struct {
	prefix       OperationStrategy
	suffix       OperationStrategy
	prefixLength int
	steps        stepBudget
}

// NewCombo creates a Combo strategy that runs prefix for the first
// prefixLength steps of each iteration, then suffix for the rest.
func NewCombo(prefix, suffix OperationStrategy, prefixLength int) *Combo {
	return &Combo{prefix: prefix, suffix: suffix, prefixLength: prefixLength}
}

func (c *Combo) InitializeNextIteration(iteration int) {
	c.steps.reset()
	c.prefix.InitializeNextIteration(iteration)
	c.suffix.InitializeNextIteration(iteration)
}

func (c *Combo) active() OperationStrategy {
	if c.steps.count() < c.prefixLength {
		return c.prefix
	}
	return c.suffix
}

func (c *Combo) GetStepCount() int       { return c.steps.count() }
func (c *Combo) IsMaxStepsReached() bool { return c.active().IsMaxStepsReached() }
func (c *Combo) IsFair() bool            { return c.prefix.IsFair() && c.suffix.IsFair() }
func (c *Combo) GetDescription() string  { return "combo(" + c.prefix.GetDescription() + "," + c.suffix.GetDescription() + ")" }

func (c *Combo) GetNextOperation(enabled []*operation.Operation, current *operation.Operation, isYielding bool) (*operation.Operation, bool) {
	active := c.active()
	c.steps.increment()
	return active.GetNextOperation(enabled, current, isYielding)
}

func (c *Combo) GetNextBoolean() bool {
	return c.active().GetNextBoolean()
}

func (c *Combo) GetNextInteger(max int) int {
	return c.active().GetNextInteger(max)
}
