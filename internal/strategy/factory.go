package strategy

import (
	"github.com/amirkhaki/conductor/internal/wire"
	"github.com/amirkhaki/conductor/pkg/trace"
)

// New builds the operation-selection strategy named by strategyType.
// Unknown strategy types fall back to Random.
func New(strategyType wire.StrategyType, cfg Config) (OperationStrategy, error) {
	switch strategyType {
	case wire.StrategyProbabilistic:
		return NewProbabilistic(cfg, probabilisticDefaultN), nil
	case wire.StrategyPCT:
		return NewPCT(cfg, cfg.StrategyBound), nil
	case wire.StrategyFairPCT:
		return NewFairPCT(cfg, cfg.StrategyBound), nil
	case wire.StrategyReplay:
		return nil, errReplayNeedsTrace
	case wire.StrategyRandom:
		return NewRandom(cfg), nil
	default:
		return NewRandom(cfg), nil
	}
}

// NewReplayFromCSV builds a Replay strategy from the CSV trace text carried
// by the Initialize request.
func NewReplayFromCSV(traceCSV string) (OperationStrategy, error) {
	t, err := trace.Parse(traceCSV)
	if err != nil {
		return nil, err
	}
	return NewReplay(t), nil
}

// probabilisticDefaultN is the default bias denominator (1/N) for the
// probabilistic-random strategy when none is configured explicitly.
const probabilisticDefaultN = 20

var errReplayNeedsTrace = errReplay{}

type errReplay struct{}

func (errReplay) Error() string {
	return "strategy: replay requires a trace, use NewReplayFromCSV"
}
