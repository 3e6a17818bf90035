// Package session implements the scheduler registry: a concurrent,
// get-or-create map from schedulerId to a live *scheduler.Scheduler,
// safe for lookup and insertion from many goroutines at once.
package session

import (
	"fmt"
	"log"
	"sync"

	"github.com/amirkhaki/conductor/internal/scheduler"
	"github.com/amirkhaki/conductor/internal/strategy"
	"github.com/amirkhaki/conductor/internal/wire"
	"github.com/amirkhaki/conductor/pkg/ident"
	"github.com/amirkhaki/conductor/pkg/trace"
)

// Registry owns every live scheduler, keyed by its schedulerId.
type Registry struct {
	schedulers sync.Map // ident.ID -> *scheduler.Scheduler
	logger     *log.Logger
}

// New creates an empty registry. A nil logger falls back to the
// standard library's default logger.
func New(logger *log.Logger) *Registry {
	if logger == nil {
		logger = log.Default()
	}
	return &Registry{logger: logger}
}

// CreateScheduler gets or creates the scheduler identified by id,
// configuring it with a strategy built from req. If a scheduler with
// this id already exists, its strategy is replaced rather than its
// state cleared — Initialize reconfigures, it does not reset an
// in-progress iteration.
func (r *Registry) CreateScheduler(req wire.InitializeRequest) (*scheduler.Scheduler, error) {
	strat, err := buildStrategy(req)
	if err != nil {
		return nil, wire.Errorf(wire.Failure, "building strategy: %v", err)
	}

	if existing, ok := r.schedulers.Load(req.SchedulerID); ok {
		sched := existing.(*scheduler.Scheduler)
		sched.Reconfigure(strat)
		r.logger.Printf("session: reconfigured scheduler %s (%s)", req.SchedulerID, req.StrategyType)
		return sched, nil
	}

	sched := scheduler.New(req.SchedulerID, strat)
	actual, loaded := r.schedulers.LoadOrStore(req.SchedulerID, sched)
	if loaded {
		sched = actual.(*scheduler.Scheduler)
		sched.Reconfigure(strat)
		return sched, nil
	}
	r.logger.Printf("session: created scheduler %s (%s)", req.SchedulerID, req.StrategyType)
	return sched, nil
}

// Get resolves an already-created scheduler by id.
func (r *Registry) Get(id ident.ID) (*scheduler.Scheduler, bool) {
	v, ok := r.schedulers.Load(id)
	if !ok {
		return nil, false
	}
	return v.(*scheduler.Scheduler), true
}

// Delete removes a scheduler from the registry entirely. Not part of
// the wire contract; useful for test and CLI cleanup.
func (r *Registry) Delete(id ident.ID) {
	r.schedulers.Delete(id)
}

func buildStrategy(req wire.InitializeRequest) (strategy.OperationStrategy, error) {
	cfg := strategy.Config{
		MaxFairSchedulingSteps:   req.Config.MaxFairSchedulingSteps,
		MaxUnfairSchedulingSteps: req.Config.MaxUnfairSchedulingSteps,
		SafetyPrefixBound:        req.Config.SafetyPrefixBound,
		StrategyBound:            req.Config.StrategyBound,
		RandomSeed:               req.Config.RandomSeed,
	}
	if req.StrategyType == wire.StrategyReplay {
		tr, err := trace.Parse(req.Trace)
		if err != nil {
			return nil, fmt.Errorf("parsing replay trace: %w", err)
		}
		return strategy.NewReplay(tr), nil
	}
	return strategy.New(req.StrategyType, cfg)
}
