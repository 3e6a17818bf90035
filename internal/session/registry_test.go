package session_test

import (
	"testing"

	"github.com/amirkhaki/conductor/internal/session"
	"github.com/amirkhaki/conductor/internal/wire"
	"github.com/amirkhaki/conductor/pkg/ident"
)

func TestCreateSchedulerThenGet(t *testing.T) {
	reg := session.New(nil)
	id := ident.New()

	sched, err := reg.CreateScheduler(wire.InitializeRequest{
		SchedulerID:  id,
		StrategyType: wire.StrategyRandom,
		Config:       wire.Config{RandomSeed: 1},
	})
	if err != nil {
		t.Fatalf("CreateScheduler: %v", err)
	}
	if sched.ID() != id {
		t.Fatalf("scheduler id = %s, want %s", sched.ID(), id)
	}

	got, ok := reg.Get(id)
	if !ok {
		t.Fatal("Get should find the scheduler just created")
	}
	if got != sched {
		t.Fatal("Get should return the same *scheduler.Scheduler instance")
	}
}

func TestCreateSchedulerIsIdempotentPerID(t *testing.T) {
	reg := session.New(nil)
	id := ident.New()

	first, err := reg.CreateScheduler(wire.InitializeRequest{
		SchedulerID:  id,
		StrategyType: wire.StrategyRandom,
		Config:       wire.Config{RandomSeed: 1},
	})
	if err != nil {
		t.Fatalf("CreateScheduler #1: %v", err)
	}

	second, err := reg.CreateScheduler(wire.InitializeRequest{
		SchedulerID:  id,
		StrategyType: wire.StrategyPCT,
		Config:       wire.Config{RandomSeed: 2, StrategyBound: 3},
	})
	if err != nil {
		t.Fatalf("CreateScheduler #2: %v", err)
	}

	if first != second {
		t.Fatal("reconfiguring an existing id should return the same scheduler instance")
	}
}

func TestGetUnknownSchedulerFails(t *testing.T) {
	reg := session.New(nil)
	if _, ok := reg.Get(ident.New()); ok {
		t.Fatal("Get should fail for an id never created")
	}
}

func TestDeleteRemovesScheduler(t *testing.T) {
	reg := session.New(nil)
	id := ident.New()
	if _, err := reg.CreateScheduler(wire.InitializeRequest{
		SchedulerID:  id,
		StrategyType: wire.StrategyRandom,
		Config:       wire.Config{RandomSeed: 1},
	}); err != nil {
		t.Fatalf("CreateScheduler: %v", err)
	}

	reg.Delete(id)
	if _, ok := reg.Get(id); ok {
		t.Fatal("Get should fail after Delete")
	}
}

func TestCreateSchedulerReplayBuildsFromCSVTrace(t *testing.T) {
	reg := session.New(nil)
	id := ident.New()

	sched, err := reg.CreateScheduler(wire.InitializeRequest{
		SchedulerID:  id,
		StrategyType: wire.StrategyReplay,
		Trace:        "1,2,3",
	})
	if err != nil {
		t.Fatalf("CreateScheduler with a replay trace: %v", err)
	}
	if sched == nil {
		t.Fatal("CreateScheduler should return a non-nil scheduler")
	}
}

func TestCreateSchedulerReplayRejectsGarbageTrace(t *testing.T) {
	reg := session.New(nil)
	_, err := reg.CreateScheduler(wire.InitializeRequest{
		SchedulerID:  ident.New(),
		StrategyType: wire.StrategyReplay,
		Trace:        "not,a,trace",
	})
	if err == nil {
		t.Fatal("CreateScheduler should fail on a malformed replay trace")
	}
}
