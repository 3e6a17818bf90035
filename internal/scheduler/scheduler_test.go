package scheduler_test

import (
	"testing"

	"github.com/amirkhaki/conductor/internal/operation"
	"github.com/amirkhaki/conductor/internal/scheduler"
	"github.com/amirkhaki/conductor/internal/strategy"
	"github.com/amirkhaki/conductor/internal/wire"
	"github.com/amirkhaki/conductor/pkg/ident"
	"github.com/amirkhaki/conductor/pkg/trace"
)

// lowestSeqStrategy is a deterministic test double: it always picks
// the enabled operation with the smallest sequenceId, making the
// scenarios below reproducible without depending on a random draw.
type lowestSeqStrategy struct{}

func (lowestSeqStrategy) InitializeNextIteration(int)    {}
func (lowestSeqStrategy) GetStepCount() int              { return 0 }
func (lowestSeqStrategy) IsMaxStepsReached() bool        { return false }
func (lowestSeqStrategy) IsFair() bool                   { return true }
func (lowestSeqStrategy) GetDescription() string         { return "lowest-seq" }
func (lowestSeqStrategy) GetNextBoolean() bool           { return false }
func (lowestSeqStrategy) GetNextInteger(max int) int     { return 0 }

func (lowestSeqStrategy) GetNextOperation(enabled []*operation.Operation, current *operation.Operation, isYielding bool) (*operation.Operation, bool) {
	if len(enabled) == 0 {
		return nil, false
	}
	best := enabled[0]
	for _, op := range enabled[1:] {
		if op.SequenceID < best.SequenceID {
			best = op
		}
	}
	return best, true
}

func newTestScheduler() *scheduler.Scheduler {
	return scheduler.New(ident.New(), lowestSeqStrategy{})
}

// S1: serial completion.
func TestSerialCompletion(t *testing.T) {
	s := newTestScheduler()
	main, _, err := s.Attach()
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	a := ident.New()
	if err := s.CreateOperation(a); err != nil {
		t.Fatalf("CreateOperation(A): %v", err)
	}
	if err := s.StartOperation(a); err != nil {
		t.Fatalf("StartOperation(A): %v", err)
	}

	next, err := s.CompleteOperation(a)
	if err != nil {
		t.Fatalf("CompleteOperation(A): %v", err)
	}
	if next != main {
		t.Fatalf("next after completing A = %s, want main %s", next, main)
	}

	next, err = s.CompleteOperation(main)
	if err != nil {
		t.Fatalf("CompleteOperation(main): %v", err)
	}
	if !next.IsZero() {
		t.Fatalf("next after completing main = %s, want the zero sentinel", next)
	}
}

// S2: wait-all.
func TestWaitAll(t *testing.T) {
	s := newTestScheduler()
	_, _, err := s.Attach()
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	a, b := ident.New(), ident.New()
	for _, id := range []ident.ID{a, b} {
		if err := s.CreateOperation(id); err != nil {
			t.Fatalf("CreateOperation: %v", err)
		}
		if err := s.StartOperation(id); err != nil {
			t.Fatalf("StartOperation: %v", err)
		}
	}

	// main (the scheduled operation right after Attach) waits on both.
	if _, err := s.WaitOperations([]ident.ID{a, b}, true); err != nil {
		t.Fatalf("WaitOperations: %v", err)
	}

	next, err := s.CompleteOperation(a)
	if err != nil {
		t.Fatalf("CompleteOperation(A): %v", err)
	}
	if next != b {
		t.Fatalf("next after completing only A = %s, want B %s (main still blocked)", next, b)
	}

	next, err = s.CompleteOperation(b)
	if err != nil {
		t.Fatalf("CompleteOperation(B): %v", err)
	}
	if next.IsZero() {
		t.Fatal("next after completing both A and B should be main, not the zero sentinel")
	}
}

// S3: resource signal.
func TestResourceSignal(t *testing.T) {
	s := newTestScheduler()
	main, _, err := s.Attach()
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	a := ident.New()
	if err := s.CreateOperation(a); err != nil {
		t.Fatalf("CreateOperation(A): %v", err)
	}
	if err := s.StartOperation(a); err != nil {
		t.Fatalf("StartOperation(A): %v", err)
	}

	r := ident.New()
	if err := s.CreateResource(r); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}

	// main is the scheduled operation; it waits on the resource.
	next, err := s.WaitResource(r)
	if err != nil {
		t.Fatalf("WaitResource: %v", err)
	}
	if next != a {
		t.Fatalf("next after main blocks on resource = %s, want A %s", next, a)
	}

	if err := s.SignalOperation(main, r); err != nil {
		t.Fatalf("SignalOperation: %v", err)
	}

	next, err = s.ScheduleNext()
	if err != nil {
		t.Fatalf("ScheduleNext: %v", err)
	}
	if next != main {
		t.Fatalf("next after signaling main = %s, want main %s (lowest sequenceId)", next, main)
	}
}

// S4: deadlock.
func TestDeadlockDetected(t *testing.T) {
	s := newTestScheduler()
	_, _, err := s.Attach()
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	b := ident.New()
	if err := s.CreateOperation(b); err != nil {
		t.Fatalf("CreateOperation(B): %v", err)
	}
	// B is created but never started: it can never complete.

	_, err = s.WaitOperation(b)
	if err == nil {
		t.Fatal("expected WaitOperation to trigger a deadlock once main blocks with nothing else enabled")
	}
	if wire.CodeOf(err) != wire.DeadlockDetected {
		t.Fatalf("error code = %v, want DeadlockDetected", wire.CodeOf(err))
	}

	// The scheduler is now disabled until Detach.
	if _, err := s.ScheduleNext(); wire.CodeOf(err) != wire.SchedulerDisabled {
		t.Fatalf("error code after deadlock = %v, want SchedulerDisabled", wire.CodeOf(err))
	}

	s.Detach()
	if _, _, err := s.Attach(); err != nil {
		t.Fatalf("Attach after Detach should succeed, got: %v", err)
	}
}

// S5: replay.
func TestReplayFollowsRecordedSequence(t *testing.T) {
	s := newTestScheduler()
	_, _, err := s.Attach()
	if err != nil {
		t.Fatalf("Attach: %v", err)
	}

	a, b, c := ident.New(), ident.New(), ident.New()
	for _, id := range []ident.ID{a, b, c} {
		if err := s.CreateOperation(id); err != nil {
			t.Fatalf("CreateOperation: %v", err)
		}
		if err := s.StartOperation(id); err != nil {
			t.Fatalf("StartOperation: %v", err)
		}
	}

	// main=1, a=2, b=3, c=4 by creation order.
	tr, err := trace.Parse("1,2,1,3")
	if err != nil {
		t.Fatalf("trace.Parse: %v", err)
	}
	s.Reconfigure(strategy.NewReplay(tr))

	if _, err := s.ScheduleNext(); err != nil {
		t.Fatalf("ScheduleNext #1: %v", err)
	}
	second, err := s.ScheduleNext()
	if err != nil {
		t.Fatalf("ScheduleNext #2: %v", err)
	}
	if second != a {
		t.Fatalf("pick #2 = %s, want A %s", second, a)
	}
	if _, err := s.ScheduleNext(); err != nil {
		t.Fatalf("ScheduleNext #3: %v", err)
	}
	fourth, err := s.ScheduleNext()
	if err != nil {
		t.Fatalf("ScheduleNext #4: %v", err)
	}
	if fourth != b {
		t.Fatalf("pick #4 = %s, want B %s", fourth, b)
	}
}
