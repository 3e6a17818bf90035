package operation_test

import (
	"testing"

	"github.com/amirkhaki/conductor/internal/operation"
	"github.com/amirkhaki/conductor/pkg/ident"
)

func newOp(table *operation.Table, seq int64) *operation.Operation {
	op := operation.New(ident.New(), seq)
	table.Put(op)
	return op
}

func TestEnableTransitionsFromNone(t *testing.T) {
	table := operation.NewTable()
	op := newOp(table, 1)

	if op.Status != operation.None {
		t.Fatalf("new operation status = %v, want None", op.Status)
	}
	op.Enable()
	if op.Status != operation.Enabled {
		t.Fatalf("status after Enable = %v, want Enabled", op.Status)
	}
}

func TestCompleteSignalsWaitAllWaiter(t *testing.T) {
	table := operation.NewTable()
	a := newOp(table, 1)
	b := newOp(table, 2)
	a.Enable()
	b.Enable()

	b.WaitOperation(table, a)
	if b.Status != operation.BlockedOnWaitAll {
		t.Fatalf("waiter status = %v, want BlockedOnWaitAll", b.Status)
	}

	reenabled := a.Complete(table)
	if len(reenabled) != 1 || reenabled[0] != b {
		t.Fatalf("Complete() reenabled = %v, want [b]", reenabled)
	}
	if b.Status != operation.Enabled {
		t.Fatalf("waiter status after Complete = %v, want Enabled", b.Status)
	}
}

func TestWaitAllBlocksUntilEveryTargetCompletes(t *testing.T) {
	table := operation.NewTable()
	a := newOp(table, 1)
	b := newOp(table, 2)
	waiter := newOp(table, 3)
	a.Enable()
	b.Enable()
	waiter.Enable()

	waiter.WaitOperations(table, []*operation.Operation{a, b}, true)
	if waiter.Status != operation.BlockedOnWaitAll {
		t.Fatalf("status = %v, want BlockedOnWaitAll", waiter.Status)
	}

	if reenabled := a.Complete(table); len(reenabled) != 0 {
		t.Fatalf("completing only a reenabled %v, want none", reenabled)
	}
	if waiter.Status != operation.BlockedOnWaitAll {
		t.Fatalf("status after one of two targets completed = %v, want still blocked", waiter.Status)
	}

	reenabled := b.Complete(table)
	if len(reenabled) != 1 || reenabled[0] != waiter {
		t.Fatalf("completing b reenabled %v, want [waiter]", reenabled)
	}
}

func TestWaitAnyDoesNotBlockIfATargetAlreadyCompleted(t *testing.T) {
	table := operation.NewTable()
	a := newOp(table, 1)
	b := newOp(table, 2)
	waiter := newOp(table, 3)
	a.Enable()
	b.Enable()
	waiter.Enable()

	a.Complete(table)

	waiter.WaitOperations(table, []*operation.Operation{a, b}, false)
	if waiter.Status != operation.Enabled {
		t.Fatalf("status = %v, want Enabled (wait-any with a completed target should not block)", waiter.Status)
	}
}

func TestWaitAllDoesNotBlockIfAllTargetsAlreadyCompleted(t *testing.T) {
	table := operation.NewTable()
	a := newOp(table, 1)
	b := newOp(table, 2)
	waiter := newOp(table, 3)
	a.Enable()
	b.Enable()
	waiter.Enable()

	a.Complete(table)
	b.Complete(table)

	waiter.WaitOperations(table, []*operation.Operation{a, b}, true)
	if waiter.Status != operation.Enabled {
		t.Fatalf("status = %v, want Enabled (wait-all with every target already completed should not block)", waiter.Status)
	}
}

func TestWaitAnyBlocksUntilOneTargetCompletes(t *testing.T) {
	table := operation.NewTable()
	a := newOp(table, 1)
	b := newOp(table, 2)
	waiter := newOp(table, 3)
	a.Enable()
	b.Enable()
	waiter.Enable()

	waiter.WaitOperations(table, []*operation.Operation{a, b}, false)
	if waiter.Status != operation.BlockedOnWaitAny {
		t.Fatalf("status = %v, want BlockedOnWaitAny", waiter.Status)
	}

	reenabled := a.Complete(table)
	if len(reenabled) != 1 || reenabled[0] != waiter {
		t.Fatalf("completing a reenabled %v, want [waiter]", reenabled)
	}
}

func TestCancelDoesNotWakeWaiters(t *testing.T) {
	table := operation.NewTable()
	a := newOp(table, 1)
	waiter := newOp(table, 2)
	a.Enable()
	waiter.Enable()

	waiter.WaitOperation(table, a)
	a.Cancel()

	if waiter.Status != operation.BlockedOnWaitAll {
		t.Fatalf("waiter status after target Cancel = %v, want unchanged BlockedOnWaitAll", waiter.Status)
	}
}

func TestResetReturnsToNone(t *testing.T) {
	table := operation.NewTable()
	op := newOp(table, 1)
	op.Enable()
	op.Complete(table)

	op.Reset()
	if op.Status != operation.None {
		t.Fatalf("status after Reset = %v, want None", op.Status)
	}
	if len(op.WaitOperationHandles()) != 0 || len(op.SignalOperationHandles()) != 0 {
		t.Fatal("Reset should clear wait/signal handle sets")
	}
}

func TestTryEnableNoOpWhenNotBlocked(t *testing.T) {
	table := operation.NewTable()
	op := newOp(table, 1)
	if op.TryEnable(table) {
		t.Fatal("TryEnable on a None operation should be a no-op returning false")
	}
}

func TestIsCompletedTerminalStates(t *testing.T) {
	table := operation.NewTable()
	completed := newOp(table, 1)
	completed.Enable()
	completed.Complete(table)
	if !completed.IsCompleted() {
		t.Fatal("Completed operation should report IsCompleted() == true")
	}

	canceled := newOp(table, 2)
	canceled.Enable()
	canceled.Cancel()
	if !canceled.IsCompleted() {
		t.Fatal("Canceled operation should report IsCompleted() == true")
	}
}
