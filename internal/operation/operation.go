// Package operation implements the operation state machine: the
// controlled unit the scheduler serializes, its wait/signal links to
// other operations, and the transitions that move it through its
// lifecycle.
package operation

import "github.com/amirkhaki/conductor/pkg/ident"

// Operation is one controlled unit of execution in the program under
// test.
type Operation struct {
	ID         ident.ID
	SequenceID int64
	Status     Status

	// waitOperations holds the handles of operations this one is
	// blocked on; signalOperations holds the handles of operations
	// that must be re-evaluated when this one completes. Both sets
	// hold only stable int64 handles into the owning Table, never
	// pointers, so the graph they describe can be cyclic without
	// the language's GC or any serializer ever seeing a cycle.
	waitOperations   map[int64]struct{}
	signalOperations map[int64]struct{}

	waitAll bool
}

// New creates a fresh operation in status None.
func New(id ident.ID, sequenceID int64) *Operation {
	return &Operation{
		ID:               id,
		SequenceID:       sequenceID,
		Status:           None,
		waitOperations:   make(map[int64]struct{}),
		signalOperations: make(map[int64]struct{}),
	}
}

// IsCompleted reports whether the operation has reached a terminal
// state.
func (o *Operation) IsCompleted() bool {
	return o.Status.IsTerminal()
}

// WaitOperationHandles returns the handles this operation is currently
// blocked on.
func (o *Operation) WaitOperationHandles() []int64 {
	out := make([]int64, 0, len(o.waitOperations))
	for h := range o.waitOperations {
		out = append(out, h)
	}
	return out
}

// SignalOperationHandles returns the handles that must be re-evaluated
// when this operation completes.
func (o *Operation) SignalOperationHandles() []int64 {
	out := make([]int64, 0, len(o.signalOperations))
	for h := range o.signalOperations {
		out = append(out, h)
	}
	return out
}

// Enable transitions the operation to Enabled. The caller is
// responsible for inserting it into the scheduler's enabled set.
func (o *Operation) Enable() {
	o.Status = Enabled
}

// WaitOperation blocks the operation on target, linking both
// directions: target is added to this operation's waitOperations, and
// this operation is added to target's signalOperations.
func (o *Operation) WaitOperation(table *Table, target *Operation) {
	o.Status = BlockedOnWaitAll
	o.waitAll = true
	o.link(table, target)
}

// WaitOperations blocks the operation on a set of targets, wait-all
// or wait-any per waitAll. Already-completed targets are skipped —
// they can never contribute a future signal — and a wait-any that
// finds any target already completed does not block at all.
func (o *Operation) WaitOperations(table *Table, targets []*Operation, waitAll bool) {
	if !waitAll {
		for _, target := range targets {
			if target.IsCompleted() {
				return
			}
		}
	}

	pending := targets[:0:0]
	for _, target := range targets {
		if target.IsCompleted() {
			continue
		}
		pending = append(pending, target)
	}

	if waitAll && len(pending) == 0 {
		return
	}

	if waitAll {
		o.Status = BlockedOnWaitAll
	} else {
		o.Status = BlockedOnWaitAny
	}
	o.waitAll = waitAll

	for _, target := range pending {
		o.link(table, target)
	}
}

// link adds target to this operation's waitOperations and adds this
// operation to target's signalOperations, keeping the back-link
// invariant consistent in one place.
func (o *Operation) link(table *Table, target *Operation) {
	o.waitOperations[target.SequenceID] = struct{}{}
	target.signalOperations[o.SequenceID] = struct{}{}
	table.Put(target)
}

// WaitResource blocks the operation pending a resource signal. The
// resource itself tracks the waiter; this just records the status.
func (o *Operation) WaitResource() {
	o.Status = BlockedOnResource
}

// Complete transitions the operation to Completed and re-evaluates
// every operation that was waiting on it, per the back-link list.
// It returns the operations that newly became Enabled as a result,
// which the caller (the scheduler) must add to its enabled set.
func (o *Operation) Complete(table *Table) []*Operation {
	o.Status = Completed
	return o.signalWaiters(table)
}

// Cancel transitions the operation to Canceled. Cancel does not wake
// waiters (only Complete does); a canceled operation's waiters remain
// blocked, matching Detach's "cancel every non-completed operation"
// semantics where the whole iteration is
// about to be torn down anyway.
func (o *Operation) Cancel() {
	o.Status = Canceled
}

// signalWaiters re-evaluates every operation waiting on o and returns
// the ones that became Enabled.
func (o *Operation) signalWaiters(table *Table) []*Operation {
	var reenabled []*Operation
	for handle := range o.signalOperations {
		waiter, ok := table.BySeq(handle)
		if !ok {
			continue
		}
		if waiter.TryEnable(table) {
			reenabled = append(reenabled, waiter)
		}
	}
	o.signalOperations = make(map[int64]struct{})
	return reenabled
}

// TryEnable re-evaluates a blocked operation: if it is BlockedOnWaitAll
// and every one of its waitOperations has completed, or
// BlockedOnWaitAny and any one has, it becomes Enabled and its
// waitOperations set is cleared. Otherwise it remains blocked.
// TryEnable is a no-op (returns false) for operations not currently
// blocked on other operations.
func (o *Operation) TryEnable(table *Table) bool {
	switch o.Status {
	case BlockedOnWaitAll:
		for handle := range o.waitOperations {
			target, ok := table.BySeq(handle)
			if !ok || !target.IsCompleted() {
				return false
			}
		}
	case BlockedOnWaitAny:
		any := false
		for handle := range o.waitOperations {
			target, ok := table.BySeq(handle)
			if ok && target.IsCompleted() {
				any = true
				break
			}
		}
		if !any {
			return false
		}
	default:
		return false
	}

	o.waitOperations = make(map[int64]struct{})
	o.Status = Enabled
	return true
}

// Reset returns a terminal operation to status None, clearing its
// wait/signal sets so it can be reused by a later iteration under the
// same external id.
func (o *Operation) Reset() {
	o.Status = None
	o.waitOperations = make(map[int64]struct{})
	o.signalOperations = make(map[int64]struct{})
	o.waitAll = false
}
