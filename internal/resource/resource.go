// Package resource implements a named synchronization point: a set
// of operations registered to be notified when the resource is
// signaled.
package resource

import (
	"github.com/amirkhaki/conductor/internal/operation"
	"github.com/amirkhaki/conductor/pkg/ident"
)

// Resource is a named synchronization point. Waiters are tracked by
// their stable sequenceId handle, for the same cycle-breaking reason
// operations link to each other by handle rather than by pointer.
type Resource struct {
	ID      ident.ID
	waiters map[int64]struct{}
}

// New creates an empty resource.
func New(id ident.ID) *Resource {
	return &Resource{ID: id, waiters: make(map[int64]struct{})}
}

// Register adds op to the resource's waiters and marks it
// BlockedOnResource.
func (r *Resource) Register(op *operation.Operation) {
	r.waiters[op.SequenceID] = struct{}{}
	op.WaitResource()
}

// Signal enables op if it is a waiter and removes it, reporting
// whether it did; a no-op (false) otherwise.
func (r *Resource) Signal(table *operation.Table, op *operation.Operation) bool {
	if _, ok := r.waiters[op.SequenceID]; !ok {
		return false
	}
	delete(r.waiters, op.SequenceID)
	op.Enable()
	return true
}

// SignalAll enables every waiter and clears the waiter set, returning
// the operations that were enabled so the caller can add them to the
// scheduler's enabled set.
func (r *Resource) SignalAll(table *operation.Table) []*operation.Operation {
	enabled := make([]*operation.Operation, 0, len(r.waiters))
	for handle := range r.waiters {
		op, ok := table.BySeq(handle)
		if !ok {
			continue
		}
		op.Enable()
		enabled = append(enabled, op)
	}
	r.waiters = make(map[int64]struct{})
	return enabled
}

// Waiters returns the handles of operations currently registered on
// this resource.
func (r *Resource) Waiters() []int64 {
	out := make([]int64, 0, len(r.waiters))
	for h := range r.waiters {
		out = append(out, h)
	}
	return out
}

// IsWaiting reports whether op is currently registered on this
// resource.
func (r *Resource) IsWaiting(op *operation.Operation) bool {
	_, ok := r.waiters[op.SequenceID]
	return ok
}
