// Package handler implements the transport-agnostic dispatch
// boundary: it takes internal/wire request values, resolves the
// named scheduler through internal/session, calls the matching
// internal/scheduler method, and packs the result (or the wire.Code
// of whatever went wrong) into the matching reply value. It knows
// nothing about JSON, WebSockets, or any other transport encoding.
package handler

import (
	"github.com/amirkhaki/conductor/internal/session"
	"github.com/amirkhaki/conductor/internal/wire"
	"github.com/amirkhaki/conductor/pkg/ident"
)

// Handler dispatches wire requests against a session registry.
type Handler struct {
	registry *session.Registry
}

// New creates a Handler backed by registry.
func New(registry *session.Registry) *Handler {
	return &Handler{registry: registry}
}

func schedulerNotFound(id ident.ID) error {
	return wire.Errorf(wire.ClientNotAttached, "unknown scheduler %s", id)
}

// Initialize configures (or reconfigures) a scheduler.
func (h *Handler) Initialize(req wire.InitializeRequest) wire.InitializeReply {
	sched, err := h.registry.CreateScheduler(req)
	if err != nil {
		return wire.InitializeReply{Code: wire.CodeOf(err), SchedulerID: req.SchedulerID}
	}
	return wire.InitializeReply{Code: wire.Success, SchedulerID: sched.ID()}
}

// Attach binds a program under test to a scheduler.
func (h *Handler) Attach(req wire.AttachRequest) wire.AttachReply {
	sched, ok := h.registry.Get(req.SchedulerID)
	if !ok {
		return wire.AttachReply{Code: wire.CodeOf(schedulerNotFound(req.SchedulerID))}
	}
	main, iteration, err := sched.Attach()
	return wire.AttachReply{Code: wire.CodeOf(err), Iteration: iteration, MainOperation: main}
}

// Detach ends the current iteration.
func (h *Handler) Detach(req wire.DetachRequest) wire.DetachReply {
	sched, ok := h.registry.Get(req.SchedulerID)
	if !ok {
		return wire.DetachReply{Code: wire.CodeOf(schedulerNotFound(req.SchedulerID))}
	}
	sched.Detach()
	return wire.DetachReply{Code: wire.Success}
}

// CreateOperation announces a new operation.
func (h *Handler) CreateOperation(req wire.CreateOperationRequest) wire.CreateOperationReply {
	sched, ok := h.registry.Get(req.SchedulerID)
	if !ok {
		return wire.CreateOperationReply{Code: wire.CodeOf(schedulerNotFound(req.SchedulerID))}
	}
	err := sched.CreateOperation(req.OperationID)
	return wire.CreateOperationReply{Code: wire.CodeOf(err)}
}

// StartOperation enables a created operation.
func (h *Handler) StartOperation(req wire.StartOperationRequest) wire.StartOperationReply {
	sched, ok := h.registry.Get(req.SchedulerID)
	if !ok {
		return wire.StartOperationReply{Code: wire.CodeOf(schedulerNotFound(req.SchedulerID))}
	}
	err := sched.StartOperation(req.OperationID)
	return wire.StartOperationReply{Code: wire.CodeOf(err)}
}

// WaitOperation blocks the caller on another operation.
func (h *Handler) WaitOperation(req wire.WaitOperationRequest) wire.WaitOperationReply {
	sched, ok := h.registry.Get(req.SchedulerID)
	if !ok {
		return wire.WaitOperationReply{Code: wire.CodeOf(schedulerNotFound(req.SchedulerID))}
	}
	next, err := sched.WaitOperation(req.OperationID)
	return wire.WaitOperationReply{Code: wire.CodeOf(err), NextOperationID: next}
}

// WaitOperations blocks the caller on a set of operations.
func (h *Handler) WaitOperations(req wire.WaitOperationsRequest) wire.WaitOperationsReply {
	sched, ok := h.registry.Get(req.SchedulerID)
	if !ok {
		return wire.WaitOperationsReply{Code: wire.CodeOf(schedulerNotFound(req.SchedulerID))}
	}
	next, err := sched.WaitOperations(req.OperationIDs, req.WaitAll)
	return wire.WaitOperationsReply{Code: wire.CodeOf(err), NextOperationID: next}
}

// CompleteOperation announces an operation finished.
func (h *Handler) CompleteOperation(req wire.CompleteOperationRequest) wire.CompleteOperationReply {
	sched, ok := h.registry.Get(req.SchedulerID)
	if !ok {
		return wire.CompleteOperationReply{Code: wire.CodeOf(schedulerNotFound(req.SchedulerID))}
	}
	next, err := sched.CompleteOperation(req.OperationID)
	return wire.CompleteOperationReply{Code: wire.CodeOf(err), NextOperationID: next}
}

// CreateResource announces a new resource.
func (h *Handler) CreateResource(req wire.CreateResourceRequest) wire.CreateResourceReply {
	sched, ok := h.registry.Get(req.SchedulerID)
	if !ok {
		return wire.CreateResourceReply{Code: wire.CodeOf(schedulerNotFound(req.SchedulerID))}
	}
	err := sched.CreateResource(req.ResourceID)
	return wire.CreateResourceReply{Code: wire.CodeOf(err)}
}

// DeleteResource announces a resource is gone.
func (h *Handler) DeleteResource(req wire.DeleteResourceRequest) wire.DeleteResourceReply {
	sched, ok := h.registry.Get(req.SchedulerID)
	if !ok {
		return wire.DeleteResourceReply{Code: wire.CodeOf(schedulerNotFound(req.SchedulerID))}
	}
	err := sched.DeleteResource(req.ResourceID)
	return wire.DeleteResourceReply{Code: wire.CodeOf(err)}
}

// WaitResource blocks the caller on a resource.
func (h *Handler) WaitResource(req wire.WaitResourceRequest) wire.WaitResourceReply {
	sched, ok := h.registry.Get(req.SchedulerID)
	if !ok {
		return wire.WaitResourceReply{Code: wire.CodeOf(schedulerNotFound(req.SchedulerID))}
	}
	next, err := sched.WaitResource(req.ResourceID)
	return wire.WaitResourceReply{Code: wire.CodeOf(err), NextOperationID: next}
}

// SignalOperation wakes one waiter on a resource.
func (h *Handler) SignalOperation(req wire.SignalOperationRequest) wire.SignalOperationReply {
	sched, ok := h.registry.Get(req.SchedulerID)
	if !ok {
		return wire.SignalOperationReply{Code: wire.CodeOf(schedulerNotFound(req.SchedulerID))}
	}
	err := sched.SignalOperation(req.OperationID, req.ResourceID)
	return wire.SignalOperationReply{Code: wire.CodeOf(err)}
}

// SignalOperations wakes every waiter on a resource.
func (h *Handler) SignalOperations(req wire.SignalOperationsRequest) wire.SignalOperationsReply {
	sched, ok := h.registry.Get(req.SchedulerID)
	if !ok {
		return wire.SignalOperationsReply{Code: wire.CodeOf(schedulerNotFound(req.SchedulerID))}
	}
	err := sched.SignalOperations(req.ResourceID)
	return wire.SignalOperationsReply{Code: wire.CodeOf(err)}
}

// ScheduleNext asks for the next operation to run.
func (h *Handler) ScheduleNext(req wire.ScheduleNextRequest) wire.ScheduleNextReply {
	sched, ok := h.registry.Get(req.SchedulerID)
	if !ok {
		return wire.ScheduleNextReply{Code: wire.CodeOf(schedulerNotFound(req.SchedulerID))}
	}
	next, err := sched.ScheduleNext()
	return wire.ScheduleNextReply{Code: wire.CodeOf(err), NextOperationID: next}
}

// GetNextBoolean asks the strategy for a nondeterministic bool.
func (h *Handler) GetNextBoolean(req wire.GetNextBooleanRequest) wire.GetNextBooleanReply {
	sched, ok := h.registry.Get(req.SchedulerID)
	if !ok {
		return wire.GetNextBooleanReply{Code: wire.CodeOf(schedulerNotFound(req.SchedulerID))}
	}
	v, err := sched.GetNextBoolean()
	return wire.GetNextBooleanReply{Code: wire.CodeOf(err), Value: v}
}

// GetNextInteger asks the strategy for a nondeterministic int.
func (h *Handler) GetNextInteger(req wire.GetNextIntegerRequest) wire.GetNextIntegerReply {
	sched, ok := h.registry.Get(req.SchedulerID)
	if !ok {
		return wire.GetNextIntegerReply{Code: wire.CodeOf(schedulerNotFound(req.SchedulerID))}
	}
	v, err := sched.GetNextInteger(req.MaxValue)
	return wire.GetNextIntegerReply{Code: wire.CodeOf(err), Value: v}
}

// GetTrace asks for the serialized schedule trace so far.
func (h *Handler) GetTrace(req wire.GetTraceRequest) wire.GetTraceReply {
	sched, ok := h.registry.Get(req.SchedulerID)
	if !ok {
		return wire.GetTraceReply{Code: wire.CodeOf(schedulerNotFound(req.SchedulerID))}
	}
	t, err := sched.GetTrace()
	return wire.GetTraceReply{Code: wire.CodeOf(err), Trace: t}
}
