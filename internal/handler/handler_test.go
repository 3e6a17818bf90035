package handler_test

import (
	"testing"

	"github.com/amirkhaki/conductor/internal/handler"
	"github.com/amirkhaki/conductor/internal/session"
	"github.com/amirkhaki/conductor/internal/wire"
	"github.com/amirkhaki/conductor/pkg/ident"
)

func newInitialized(t *testing.T) (*handler.Handler, ident.ID) {
	t.Helper()
	reg := session.New(nil)
	h := handler.New(reg)
	id := ident.New()

	reply := h.Initialize(wire.InitializeRequest{
		SchedulerID:  id,
		StrategyType: wire.StrategyRandom,
		Config:       wire.Config{RandomSeed: 1},
	})
	if reply.Code != wire.Success {
		t.Fatalf("Initialize code = %v, want Success", reply.Code)
	}
	return h, id
}

func TestAttachOnUnknownSchedulerFails(t *testing.T) {
	reg := session.New(nil)
	h := handler.New(reg)

	reply := h.Attach(wire.AttachRequest{SchedulerID: ident.New()})
	if reply.Code != wire.ClientNotAttached {
		t.Fatalf("code = %v, want ClientNotAttached", reply.Code)
	}
}

func TestAttachThenCreateAndCompleteOperation(t *testing.T) {
	h, id := newInitialized(t)

	attach := h.Attach(wire.AttachRequest{SchedulerID: id})
	if attach.Code != wire.Success {
		t.Fatalf("Attach code = %v, want Success", attach.Code)
	}

	op := ident.New()
	create := h.CreateOperation(wire.CreateOperationRequest{SchedulerID: id, OperationID: op})
	if create.Code != wire.Success {
		t.Fatalf("CreateOperation code = %v, want Success", create.Code)
	}

	start := h.StartOperation(wire.StartOperationRequest{SchedulerID: id, OperationID: op})
	if start.Code != wire.Success {
		t.Fatalf("StartOperation code = %v, want Success", start.Code)
	}

	complete := h.CompleteOperation(wire.CompleteOperationRequest{SchedulerID: id, OperationID: op})
	if complete.Code != wire.Success {
		t.Fatalf("CompleteOperation code = %v, want Success", complete.Code)
	}
	if complete.NextOperationID != attach.MainOperation {
		t.Fatalf("next = %s, want main %s", complete.NextOperationID, attach.MainOperation)
	}
}

func TestDetachThenGetTraceStillReadable(t *testing.T) {
	h, id := newInitialized(t)

	attach := h.Attach(wire.AttachRequest{SchedulerID: id})
	if attach.Code != wire.Success {
		t.Fatalf("Attach code = %v, want Success", attach.Code)
	}

	detach := h.Detach(wire.DetachRequest{SchedulerID: id})
	if detach.Code != wire.Success {
		t.Fatalf("Detach code = %v, want Success", detach.Code)
	}

	trace := h.GetTrace(wire.GetTraceRequest{SchedulerID: id})
	if trace.Code != wire.Success {
		t.Fatalf("GetTrace code = %v, want Success", trace.Code)
	}
}
