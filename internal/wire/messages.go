package wire

import "github.com/amirkhaki/conductor/pkg/ident"

// StrategyType selects the operation-selection strategy Initialize
// configures a scheduler with. Unknown values fall back to Random.
type StrategyType string

const (
	StrategyRandom        StrategyType = "random"
	StrategyProbabilistic StrategyType = "probabilistic"
	StrategyPCT           StrategyType = "pct"
	StrategyFairPCT       StrategyType = "fairpct"
	StrategyReplay        StrategyType = "replay"
)

// Config carries the tunable inputs Initialize passes through to a
// strategy.
type Config struct {
	MaxFairSchedulingSteps   int
	MaxUnfairSchedulingSteps int
	SafetyPrefixBound        int
	StrategyBound            int
	RandomSeed               int64
}

// InitializeRequest configures (or reconfigures) a scheduler.
type InitializeRequest struct {
	SchedulerID  ident.ID
	StrategyType StrategyType
	Trace        string // CSV of sequenceIds, only meaningful for StrategyReplay
	Config       Config
}

// InitializeReply reports the scheduler the request was bound to.
type InitializeReply struct {
	Code        Code
	SchedulerID ident.ID
}

// AttachRequest binds a program under test to a scheduler.
type AttachRequest struct {
	SchedulerID ident.ID
}

// AttachReply reports the new iteration and the main operation id.
type AttachReply struct {
	Code          Code
	Iteration     int
	MainOperation ident.ID
}

// DetachRequest ends the current iteration.
type DetachRequest struct {
	SchedulerID ident.ID
}

// DetachReply carries only the result code.
type DetachReply struct {
	Code Code
}

// CreateOperationRequest announces a new operation.
type CreateOperationRequest struct {
	SchedulerID ident.ID
	OperationID ident.ID
}

// CreateOperationReply carries only the result code.
type CreateOperationReply struct {
	Code Code
}

// StartOperationRequest enables a created operation.
type StartOperationRequest struct {
	SchedulerID ident.ID
	OperationID ident.ID
}

// StartOperationReply carries only the result code.
type StartOperationReply struct {
	Code Code
}

// WaitOperationRequest blocks the caller on another operation.
type WaitOperationRequest struct {
	SchedulerID ident.ID
	OperationID ident.ID
}

// WaitOperationReply carries the next operation id to run.
type WaitOperationReply struct {
	Code            Code
	NextOperationID ident.ID
}

// WaitOperationsRequest blocks the caller on a set of operations.
type WaitOperationsRequest struct {
	SchedulerID  ident.ID
	OperationIDs []ident.ID
	WaitAll      bool
}

// WaitOperationsReply carries the next operation id to run.
type WaitOperationsReply struct {
	Code            Code
	NextOperationID ident.ID
}

// CompleteOperationRequest announces an operation finished.
type CompleteOperationRequest struct {
	SchedulerID ident.ID
	OperationID ident.ID
}

// CompleteOperationReply carries the next operation id to run.
type CompleteOperationReply struct {
	Code            Code
	NextOperationID ident.ID
}

// CreateResourceRequest announces a new resource.
type CreateResourceRequest struct {
	SchedulerID ident.ID
	ResourceID  ident.ID
}

// CreateResourceReply carries only the result code.
type CreateResourceReply struct {
	Code Code
}

// DeleteResourceRequest announces a resource is gone.
type DeleteResourceRequest struct {
	SchedulerID ident.ID
	ResourceID  ident.ID
}

// DeleteResourceReply carries only the result code.
type DeleteResourceReply struct {
	Code Code
}

// WaitResourceRequest blocks the caller on a resource.
type WaitResourceRequest struct {
	SchedulerID ident.ID
	ResourceID  ident.ID
}

// WaitResourceReply carries the next operation id to run.
type WaitResourceReply struct {
	Code            Code
	NextOperationID ident.ID
}

// SignalOperationRequest wakes one waiter on a resource.
type SignalOperationRequest struct {
	SchedulerID ident.ID
	ResourceID  ident.ID
	OperationID ident.ID
}

// SignalOperationReply carries only the result code.
type SignalOperationReply struct {
	Code Code
}

// SignalOperationsRequest wakes every waiter on a resource.
type SignalOperationsRequest struct {
	SchedulerID ident.ID
	ResourceID  ident.ID
}

// SignalOperationsReply carries only the result code.
type SignalOperationsReply struct {
	Code Code
}

// ScheduleNextRequest asks for the next operation to run without a
// preceding state transition.
type ScheduleNextRequest struct {
	SchedulerID ident.ID
}

// ScheduleNextReply carries the next operation id to run.
type ScheduleNextReply struct {
	Code            Code
	NextOperationID ident.ID
}

// GetNextBooleanRequest asks the strategy for a nondeterministic bool.
type GetNextBooleanRequest struct {
	SchedulerID ident.ID
}

// GetNextBooleanReply carries the chosen value.
type GetNextBooleanReply struct {
	Code  Code
	Value bool
}

// GetNextIntegerRequest asks the strategy for a nondeterministic int
// in [0, MaxValue).
type GetNextIntegerRequest struct {
	SchedulerID ident.ID
	MaxValue    int
}

// GetNextIntegerReply carries the chosen value.
type GetNextIntegerReply struct {
	Code  Code
	Value int
}

// GetTraceRequest asks for the serialized schedule trace so far.
type GetTraceRequest struct {
	SchedulerID ident.ID
}

// GetTraceReply carries the CSV trace text.
type GetTraceReply struct {
	Code  Code
	Trace string
}
