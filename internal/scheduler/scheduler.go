// Package scheduler implements the serializer: the per-session engine
// that owns the operation/resource tables, the enabled set, the
// currently scheduled operation, and drives the active strategy.
// Every exported method is guarded by a single monitor, so calls from
// concurrent goroutines are serviced one at a time.
package scheduler

import (
	"sort"
	"sync"

	"github.com/amirkhaki/conductor/internal/operation"
	"github.com/amirkhaki/conductor/internal/resource"
	"github.com/amirkhaki/conductor/internal/strategy"
	"github.com/amirkhaki/conductor/internal/wire"
	"github.com/amirkhaki/conductor/pkg/ident"
	"github.com/amirkhaki/conductor/pkg/trace"
)

// Scheduler serializes every call against one concurrency-controlled
// session.
type Scheduler struct {
	mu sync.Mutex

	id ident.ID

	table     *operation.Table
	resources map[ident.ID]*resource.Resource
	enabled   map[int64]*operation.Operation

	scheduledOp *operation.Operation

	sequenceCounter int64
	mainOperationID ident.ID
	iterationCount  int
	attached        bool
	disabled        bool

	trace    *trace.Trace
	strategy strategy.OperationStrategy
}

// New creates a scheduler identified by id, configured with strat.
func New(id ident.ID, strat strategy.OperationStrategy) *Scheduler {
	return &Scheduler{
		id:        id,
		table:     operation.NewTable(),
		resources: make(map[ident.ID]*resource.Resource),
		enabled:   make(map[int64]*operation.Operation),
		trace:     trace.New(),
		strategy:  strat,
	}
}

// ID returns the scheduler's session id.
func (s *Scheduler) ID() ident.ID {
	return s.id
}

// Reconfigure replaces the active strategy, as a repeated Initialize
// call on an already-created scheduler does.
func (s *Scheduler) Reconfigure(strat strategy.OperationStrategy) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.strategy = strat
}

func (s *Scheduler) nextSeq() int64 {
	s.sequenceCounter++
	return s.sequenceCounter
}

func (s *Scheduler) checkActive() error {
	if s.disabled {
		return wire.Errorf(wire.SchedulerDisabled, "scheduler %s is disabled", s.id)
	}
	return nil
}

func (s *Scheduler) checkAttached() error {
	if err := s.checkActive(); err != nil {
		return err
	}
	if !s.attached {
		return wire.Errorf(wire.ClientNotAttached, "scheduler %s has no attached client", s.id)
	}
	return nil
}

func (s *Scheduler) disable() {
	s.disabled = true
}

func (s *Scheduler) enabledSlice() []*operation.Operation {
	out := make([]*operation.Operation, 0, len(s.enabled))
	for _, op := range s.enabled {
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SequenceID < out[j].SequenceID })
	return out
}

func (s *Scheduler) addEnabled(ops ...*operation.Operation) {
	for _, op := range ops {
		s.enabled[op.SequenceID] = op
	}
}

func (s *Scheduler) removeEnabled(op *operation.Operation) {
	delete(s.enabled, op.SequenceID)
}

// Attach binds a program under test to the scheduler, starting a new
// iteration.
func (s *Scheduler) Attach() (mainOperationID ident.ID, iteration int, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkActive(); err != nil {
		return ident.Zero, 0, err
	}
	if s.attached {
		return ident.Zero, 0, wire.Errorf(wire.ClientAttached, "scheduler %s already attached", s.id)
	}

	s.trace.Reset()
	s.table.Clear()
	s.resources = make(map[ident.ID]*resource.Resource)
	s.enabled = make(map[int64]*operation.Operation)
	s.sequenceCounter = 0
	s.mainOperationID = ident.New()
	s.strategy.InitializeNextIteration(s.iterationCount)

	main := operation.New(s.mainOperationID, s.nextSeq())
	s.table.Put(main)
	main.Enable()
	s.addEnabled(main)
	s.scheduledOp = main
	s.attached = true

	return s.mainOperationID, s.iterationCount, nil
}

// Detach ends the current iteration: every non-completed operation is
// canceled, the operation/resource tables and enabled set are
// cleared, the sequence counter resets, the iteration count advances,
// and any SchedulerDisabled state clears.
func (s *Scheduler) Detach() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.attached {
		for _, op := range s.table.All() {
			if !op.IsCompleted() {
				op.Cancel()
			}
		}
		s.iterationCount++
	}

	s.table.Clear()
	s.resources = make(map[ident.ID]*resource.Resource)
	s.enabled = make(map[int64]*operation.Operation)
	s.sequenceCounter = 0
	s.scheduledOp = nil
	s.attached = false
	s.disabled = false
}

// CreateOperation registers a new controlled operation, or resets a
// terminal one reusing the same external id.
func (s *Scheduler) CreateOperation(id ident.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return err
	}
	if id == s.mainOperationID {
		return wire.Errorf(wire.MainOperationExplicitlyCreated, "operation %s is the reserved main operation", id)
	}

	if existing, ok := s.table.ByID(id); ok {
		if !existing.IsCompleted() {
			return wire.Errorf(wire.DuplicateOperation, "operation %s already exists", id)
		}
		existing.Reset()
		if s.scheduledOp == nil {
			s.scheduledOp = existing
		}
		return nil
	}

	op := operation.New(id, s.nextSeq())
	s.table.Put(op)
	if s.scheduledOp == nil {
		s.scheduledOp = op
	}
	return nil
}

// StartOperation enables a freshly created operation, making it
// eligible for scheduling.
func (s *Scheduler) StartOperation(id ident.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return err
	}
	if id == s.mainOperationID {
		return wire.Errorf(wire.MainOperationExplicitlyStarted, "operation %s is the reserved main operation", id)
	}

	op, ok := s.table.ByID(id)
	if !ok {
		return wire.Errorf(wire.NotExistingOperation, "operation %s does not exist", id)
	}
	if op.Status != operation.None {
		if op.IsCompleted() {
			return wire.Errorf(wire.OperationAlreadyCompleted, "operation %s already completed", id)
		}
		return wire.Errorf(wire.OperationAlreadyStarted, "operation %s already started", id)
	}

	op.Enable()
	s.addEnabled(op)
	return nil
}

// WaitOperation blocks the currently scheduled operation on target
// and returns the next operation to run.
func (s *Scheduler) WaitOperation(target ident.ID) (ident.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return ident.Zero, err
	}
	targetOp, ok := s.table.ByID(target)
	if !ok {
		return ident.Zero, wire.Errorf(wire.NotExistingOperation, "operation %s does not exist", target)
	}

	caller := s.scheduledOp
	if caller == nil {
		s.disable()
		return ident.Zero, wire.Errorf(wire.InternalError, "no operation is currently scheduled")
	}
	if targetOp.IsCompleted() {
		return caller.ID, nil
	}

	caller.WaitOperation(s.table, targetOp)
	s.removeEnabled(caller)
	return s.scheduleNextLocked()
}

// WaitOperations blocks the currently scheduled operation on the
// given targets, wait-all or wait-any, and returns the next operation
// to run.
func (s *Scheduler) WaitOperations(targets []ident.ID, waitAll bool) (ident.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return ident.Zero, err
	}

	targetOps := make([]*operation.Operation, 0, len(targets))
	for _, id := range targets {
		op, ok := s.table.ByID(id)
		if !ok {
			return ident.Zero, wire.Errorf(wire.NotExistingOperation, "operation %s does not exist", id)
		}
		targetOps = append(targetOps, op)
	}

	caller := s.scheduledOp
	if caller == nil {
		s.disable()
		return ident.Zero, wire.Errorf(wire.InternalError, "no operation is currently scheduled")
	}

	before := caller.Status
	caller.WaitOperations(s.table, targetOps, waitAll)
	if caller.Status == before {
		// wait-any found an already-completed target, or wait-all
		// found every target already completed: no block.
		return caller.ID, nil
	}

	s.removeEnabled(caller)
	return s.scheduleNextLocked()
}

// WaitResource blocks the currently scheduled operation on resource id
// and returns the next operation to run.
func (s *Scheduler) WaitResource(id ident.ID) (ident.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return ident.Zero, err
	}
	res, ok := s.resources[id]
	if !ok {
		return ident.Zero, wire.Errorf(wire.NotExistingResource, "resource %s does not exist", id)
	}

	caller := s.scheduledOp
	if caller == nil {
		s.disable()
		return ident.Zero, wire.Errorf(wire.InternalError, "no operation is currently scheduled")
	}

	res.Register(caller)
	s.removeEnabled(caller)
	return s.scheduleNextLocked()
}

// SignalOperation wakes opID if it is registered on resource resID.
func (s *Scheduler) SignalOperation(opID, resID ident.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return err
	}
	res, ok := s.resources[resID]
	if !ok {
		return wire.Errorf(wire.NotExistingResource, "resource %s does not exist", resID)
	}
	op, ok := s.table.ByID(opID)
	if !ok {
		return wire.Errorf(wire.NotExistingOperation, "operation %s does not exist", opID)
	}

	if res.Signal(s.table, op) {
		s.addEnabled(op)
	}
	return nil
}

// SignalOperations wakes every operation registered on resource resID.
func (s *Scheduler) SignalOperations(resID ident.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return err
	}
	res, ok := s.resources[resID]
	if !ok {
		return wire.Errorf(wire.NotExistingResource, "resource %s does not exist", resID)
	}

	s.addEnabled(res.SignalAll(s.table)...)
	return nil
}

// CompleteOperation marks id Completed and returns the next operation
// to run.
func (s *Scheduler) CompleteOperation(id ident.ID) (ident.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return ident.Zero, err
	}
	op, ok := s.table.ByID(id)
	if !ok {
		return ident.Zero, wire.Errorf(wire.NotExistingOperation, "operation %s does not exist", id)
	}
	if op.Status == operation.None {
		return ident.Zero, wire.Errorf(wire.OperationNotStarted, "operation %s was never started", id)
	}
	if op.IsCompleted() {
		return ident.Zero, wire.Errorf(wire.OperationAlreadyCompleted, "operation %s already completed", id)
	}

	s.removeEnabled(op)
	s.addEnabled(op.Complete(s.table)...)
	return s.scheduleNextLocked()
}

// CreateResource registers a named resource. Creating an id that
// already exists is a no-op.
func (s *Scheduler) CreateResource(id ident.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return err
	}
	if _, ok := s.resources[id]; ok {
		return nil
	}
	s.resources[id] = resource.New(id)
	return nil
}

// DeleteResource removes a resource unconditionally; deleting an
// unknown id is a no-op.
func (s *Scheduler) DeleteResource(id ident.ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return err
	}
	delete(s.resources, id)
	return nil
}

// hasOutstanding reports whether any operation in the table has not
// reached a terminal state.
func (s *Scheduler) hasOutstanding() bool {
	for _, op := range s.table.All() {
		if !op.IsCompleted() {
			return true
		}
	}
	return false
}

// scheduleNextLocked implements ScheduleNext's core logic; callers
// must hold s.mu.
func (s *Scheduler) scheduleNextLocked() (ident.ID, error) {
	if len(s.enabled) == 0 {
		if s.hasOutstanding() {
			s.disable()
			return ident.Zero, wire.Errorf(wire.DeadlockDetected, "no enabled operation but uncompleted operations remain (%d tracked)", s.table.Len())
		}
		s.scheduledOp = nil
		return ident.Zero, nil
	}

	next, ok := s.strategy.GetNextOperation(s.enabledSlice(), s.scheduledOp, false)
	if !ok {
		s.scheduledOp = nil
		return ident.Zero, nil
	}

	s.trace.Append(trace.OperationChoice, next.SequenceID)
	s.scheduledOp = next
	return next.ID, nil
}

// ScheduleNext asks the active strategy to pick the next operation to
// run among the enabled set.
func (s *Scheduler) ScheduleNext() (ident.ID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return ident.Zero, err
	}
	return s.scheduleNextLocked()
}

// GetNextBoolean returns a nondeterministic boolean choice from the
// active strategy, recorded in the trace.
func (s *Scheduler) GetNextBoolean() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return false, err
	}
	v := s.strategy.GetNextBoolean()
	value := int64(0)
	if v {
		value = 1
	}
	s.trace.Append(trace.BooleanChoice, value)
	return v, nil
}

// GetNextInteger returns a nondeterministic integer choice in
// [0, max) from the active strategy, recorded in the trace.
func (s *Scheduler) GetNextInteger(max int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkAttached(); err != nil {
		return 0, err
	}
	v := s.strategy.GetNextInteger(max)
	s.trace.Append(trace.IntegerChoice, int64(v))
	return v, nil
}

// GetTrace returns the CSV-serialized schedule trace of the current
// or most recently completed iteration. Unlike every other method, it
// is available whether or not a client is currently attached, so a
// caller can retrieve results after Detach.
func (s *Scheduler) GetTrace() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.checkActive(); err != nil {
		return "", err
	}
	return s.trace.String(), nil
}

// IterationCount returns the number of iterations completed so far.
func (s *Scheduler) IterationCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.iterationCount
}
