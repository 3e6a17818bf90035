package strategy

// LivenessChecker verifies that no monitor has exceeded its liveness
// "temperature" threshold. It is an external collaborator; this
// package only calls it.
type LivenessChecker interface {
	CheckTemperatures() error
}

// LivenessWrapper decorates a delay-injection strategy with a
// liveness check run before every GetNextDelay call, but only while
// the wrapped strategy reports itself fair — an unfair strategy
// already cannot promise progress, so there is nothing meaningful to
// check.
type LivenessWrapper struct {
	inner     DelayStrategy
	checker   LivenessChecker
	violation error
}

// NewLivenessWrapper wraps inner with a liveness check driven by
// checker.
func NewLivenessWrapper(inner DelayStrategy, checker LivenessChecker) *LivenessWrapper {
	return &LivenessWrapper{inner: inner, checker: checker}
}

func (w *LivenessWrapper) InitializeNextIteration(iteration int) {
	w.violation = nil
	w.inner.InitializeNextIteration(iteration)
}

func (w *LivenessWrapper) GetStepCount() int       { return w.inner.GetStepCount() }
func (w *LivenessWrapper) IsMaxStepsReached() bool { return w.inner.IsMaxStepsReached() }
func (w *LivenessWrapper) IsFair() bool            { return w.inner.IsFair() }
func (w *LivenessWrapper) GetDescription() string  { return "liveness(" + w.inner.GetDescription() + ")" }

// LastViolation returns the most recent liveness violation reported by
// the checker, if any, since the last InitializeNextIteration.
func (w *LivenessWrapper) LastViolation() error { return w.violation }

func (w *LivenessWrapper) RegisterTask(taskID uint64)   { w.inner.RegisterTask(taskID) }
func (w *LivenessWrapper) UnregisterTask(taskID uint64) { w.inner.UnregisterTask(taskID) }

func (w *LivenessWrapper) GetNextDelay(taskID uint64, maxValue int) (int, bool) {
	if w.inner.IsFair() && w.checker != nil {
		if err := w.checker.CheckTemperatures(); err != nil {
			w.violation = err
			return 0, false
		}
	}
	return w.inner.GetNextDelay(taskID, maxValue)
}
