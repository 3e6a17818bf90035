// Package wire defines the request/reply payloads and error taxonomy
// of the scheduler's external interface. Everything here is a plain
// Go value; no package under internal/wire knows about any
// particular transport encoding.
package wire

import (
	"errors"
	"fmt"
)

// Code is a wire error code.
type Code int

const (
	// Success indicates the call completed normally.
	Success Code = 0
	// Failure is an unclassified failure.
	Failure Code = 100
	// DeadlockDetected is raised by ScheduleNext when no operation is
	// enabled but uncompleted operations remain.
	DeadlockDetected Code = 101

	// DuplicateOperation is raised by CreateOperation on a live id.
	DuplicateOperation Code = 200
	// NotExistingOperation is raised by any op method on an unknown id.
	NotExistingOperation Code = 201
	// MainOperationExplicitlyCreated is raised on an explicit create
	// of the reserved main operation id.
	MainOperationExplicitlyCreated Code = 202
	// MainOperationExplicitlyStarted is raised on an explicit start of
	// the reserved main operation id.
	MainOperationExplicitlyStarted Code = 203
	// MainOperationExplicitlyCompleted names an explicit completion of
	// the reserved main operation id. The scheduler never returns it:
	// CompleteOperation on the main operation is how an iteration ends.
	MainOperationExplicitlyCompleted Code = 204
	// OperationNotStarted is raised by Wait/Complete before Start.
	OperationNotStarted Code = 205
	// OperationAlreadyStarted is raised by a second Start.
	OperationAlreadyStarted Code = 206
	// OperationAlreadyCompleted is raised by Start/Wait/Complete after
	// the operation has already completed.
	OperationAlreadyCompleted Code = 207

	// DuplicateResource names a CreateResource on a live id. The
	// scheduler never returns it: CreateResource on an existing id is a
	// no-op that reports Success.
	DuplicateResource Code = 300
	// NotExistingResource is raised by any resource method on an
	// unknown id.
	NotExistingResource Code = 301

	// ClientAttached is raised by Attach while already attached.
	ClientAttached Code = 400
	// ClientNotAttached is raised by any op while not attached.
	ClientNotAttached Code = 401

	// InternalError is raised on invariant violation.
	InternalError Code = 500
	// SchedulerDisabled is raised by any method after a fatal error,
	// until the next Detach.
	SchedulerDisabled Code = 501
)

func (c Code) String() string {
	switch c {
	case Success:
		return "Success"
	case Failure:
		return "Failure"
	case DeadlockDetected:
		return "DeadlockDetected"
	case DuplicateOperation:
		return "DuplicateOperation"
	case NotExistingOperation:
		return "NotExistingOperation"
	case MainOperationExplicitlyCreated:
		return "MainOperationExplicitlyCreated"
	case MainOperationExplicitlyStarted:
		return "MainOperationExplicitlyStarted"
	case MainOperationExplicitlyCompleted:
		return "MainOperationExplicitlyCompleted"
	case OperationNotStarted:
		return "OperationNotStarted"
	case OperationAlreadyStarted:
		return "OperationAlreadyStarted"
	case OperationAlreadyCompleted:
		return "OperationAlreadyCompleted"
	case DuplicateResource:
		return "DuplicateResource"
	case NotExistingResource:
		return "NotExistingResource"
	case ClientAttached:
		return "ClientAttached"
	case ClientNotAttached:
		return "ClientNotAttached"
	case InternalError:
		return "InternalError"
	case SchedulerDisabled:
		return "SchedulerDisabled"
	default:
		return fmt.Sprintf("Code(%d)", int(c))
	}
}

// Error is the error type returned by every scheduler method that can
// fail. It carries the wire code so internal/handler can pack a reply
// without re-classifying the error.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code.String()
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Errorf builds an *Error with a formatted message.
func Errorf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// CodeOf extracts the wire code from err. Unclassified errors map to
// Failure; nil maps to Success.
func CodeOf(err error) Code {
	if err == nil {
		return Success
	}
	var we *Error
	if errors.As(err, &we) {
		return we.Code
	}
	return Failure
}
