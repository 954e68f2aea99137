// Package errors provides standardized harness error types.
package errors

import (
	stderrors "errors"
	"fmt"
)

// HarnessError represents a failure surfaced to the command line.
type HarnessError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	ExitCode int    `json:"-"`
	Err      error  `json:"-"`
}

// Error implements the error interface.
func (e *HarnessError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped cause, if any.
func (e *HarnessError) Unwrap() error {
	return e.Err
}

// Is reports whether target carries the same code.
func (e *HarnessError) Is(target error) bool {
	t, ok := target.(*HarnessError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithMessage returns a copy of the error with a custom message.
func (e *HarnessError) WithMessage(message string) *HarnessError {
	return &HarnessError{
		Code:     e.Code,
		Message:  message,
		ExitCode: e.ExitCode,
		Err:      e.Err,
	}
}

// WithMessagef returns a copy of the error with a formatted message.
func (e *HarnessError) WithMessagef(format string, args ...any) *HarnessError {
	return e.WithMessage(fmt.Sprintf(format, args...))
}

// Wrap returns a copy of the error carrying err as its cause.
func (e *HarnessError) Wrap(err error) *HarnessError {
	return &HarnessError{
		Code:     e.Code,
		Message:  e.Message,
		ExitCode: e.ExitCode,
		Err:      err,
	}
}

// Standard error definitions
var (
	// ErrInvalidConfig is returned when the configuration fails to load or validate.
	ErrInvalidConfig = &HarnessError{
		Code:     "invalid_config",
		Message:  "Invalid configuration",
		ExitCode: 2,
	}

	// ErrUnknownNetwork is returned when a network name is not configured.
	ErrUnknownNetwork = &HarnessError{
		Code:     "unknown_network",
		Message:  "Network not configured",
		ExitCode: 2,
	}

	// ErrNotFound is returned when a deployment record does not exist.
	ErrNotFound = &HarnessError{
		Code:     "not_found",
		Message:  "Deployment not found",
		ExitCode: 1,
	}

	// ErrNoAccounts is returned when a named account cannot be resolved.
	ErrNoAccounts = &HarnessError{
		Code:     "no_accounts",
		Message:  "Named account cannot be resolved",
		ExitCode: 1,
	}

	// ErrTaskNotFound is returned when a task or dependency is not registered.
	ErrTaskNotFound = &HarnessError{
		Code:     "task_not_found",
		Message:  "Task not registered",
		ExitCode: 2,
	}

	// ErrDuplicateTask is returned when a task name is registered twice.
	ErrDuplicateTask = &HarnessError{
		Code:     "duplicate_task",
		Message:  "Task already registered",
		ExitCode: 2,
	}

	// ErrDependencyCycle is returned when task dependencies form a cycle.
	ErrDependencyCycle = &HarnessError{
		Code:     "dependency_cycle",
		Message:  "Task dependencies form a cycle",
		ExitCode: 2,
	}
)

// IsHarnessError checks if an error is, or wraps, a HarnessError.
func IsHarnessError(err error) bool {
	var herr *HarnessError
	return stderrors.As(err, &herr)
}

// ExitCode returns the process exit code for err.
// Errors that carry no HarnessError exit with 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var herr *HarnessError
	if stderrors.As(err, &herr) && herr.ExitCode != 0 {
		return herr.ExitCode
	}
	return 1
}
