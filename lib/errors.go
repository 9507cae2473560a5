package lib

import "fmt"

// InvocationError means the scheduling utility could not be started at all, e.g. it is
// not installed or not executable.
type InvocationError struct {
	Utility string
	Err     error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("could not run '%s': %v", e.Utility, e.Err)
}

func (e *InvocationError) Unwrap() error {
	return e.Err
}

// PipeError means the command could not be handed to the utility's standard input.
type PipeError struct {
	Utility string
	Err     error
}

func (e *PipeError) Error() string {
	return fmt.Sprintf("'%s' failed to read the command from its input: %v", e.Utility, e.Err)
}

func (e *PipeError) Unwrap() error {
	return e.Err
}

// TimeError means the trigger time for a Task Scheduler entry could not be computed.
type TimeError struct {
	Err error
}

func (e *TimeError) Error() string {
	return fmt.Sprintf("could not compute trigger time: %v", e.Err)
}

func (e *TimeError) Unwrap() error {
	return e.Err
}
