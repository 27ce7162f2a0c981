package wizard

import (
	"errors"
	"fmt"
)

var (
	ErrStepIncomplete     = errors.New("step incomplete")
	ErrMissingSelection   = errors.New("missing selection")
	ErrStepNotReached     = errors.New("step not reached yet")
	ErrStepOutOfRange     = errors.New("step index out of range")
	ErrAtFirstStep        = errors.New("already at first step")
	ErrTerminalStep       = errors.New("terminal step has no forward transition")
	ErrSubmissionInFlight = errors.New("submission already in flight")
	ErrCompleted          = errors.New("wizard already completed")
	ErrUnknownItem        = errors.New("unknown item")
	ErrNotDraft           = errors.New("only draft configurations can be resumed")
	ErrOrderPending       = errors.New("configuration saved, only the order can be retried")
	ErrSelectionStale     = errors.New("selection is no longer available")
	ErrPastSchedule       = errors.New("appointment time is in the past")
	ErrInvalidSchedule    = errors.New("invalid appointment date or time")
)

// StepIncompleteError is returned when advancing past a step whose predicate is false.
type StepIncompleteError struct {
	Step string
}

func (e *StepIncompleteError) Error() string {
	return fmt.Sprintf("step %q is incomplete", e.Step)
}

func (e *StepIncompleteError) Is(target error) bool { return target == ErrStepIncomplete }

// MissingSelectionError names the first required field that is not bound.
type MissingSelectionError struct {
	Field string
}

func (e *MissingSelectionError) Error() string {
	return fmt.Sprintf("missing selection: %s", e.Field)
}

func (e *MissingSelectionError) Is(target error) bool { return target == ErrMissingSelection }

// IsValidation reports errors raised locally before any network call.
func IsValidation(err error) bool {
	return errors.Is(err, ErrMissingSelection) ||
		errors.Is(err, ErrStepIncomplete) ||
		errors.Is(err, ErrStepNotReached) ||
		errors.Is(err, ErrStepOutOfRange) ||
		errors.Is(err, ErrAtFirstStep) ||
		errors.Is(err, ErrTerminalStep) ||
		errors.Is(err, ErrUnknownItem) ||
		errors.Is(err, ErrNotDraft) ||
		errors.Is(err, ErrPastSchedule) ||
		errors.Is(err, ErrInvalidSchedule)
}
