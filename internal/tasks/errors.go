package tasks

import "errors"

var (
	// ErrValidation is returned for task input that cannot be accepted.
	ErrValidation = errors.New("invalid task")

	// ErrAlreadyCompleted is returned when completing a task that is done.
	ErrAlreadyCompleted = errors.New("task already completed")

	// ErrUnknownTask is returned for an index outside the registry.
	ErrUnknownTask = errors.New("unknown task")
)
