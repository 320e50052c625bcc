package errors

import (
	stdErrors "errors"
	"fmt"
)

// StageError represents an unrecoverable failure in one pipeline stage.
// Per-item failures (unresolved name, unparseable size) never produce one;
// a StageError means the whole run must stop.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err as a fatal error for the named stage.
func NewStageError(stage string, err error) *StageError {
	return &StageError{Stage: stage, Err: err}
}

// IsStageError reports whether err is a StageError (even when wrapped).
func IsStageError(err error) bool {
	var stageErr *StageError
	return stdErrors.As(err, &stageErr)
}
