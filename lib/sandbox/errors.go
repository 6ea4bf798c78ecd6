package sandbox

import (
	"errors"
	"fmt"
)

var (
	ErrExecutionFailed    = errors.New("execution environment exited with failure")
	ErrExecutionTimedOut  = errors.New("execution environment timed out")
	ErrArtifactCopyFailed = errors.New("artifact copy failed")
)

// ExecutionError carries the exit code and captured stderr tail of a failed
// stage command. It unwraps to ErrExecutionFailed so callers can match the
// kind with errors.Is and still read the code with errors.As.
type ExecutionError struct {
	ExitCode int
	Stderr   string
}

func (e *ExecutionError) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("execution environment exited with code %d", e.ExitCode)
	}
	return fmt.Sprintf("execution environment exited with code %d: %s", e.ExitCode, e.Stderr)
}

func (e *ExecutionError) Unwrap() error {
	return ErrExecutionFailed
}
