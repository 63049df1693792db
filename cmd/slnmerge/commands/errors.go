package commands

import (
	"errors"
	"fmt"
)

// Process exit codes
const (
	ExitSuccess     = 0
	ExitFatal       = 1
	ExitWarnings    = 2
	ExitFixerErrors = 3
)

// ErrAborted is returned when the user declines a confirmation prompt.
var ErrAborted = errors.New("aborted by user")

// ExitError carries a non-zero exit code for results that were already
// reported to the console, such as merge warnings or fixer errors.
type ExitError struct {
	Code int
	Err  error
}

// NewExitError creates an ExitError
func NewExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by a command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFatal
}

// IsReported reports whether err was already written to the console by the
// command that returned it.
func IsReported(err error) bool {
	var exitErr *ExitError
	return errors.As(err, &exitErr)
}
