// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"fmt"
	"runtime"
	"strconv"
)

const (
	// ExitSuccess is the exit code of a process that completed normally.
	ExitSuccess ExitCode = 0
	// ExitFailure is the generic failure status used when no better code is known.
	ExitFailure ExitCode = 1
	// ExitSignaled is reported by os/exec when the child was terminated by a signal.
	ExitSignaled ExitCode = -1
)

// ErrInvalidExitCode is the sentinel error wrapped by InvalidExitCodeError.
var ErrInvalidExitCode = errors.New("invalid exit code")

type (
	// ExitCode represents a child process exit status.
	// Normal exits are in the range 0-255 on POSIX systems; negative values
	// mean the process did not exit on its own (e.g. it was killed by a signal).
	// The zero value (0) means success.
	ExitCode int

	// InvalidExitCodeError is returned when an ExitCode cannot be used as the
	// status of the monorun process itself.
	InvalidExitCodeError struct {
		Value ExitCode
	}
)

// Error implements the error interface.
func (e *InvalidExitCodeError) Error() string {
	return fmt.Sprintf("invalid exit code %d (must be in range 0-255)", e.Value)
}

// Unwrap returns ErrInvalidExitCode so callers can use errors.Is for programmatic detection.
func (e *InvalidExitCodeError) Unwrap() error { return ErrInvalidExitCode }

// Validate returns an error if the ExitCode is outside the valid range (0-255).
func (c ExitCode) Validate() error {
	if c < 0 || c > 255 {
		return &InvalidExitCodeError{Value: c}
	}
	return nil
}

// IsSuccess returns true if the exit code indicates successful execution.
func (c ExitCode) IsSuccess() bool { return c == ExitSuccess }

// IsSignaled returns true if the code does not come from a normal exit.
func (c ExitCode) IsSignaled() bool { return c < 0 }

// ProcessStatus returns the status the monorun process should terminate with
// after a failed run. Codes that cannot be passed to os.Exit map to ExitFailure.
// Windows exit codes are 32-bit, so values above 255 are kept there.
func (c ExitCode) ProcessStatus() int { return c.processStatus(runtime.GOOS) }

func (c ExitCode) processStatus(goos string) int {
	switch {
	case c.IsSuccess(), c.IsSignaled():
		return int(ExitFailure)
	case goos == "windows":
		return int(c)
	case c.Validate() != nil:
		return int(ExitFailure)
	default:
		return int(c)
	}
}

// String returns the decimal string representation of the ExitCode.
func (c ExitCode) String() string { return strconv.Itoa(int(c)) }
