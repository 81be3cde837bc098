// SPDX-License-Identifier: MPL-2.0

package action

import "errors"

var (
	// ErrAlreadyExecuted is returned when Execute is called a second time on
	// the same action.
	ErrAlreadyExecuted = errors.New("action already executed")
	// ErrScriptExecution is wrapped around runner failures, i.e. cases where
	// the script could not be started at all.
	ErrScriptExecution = errors.New("script could not be executed")
)

// AlreadyReportedError tells the caller that the failure has been reported
// to the user and the process exit code has been recorded on the
// Invocation. It deliberately carries no message.
type AlreadyReportedError struct{}

// Error implements the error interface.
func (*AlreadyReportedError) Error() string { return "already reported" }

// IsAlreadyReported reports whether err is, or wraps, an AlreadyReportedError.
func IsAlreadyReported(err error) bool {
	var target *AlreadyReportedError
	return errors.As(err, &target)
}
