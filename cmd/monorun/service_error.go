// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"

	"github.com/monorun/monorun/internal/action"
	"github.com/monorun/monorun/internal/issue"
	"github.com/monorun/monorun/internal/linker"
	"github.com/monorun/monorun/internal/runtime"
	"github.com/monorun/monorun/internal/workspace"
)

// ServiceError is an error that carries an issue catalog entry for the CLI
// layer to render in verbose mode. Always create via newServiceError.
type ServiceError struct {
	// Err is the underlying error (must not be nil).
	Err error
	// IssueID is the optional issue catalog ID for rendering help text.
	IssueID issue.Id
}

// newServiceError creates a ServiceError with a nil-Err panic guard.
func newServiceError(err error, issueID issue.Id) *ServiceError {
	if err == nil {
		panic("ServiceError: Err must not be nil")
	}
	return &ServiceError{Err: err, IssueID: issueID}
}

// Error implements the error interface.
func (e *ServiceError) Error() string { return e.Err.Error() }

// Unwrap returns the underlying error for errors.Is/As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// classifyError attaches the matching issue catalog entry to err. Errors
// that were already reported, and errors with no matching entry, are
// returned unchanged.
func classifyError(err error) error {
	if err == nil || action.IsAlreadyReported(err) {
		return err
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}

	var id issue.Id
	switch {
	case errors.Is(err, workspace.ErrNotLinked):
		id = issue.WorkspaceNotLinkedId
	case errors.Is(err, workspace.ErrNotFound):
		id = issue.WorkspaceNotFoundId
	case errors.Is(err, linker.ErrProjectFolderMissing):
		id = issue.ProjectFolderMissingId
	case errors.Is(err, runtime.ErrShellNotFound):
		id = issue.ShellNotFoundId
	case errors.Is(err, os.ErrPermission):
		id = issue.PermissionDeniedId
	case errors.Is(err, action.ErrScriptExecution):
		id = issue.ScriptExecutionFailedId
	default:
		return err
	}
	return newServiceError(err, id)
}

// renderServiceError prints the issue help section of svcErr.
func renderServiceError(w io.Writer, svcErr *ServiceError, style string, logger *log.Logger) {
	if svcErr == nil || svcErr.IssueID == 0 {
		return
	}

	catalogEntry := issue.Get(svcErr.IssueID)
	if catalogEntry == nil {
		return
	}
	rendered, err := catalogEntry.Render(style)
	if err != nil {
		logger.Warn("failed to render issue catalog entry", "issueID", svcErr.IssueID, "error", err)
		return
	}
	fmt.Fprint(w, rendered)
}
