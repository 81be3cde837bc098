// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"os"
	"testing"

	"github.com/monorun/monorun/internal/action"
	"github.com/monorun/monorun/internal/issue"
	"github.com/monorun/monorun/internal/linker"
	"github.com/monorun/monorun/internal/runtime"
	"github.com/monorun/monorun/internal/workspace"
)

func TestWorkspaceDirFromArgs(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"deploy"}, ""},
		{[]string{"--workspace", "/ws", "deploy"}, "/ws"},
		{[]string{"--workspace=/ws", "deploy"}, "/ws"},
		{[]string{"-w", "/ws"}, "/ws"},
		{[]string{"-w/ws"}, "/ws"},
		{[]string{"-w=/ws"}, "/ws"},
		{[]string{"deploy", "--", "--workspace", "/ws"}, ""},
		{[]string{"--workspace"}, ""},
	}
	for _, tt := range tests {
		if got := workspaceDirFromArgs(tt.args); got != tt.want {
			t.Errorf("workspaceDirFromArgs(%q) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestClassifyError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want issue.Id
	}{
		{"not linked", fmt.Errorf("x: %w", workspace.ErrNotLinked), issue.WorkspaceNotLinkedId},
		{"no workspace", workspace.ErrNotFound, issue.WorkspaceNotFoundId},
		{"missing folder", &linker.ProjectFolderMissingError{Project: "a"}, issue.ProjectFolderMissingId},
		{"no shell", fmt.Errorf("%w: %w", action.ErrScriptExecution, runtime.ErrShellNotFound), issue.ShellNotFoundId},
		{"permission", fmt.Errorf("%w: %w", action.ErrScriptExecution, os.ErrPermission), issue.PermissionDeniedId},
		{"spawn", fmt.Errorf("%w: boom", action.ErrScriptExecution), issue.ScriptExecutionFailedId},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var svcErr *ServiceError
			if !errors.As(classifyError(tt.err), &svcErr) {
				t.Fatalf("classifyError(%v) is not a ServiceError", tt.err)
			}
			if svcErr.IssueID != tt.want {
				t.Errorf("IssueID = %d, want %d", svcErr.IssueID, tt.want)
			}
			if !errors.Is(svcErr, tt.err) {
				t.Error("ServiceError must wrap the original error")
			}
		})
	}

	reported := &action.AlreadyReportedError{}
	if got := classifyError(reported); got != error(reported) {
		t.Errorf("classifyError(AlreadyReportedError) = %v, want it unchanged", got)
	}
	plain := errors.New("plain")
	if got := classifyError(plain); got != plain {
		t.Errorf("classifyError(plain) = %v, want it unchanged", got)
	}
	if classifyError(nil) != nil {
		t.Error("classifyError(nil) should be nil")
	}
}

func TestExitStatus(t *testing.T) {
	t.Parallel()

	app := &App{Invocation: &action.Invocation{}}

	if got := app.exitStatus(nil); got != 0 {
		t.Errorf("exitStatus(nil) = %d, want 0", got)
	}
	if got := app.exitStatus(errors.New("boom")); got != 1 {
		t.Errorf("exitStatus(error) = %d, want 1", got)
	}
	if got := app.exitStatus(&ExitError{Code: 4}); got != 4 {
		t.Errorf("exitStatus(ExitError{4}) = %d, want 4", got)
	}

	app.Invocation.ExitCode = 7
	if got := app.exitStatus(&action.AlreadyReportedError{}); got != 7 {
		t.Errorf("exitStatus(AlreadyReported) = %d, want 7", got)
	}
	// A reported failure never exits 0, even if no code was recorded.
	app.Invocation.ExitCode = 0
	if got := app.exitStatus(&action.AlreadyReportedError{}); got != 1 {
		t.Errorf("exitStatus(AlreadyReported, code 0) = %d, want 1", got)
	}
}

func TestNewServiceError_NilPanics(t *testing.T) {
	t.Parallel()

	defer func() {
		if recover() == nil {
			t.Error("newServiceError(nil) should panic")
		}
	}()
	_ = newServiceError(nil, issue.ScriptExecutionFailedId)
}
