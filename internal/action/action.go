// SPDX-License-Identifier: MPL-2.0

package action

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/monorun/monorun/internal/issue"
	"github.com/monorun/monorun/internal/parameter"
	"github.com/monorun/monorun/internal/runtime"
	"github.com/monorun/monorun/internal/workspace"
	"github.com/monorun/monorun/pkg/types"
)

const (
	// EnvWorkspaceRoot is exported to scripts with the workspace root folder.
	EnvWorkspaceRoot = "MONORUN_WORKSPACE_ROOT"
	// EnvCommand is exported to scripts with the global command name.
	EnvCommand = "MONORUN_COMMAND"
)

var failureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444")).Bold(true)

type (
	// Workspace is the part of a workspace the executor reads.
	Workspace interface {
		RootFolder() string
		CommonTempFolder() string
		LinkMarkerPath() string
	}

	// Options configures NewGlobalScriptAction.
	Options struct {
		// Name is the global command name, exported as MONORUN_COMMAND.
		Name string
		// ScriptPath is the command template the parameters are appended to.
		ScriptPath string
		// Parameters are rendered in this order.
		Parameters []parameter.Parameter
		// EnvFiles are dotenv files, relative to the workspace root.
		EnvFiles []string

		Workspace Workspace
		Runner    runtime.LifecycleRunner
		// Logger defaults to a logger that discards everything.
		Logger *log.Logger
		// OutputMode defaults to runtime.OutputInherit.
		OutputMode runtime.OutputMode
	}

	// GlobalScriptAction runs one script for the whole workspace. It is built
	// once when the command is registered and executed at most once.
	GlobalScriptAction struct {
		name       string
		scriptPath string
		parameters []parameter.Parameter
		envFiles   []string

		workspace  Workspace
		runner     runtime.LifecycleRunner
		logger     *log.Logger
		outputMode runtime.OutputMode

		executed atomic.Bool
	}

	// Invocation carries per-process state between the dispatcher and the
	// action. ExitCode is what the process should exit with once the command
	// returns; it is only ever set by a failing script.
	Invocation struct {
		ExitCode types.ExitCode

		// Stdin, Stdout and Stderr default to the process streams.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}
)

// NewGlobalScriptAction validates opts and creates the action.
func NewGlobalScriptAction(opts Options) (*GlobalScriptAction, error) {
	switch {
	case opts.Name == "":
		return nil, errors.New("action name must not be empty")
	case strings.TrimSpace(opts.ScriptPath) == "":
		return nil, fmt.Errorf("action %q: script path must not be empty", opts.Name)
	case opts.Workspace == nil:
		return nil, fmt.Errorf("action %q: workspace is required", opts.Name)
	case opts.Runner == nil:
		return nil, fmt.Errorf("action %q: runner is required", opts.Name)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	mode := opts.OutputMode
	if mode == "" {
		mode = runtime.OutputInherit
	}

	return &GlobalScriptAction{
		name:       opts.Name,
		scriptPath: opts.ScriptPath,
		parameters: opts.Parameters,
		envFiles:   opts.EnvFiles,
		workspace:  opts.Workspace,
		runner:     opts.Runner,
		logger:     logger,
		outputMode: mode,
	}, nil
}

// Execute runs the script and waits for it.
//
// It returns nil when the script exits with 0. When the script exits with a
// non-zero status the failure is printed to inv.Stderr, inv.ExitCode is set
// and an *AlreadyReportedError is returned. Any other error means the script
// never ran (workspace not linked, shell missing) and has not been reported.
func (a *GlobalScriptAction) Execute(ctx context.Context, inv *Invocation) error {
	if !a.executed.CompareAndSwap(false, true) {
		return fmt.Errorf("%w: %s", ErrAlreadyExecuted, a.name)
	}

	markerPath := a.workspace.LinkMarkerPath()
	if _, err := os.Stat(markerPath); err != nil {
		return issue.NewErrorContext().
			WithOperation("run global command " + a.name).
			WithResource(markerPath).
			WithSuggestion(`Link the workspace first: run "monorun link"`).
			Wrap(fmt.Errorf("%w: %w", workspace.ErrNotLinked, err)).
			BuildError()
	}

	args := parameter.AppendAll(a.parameters)
	command := BuildShellCommand(a.scriptPath, args)
	root := a.workspace.RootFolder()

	a.logger.Debug("running global command",
		"name", a.name,
		"command", command,
		"cwd", root,
		"runner", a.runner.Name())

	result, err := a.runner.Run(ctx, runtime.LifecycleOptions{
		Command:          command,
		WorkingDirectory: root,
		InitCwd:          a.workspace.CommonTempFolder(),
		OutputMode:       a.outputMode,
		ExtraEnv: map[string]string{
			EnvWorkspaceRoot: root,
			EnvCommand:       a.name,
		},
		EnvFiles: a.envFiles,
		Stdin:    inv.Stdin,
		Stdout:   inv.Stdout,
		Stderr:   inv.Stderr,
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrScriptExecution, a.name, err)
	}

	if result.Success() {
		a.logger.Debug("global command finished", "name", a.name)
		return nil
	}

	inv.ExitCode = result.ExitCode
	a.report(inv.stderr(), result)
	return &AlreadyReportedError{}
}

// report writes the single diagnostic line for a failed run.
func (a *GlobalScriptAction) report(w io.Writer, result *runtime.LifecycleResult) {
	var msg string
	switch {
	case result.ExitCode.IsSignaled() && result.Signal != "":
		msg = fmt.Sprintf("The script was terminated by signal: %s", result.Signal)
	default:
		msg = fmt.Sprintf("The script failed with exit code %d", result.ExitCode)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, failureStyle.Render(msg))
}

// BuildShellCommand appends args to script, space-separated. With no args
// the script is returned unchanged.
func BuildShellCommand(script string, args []string) string {
	if len(args) == 0 {
		return script
	}
	return script + " " + strings.Join(args, " ")
}

func (inv *Invocation) stderr() io.Writer {
	if inv.Stderr == nil {
		return os.Stderr
	}
	return inv.Stderr
}
