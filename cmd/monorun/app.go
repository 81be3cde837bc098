// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/monorun/monorun/internal/action"
	"github.com/monorun/monorun/internal/config"
	"github.com/monorun/monorun/internal/issue"
	"github.com/monorun/monorun/internal/runtime"
	"github.com/monorun/monorun/internal/workspace"
)

type (
	// ConfigProvider loads configuration using explicit options.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// RunnerFactory creates the runner global commands execute with.
	RunnerFactory func(typ runtime.RunnerType, opts runtime.RunnerOptions) (runtime.LifecycleRunner, error)

	// App wires CLI services and per-process state. It is the composition
	// root of the CLI layer: every cobra handler works through it.
	App struct {
		Config    ConfigProvider
		NewRunner RunnerFactory

		// Invocation holds the exit code a failing global command leaves
		// behind for the teardown in Run.
		Invocation *action.Invocation

		stdin      io.Reader
		stdout     io.Writer
		stderr     io.Writer
		workingDir string
		args       []string

		flags  rootFlags
		cfg    *config.Config
		logger *log.Logger

		workspace    *workspace.Workspace
		workspaceErr error
		commandLine  *workspace.CommandLine
		commandErr   error
	}

	// Dependencies defines the injection points for building an App. Nil
	// fields are replaced with production defaults by NewApp.
	Dependencies struct {
		Config     ConfigProvider
		NewRunner  RunnerFactory
		Stdin      io.Reader
		Stdout     io.Writer
		Stderr     io.Writer
		WorkingDir string
	}

	rootFlags struct {
		verbose      bool
		configPath   string
		workspaceDir string
		runtime      string
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.NewRunner == nil {
		deps.NewRunner = runtime.NewRunner
	}
	if deps.WorkingDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		deps.WorkingDir = wd
	}

	return &App{
		Config:     deps.Config,
		NewRunner:  deps.NewRunner,
		Invocation: &action.Invocation{Stdin: deps.Stdin, Stdout: deps.Stdout, Stderr: deps.Stderr},
		stdin:      deps.Stdin,
		stdout:     deps.Stdout,
		stderr:     deps.Stderr,
		workingDir: deps.WorkingDir,
		logger:     newLogger(deps.Stderr, false),
	}, nil
}

// Run builds the command tree for args, executes it and returns the process
// exit status.
func (a *App) Run(ctx context.Context, args []string) int {
	a.args = args
	root := a.newRootCommand(args)
	root.SetArgs(args)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := fang.Execute(
		ctx,
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(a.handleError),
	)
	return a.exitStatus(err)
}

// exitStatus maps the result of the command tree to a process status.
func (a *App) exitStatus(err error) int {
	if err == nil {
		return 0
	}
	if action.IsAlreadyReported(err) {
		return a.Invocation.ExitCode.ProcessStatus()
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code.ProcessStatus()
	}
	return 1
}

// handleError prints err unless it has been reported already.
func (a *App) handleError(w io.Writer, styles fang.Styles, err error) {
	if action.IsAlreadyReported(err) {
		return
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return
	}

	if isUnknownCommand(err) {
		a.reportUnknownCommand(w, err)
		return
	}

	var svcErr *ServiceError
	hasIssue := errors.As(err, &svcErr)
	if !hasIssue && !isActionable(err) {
		// Usage errors from cobra keep fang's styling.
		fang.DefaultErrorHandler(w, styles, err)
		return
	}

	fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+formatErrorForDisplay(err, a.flags.verbose))
	if hasIssue && a.flags.verbose {
		renderServiceError(w, svcErr, a.glamourStyle(), a.logger)
	}
}

// reportUnknownCommand explains a subcommand cobra could not find. Global
// commands are missing entirely when their definitions failed to load, so
// that failure is shown alongside.
func (a *App) reportUnknownCommand(w io.Writer, err error) {
	// Flags are not parsed when command lookup fails.
	verbose := a.flags.verbose || slices.Contains(a.args, "--verbose") || slices.Contains(a.args, "-v")

	fmt.Fprintln(w, ErrorStyle.Render("Error:")+" "+err.Error())
	if a.commandErr != nil {
		fmt.Fprintln(w, WarningStyle.Render("Global commands are unavailable: ")+formatErrorForDisplay(a.commandErr, verbose))
	}
	if verbose {
		renderServiceError(w, newServiceError(err, issue.CommandNotFoundId), a.glamourStyle(), a.logger)
	}
}

// isUnknownCommand matches cobra's error for an unknown subcommand, which
// has no sentinel.
func isUnknownCommand(err error) bool {
	return strings.HasPrefix(err.Error(), "unknown command ")
}

// discover locates the workspace and its global commands. Failures are
// remembered and surfaced by the commands that need a workspace.
func (a *App) discover(args []string) {
	dir := workspaceDirFromArgs(args)
	if dir == "" {
		dir = a.workingDir
	}

	ws, err := workspace.Discover(dir)
	if err != nil {
		if errors.Is(err, workspace.ErrNotFound) {
			a.workspaceErr = err
		} else {
			a.workspaceErr = newServiceError(err, issue.WorkspaceParseErrorId)
		}
		return
	}
	a.workspace = ws

	cl, err := ws.LoadCommandLine()
	if err != nil {
		a.commandErr = newServiceError(err, issue.CommandLineParseErrorId)
		return
	}
	a.commandLine = cl
}

// requireWorkspace returns the discovered workspace or the discovery error.
func (a *App) requireWorkspace() (*workspace.Workspace, error) {
	if a.workspaceErr != nil {
		return nil, a.workspaceErr
	}
	if a.workspace == nil {
		return nil, workspace.ErrNotFound
	}
	return a.workspace, nil
}

// loadConfig loads user configuration and applies it to the app. Called
// from the root PersistentPreRunE.
func (a *App) loadConfig(ctx context.Context) error {
	a.cfg = config.DefaultConfig()
	a.logger = newLogger(a.stderr, a.flags.verbose)

	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: a.flags.configPath})
	if err != nil {
		return newServiceError(err, issue.ConfigLoadFailedId)
	}
	a.cfg = cfg

	if !a.flags.verbose {
		a.flags.verbose = cfg.UI.Verbose
	}
	if a.flags.runtime != "" {
		mode := config.RuntimeMode(a.flags.runtime)
		if valid, errs := mode.IsValid(); !valid {
			return errs[0]
		}
		a.cfg.Runtime.Default = mode
	}

	switch cfg.UI.ColorScheme {
	case config.ColorSchemeDark:
		lipgloss.SetHasDarkBackground(true)
	case config.ColorSchemeLight:
		lipgloss.SetHasDarkBackground(false)
	}

	a.logger = newLogger(a.stderr, a.flags.verbose)
	return nil
}

// newRunner creates the runner selected by configuration and the output
// mode it should run in.
func (a *App) newRunner() (runtime.LifecycleRunner, runtime.OutputMode, error) {
	cfg := a.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	typ := runtime.RunnerType(cfg.Runtime.Default)
	runner, err := a.NewRunner(typ, runtime.RunnerOptions{
		Shell:     cfg.Runtime.Shell,
		ShellArgs: cfg.Runtime.ShellArgs,
	})
	if err != nil {
		return nil, "", err
	}

	mode := runtime.OutputInherit
	if cfg.UI.Interactive && typ != runtime.RunnerVirtual && isTerminal(a.stdout) {
		mode = runtime.OutputTerminal
	}
	return runner, mode, nil
}

func (a *App) glamourStyle() string {
	if a.cfg != nil {
		switch a.cfg.UI.ColorScheme {
		case config.ColorSchemeDark:
			return "dark"
		case config.ColorSchemeLight:
			return "light"
		}
	}
	if !isTerminal(a.stderr) {
		return "notty"
	}
	if lipgloss.HasDarkBackground() {
		return "dark"
	}
	return "light"
}

func newLogger(w io.Writer, verbose bool) *log.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(w, log.Options{
		Level:  level,
		Prefix: "monorun",
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// workspaceDirFromArgs finds a --workspace value before cobra has parsed
// anything, so that global commands can be registered for that workspace.
func workspaceDirFromArgs(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			return ""
		case arg == "--workspace" || arg == "-w":
			if i+1 < len(args) {
				return args[i+1]
			}
			return ""
		case strings.HasPrefix(arg, "--workspace="):
			return strings.TrimPrefix(arg, "--workspace=")
		case strings.HasPrefix(arg, "-w") && len(arg) > 2:
			return strings.TrimPrefix(strings.TrimPrefix(arg, "-w"), "=")
		}
	}
	return ""
}
