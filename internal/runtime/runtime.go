// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/monorun/monorun/pkg/types"
)

const (
	// OutputInherit streams the child's stdout/stderr straight to the
	// configured writers, in the order the child produces them.
	OutputInherit OutputMode = "inherit"
	// OutputCapture buffers stdout and stderr into the result.
	OutputCapture OutputMode = "capture"
	// OutputTerminal attaches the child to a pseudo-terminal and copies
	// its output to Stdout. Only the native runner supports it.
	OutputTerminal OutputMode = "terminal"

	// RunnerNative selects NativeRunner.
	RunnerNative RunnerType = "native"
	// RunnerVirtual selects VirtualRunner.
	RunnerVirtual RunnerType = "virtual"
)

var (
	// ErrShellNotFound is returned when no shell can interpret the command.
	ErrShellNotFound = errors.New("no shell found")
	// ErrEmptyCommand is returned when LifecycleOptions.Command is blank.
	ErrEmptyCommand = errors.New("empty command")
	// ErrUnsupportedOutputMode is returned when a runner cannot honor the
	// requested OutputMode.
	ErrUnsupportedOutputMode = errors.New("unsupported output mode")
	// ErrUnknownRunner is returned by NewRunner for an unknown RunnerType.
	ErrUnknownRunner = errors.New("unknown runner")
)

type (
	// OutputMode controls what happens to the child's output.
	OutputMode string

	// RunnerType names a LifecycleRunner implementation.
	RunnerType string

	// LifecycleOptions describes one command run. It is built per run and
	// discarded afterwards.
	LifecycleOptions struct {
		// Command is the full shell command line.
		Command string
		// WorkingDirectory is the child's working directory.
		WorkingDirectory string
		// InitCwd is exported to the child as INIT_CWD so nested tooling can
		// find it independent of the shell's actual working directory.
		InitCwd string
		// OutputMode selects streaming, capturing or a pseudo-terminal.
		OutputMode OutputMode
		// ExtraEnv is layered over the host environment.
		ExtraEnv map[string]string
		// EnvFiles are dotenv files loaded after ExtraEnv. A trailing "?"
		// marks a file as optional. Relative paths resolve against
		// WorkingDirectory.
		EnvFiles []string

		// Stdin, Stdout and Stderr default to the process streams.
		Stdin  io.Reader
		Stdout io.Writer
		Stderr io.Writer
	}

	// LifecycleResult is the outcome of a run that got as far as starting
	// the child.
	LifecycleResult struct {
		// ExitCode is 0 on success, the child's status on a normal failing
		// exit, and types.ExitSignaled when the child was killed.
		ExitCode types.ExitCode
		// Signal names the terminating signal when known.
		Signal string
		// Output and ErrOutput hold captured output in OutputCapture mode.
		Output    string
		ErrOutput string
	}

	// LifecycleRunner executes a command and waits for it to finish.
	// A non-nil error means the child could not be run at all; a child that
	// ran and failed is reported through LifecycleResult.ExitCode.
	LifecycleRunner interface {
		Name() string
		Run(ctx context.Context, opts LifecycleOptions) (*LifecycleResult, error)
	}

	// RunnerOptions configures NewRunner.
	RunnerOptions struct {
		// Shell and ShellArgs override shell detection for the native runner.
		Shell     string
		ShellArgs []string
		// Environ returns the host environment; os.Environ when nil.
		Environ func() []string
	}
)

// NewRunner creates the runner named by typ. The zero value selects the
// native runner.
func NewRunner(typ RunnerType, opts RunnerOptions) (LifecycleRunner, error) {
	switch typ {
	case RunnerNative, "":
		return &NativeRunner{Shell: opts.Shell, ShellArgs: opts.ShellArgs, Environ: opts.Environ}, nil
	case RunnerVirtual:
		return &VirtualRunner{Environ: opts.Environ}, nil
	default:
		return nil, fmt.Errorf("%w: %q (valid: native, virtual)", ErrUnknownRunner, typ)
	}
}

// Success returns true if the command exited with status 0.
func (r *LifecycleResult) Success() bool {
	return r.ExitCode.IsSuccess()
}

// withDefaults fills in the process streams and the output mode.
func (o LifecycleOptions) withDefaults() LifecycleOptions {
	if o.OutputMode == "" {
		o.OutputMode = OutputInherit
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	return o
}
