// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/monorun/monorun/pkg/types"

	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// VirtualRunner interprets commands with the embedded mvdan/sh shell, so
// lifecycle commands behave the same on every platform.
type VirtualRunner struct {
	// Environ returns the host environment; os.Environ when nil.
	Environ func() []string
}

// NewVirtualRunner creates a virtual runner.
func NewVirtualRunner() *VirtualRunner {
	return &VirtualRunner{}
}

// Name returns the runner name.
func (r *VirtualRunner) Name() string {
	return string(RunnerVirtual)
}

// Run parses opts.Command and interprets it.
func (r *VirtualRunner) Run(ctx context.Context, opts LifecycleOptions) (*LifecycleResult, error) {
	if strings.TrimSpace(opts.Command) == "" {
		return nil, ErrEmptyCommand
	}
	opts = opts.withDefaults()
	if opts.OutputMode == OutputTerminal {
		return nil, fmt.Errorf("%w: %q with the virtual runner", ErrUnsupportedOutputMode, opts.OutputMode)
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(opts.Command), "command")
	if err != nil {
		return nil, fmt.Errorf("failed to parse command: %w", err)
	}

	environ := os.Environ()
	if r.Environ != nil {
		environ = r.Environ()
	}
	env, err := buildEnv(environ, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build environment: %w", err)
	}

	result := &LifecycleResult{}
	var stdout, stderr bytes.Buffer
	stdio := interp.StdIO(opts.Stdin, opts.Stdout, opts.Stderr)
	if opts.OutputMode == OutputCapture {
		stdio = interp.StdIO(nil, &stdout, &stderr)
	}

	runner, err := interp.New(
		interp.Dir(opts.WorkingDirectory),
		interp.Env(expand.ListEnviron(envToSlice(env)...)),
		stdio,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create interpreter: %w", err)
	}

	err = runner.Run(ctx, prog)
	result.Output = stdout.String()
	result.ErrOutput = stderr.String()
	if err != nil {
		var exitStatus interp.ExitStatus
		if !errors.As(err, &exitStatus) {
			return nil, fmt.Errorf("command execution failed: %w", err)
		}
		result.ExitCode = types.ExitCode(exitStatus)
	}

	return result, nil
}
