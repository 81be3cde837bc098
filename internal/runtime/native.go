// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"syscall"

	"github.com/monorun/monorun/pkg/types"
)

// NativeRunner executes commands through the system shell.
type NativeRunner struct {
	// Shell overrides the detected shell.
	Shell string
	// ShellArgs are passed to the shell before the command string.
	ShellArgs []string
	// Environ returns the host environment; os.Environ when nil.
	Environ func() []string
}

// NewNativeRunner creates a native runner using the detected shell.
func NewNativeRunner() *NativeRunner {
	return &NativeRunner{}
}

// Name returns the runner name.
func (r *NativeRunner) Name() string {
	return string(RunnerNative)
}

// Available returns whether a shell can be found.
func (r *NativeRunner) Available() bool {
	_, err := r.getShell()
	return err == nil
}

// Run executes opts.Command with the shell and waits for it.
func (r *NativeRunner) Run(ctx context.Context, opts LifecycleOptions) (*LifecycleResult, error) {
	if strings.TrimSpace(opts.Command) == "" {
		return nil, ErrEmptyCommand
	}
	opts = opts.withDefaults()

	shell, err := r.getShell()
	if err != nil {
		return nil, err
	}

	env, err := buildEnv(r.environ(), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to build environment: %w", err)
	}

	args := append(r.getShellArgs(shell), opts.Command)
	cmd := exec.CommandContext(ctx, shell, args...)
	cmd.Dir = opts.WorkingDirectory
	cmd.Env = envToSlice(env)

	result := &LifecycleResult{}
	var stdout, stderr bytes.Buffer

	switch opts.OutputMode {
	case OutputInherit:
		cmd.Stdin = opts.Stdin
		cmd.Stdout = opts.Stdout
		cmd.Stderr = opts.Stderr
		err = cmd.Run()
	case OutputCapture:
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
		err = cmd.Run()
		result.Output = stdout.String()
		result.ErrOutput = stderr.String()
	case OutputTerminal:
		err = runInTerminal(cmd, opts.Stdin, opts.Stdout, opts.Stderr)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedOutputMode, opts.OutputMode)
	}

	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			return nil, fmt.Errorf("failed to execute command: %w", err)
		}
		result.ExitCode = types.ExitCode(exitErr.ExitCode())
		if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
			result.ExitCode = types.ExitSignaled
			result.Signal = ws.Signal().String()
		}
	}

	return result, nil
}

func (r *NativeRunner) environ() []string {
	if r.Environ != nil {
		return r.Environ()
	}
	return os.Environ()
}

// getShell determines which shell interprets lifecycle commands. Unix uses
// a POSIX sh rather than $SHELL so scripts behave the same for every user.
func (r *NativeRunner) getShell() (string, error) {
	if r.Shell != "" {
		path, err := exec.LookPath(r.Shell)
		if err != nil {
			return "", fmt.Errorf("%w: %s: %w", ErrShellNotFound, r.Shell, err)
		}
		return path, nil
	}

	candidates := []string{"sh", "bash"}
	if goruntime.GOOS == "windows" {
		candidates = []string{"cmd", "pwsh", "powershell"}
	}
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w (tried %s)", ErrShellNotFound, strings.Join(candidates, ", "))
}

// getShellArgs returns the arguments placed before the command string.
func (r *NativeRunner) getShellArgs(shell string) []string {
	if len(r.ShellArgs) > 0 {
		return append([]string(nil), r.ShellArgs...)
	}

	base := filepath.Base(shell)
	// Windows paths are not split by filepath on other platforms.
	if i := strings.LastIndex(base, `\`); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(strings.ToLower(base), ".exe")
	switch base {
	case "cmd":
		return []string{"/d", "/s", "/c"}
	case "powershell", "pwsh":
		return []string{"-NoProfile", "-Command"}
	default:
		return []string{"-c"}
	}
}
