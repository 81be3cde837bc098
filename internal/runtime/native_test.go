// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	goruntime "runtime"
	"strings"
	"testing"

	"github.com/monorun/monorun/pkg/types"
)

func skipUnlessPOSIX(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping subprocess test in short mode")
	}
	if goruntime.GOOS == "windows" {
		t.Skip("skipping: test uses POSIX shell syntax")
	}
}

func TestNativeRunner_ExitCodes(t *testing.T) {
	skipUnlessPOSIX(t)
	t.Parallel()

	tests := []struct {
		command string
		want    types.ExitCode
	}{
		{command: "true", want: 0},
		{command: "exit 2", want: 2},
		{command: "exit 127", want: 127},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			result, err := NewNativeRunner().Run(context.Background(), LifecycleOptions{
				Command:          tt.command,
				WorkingDirectory: t.TempDir(),
				OutputMode:       OutputCapture,
			})
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if result.ExitCode != tt.want {
				t.Errorf("ExitCode = %d, want %d", result.ExitCode, tt.want)
			}
		})
	}
}

func TestNativeRunner_KilledBySignal(t *testing.T) {
	skipUnlessPOSIX(t)
	t.Parallel()

	result, err := NewNativeRunner().Run(context.Background(), LifecycleOptions{
		Command:    "kill -9 $$",
		OutputMode: OutputCapture,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.ExitCode.IsSignaled() {
		t.Errorf("ExitCode = %d, want a signaled code", result.ExitCode)
	}
	if result.Signal == "" {
		t.Error("Signal should name the terminating signal")
	}
}

func TestNativeRunner_WorkingDirectoryAndInitCwd(t *testing.T) {
	skipUnlessPOSIX(t)
	t.Parallel()

	workDir := t.TempDir()
	initCwd := filepath.Join(workDir, "common", "temp")

	result, err := NewNativeRunner().Run(context.Background(), LifecycleOptions{
		Command:          `pwd; echo "$INIT_CWD"`,
		WorkingDirectory: workDir,
		InitCwd:          initCwd,
		OutputMode:       OutputCapture,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(result.Output), "\n")
	if len(lines) != 2 {
		t.Fatalf("Output = %q, want two lines", result.Output)
	}
	wantDir, _ := filepath.EvalSymlinks(workDir)
	gotDir, _ := filepath.EvalSymlinks(lines[0])
	if gotDir != wantDir {
		t.Errorf("pwd = %q, want %q", lines[0], workDir)
	}
	if lines[1] != initCwd {
		t.Errorf("INIT_CWD = %q, want %q", lines[1], initCwd)
	}
}

func TestNativeRunner_InheritStreamsToWriters(t *testing.T) {
	skipUnlessPOSIX(t)
	t.Parallel()

	var stdout, stderr bytes.Buffer
	result, err := NewNativeRunner().Run(context.Background(), LifecycleOptions{
		Command:    "echo out; echo err >&2",
		OutputMode: OutputInherit,
		Stdin:      strings.NewReader(""),
		Stdout:     &stdout,
		Stderr:     &stderr,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Output != "" {
		t.Errorf("inherit mode should not capture, got %q", result.Output)
	}
	if strings.TrimSpace(stdout.String()) != "out" || strings.TrimSpace(stderr.String()) != "err" {
		t.Errorf("stdout = %q, stderr = %q", stdout.String(), stderr.String())
	}
}

func TestNativeRunner_TerminalKeepsStderrSeparate(t *testing.T) {
	skipUnlessPOSIX(t)
	t.Parallel()

	var stdout, stderr bytes.Buffer
	result, err := NewNativeRunner().Run(context.Background(), LifecycleOptions{
		Command:    "echo out; echo to-stderr >&2",
		OutputMode: OutputTerminal,
		Stdin:      strings.NewReader(""),
		Stdout:     &stdout,
		Stderr:     &stderr,
	})
	if err != nil {
		t.Skipf("pseudo-terminal unavailable: %v", err)
	}
	if !result.Success() {
		t.Fatalf("ExitCode = %d, want 0", result.ExitCode)
	}
	if strings.Contains(stdout.String(), "to-stderr") {
		t.Errorf("stderr leaked into stdout: %q", stdout.String())
	}
	if !strings.Contains(stdout.String(), "out") {
		t.Errorf("stdout = %q, want the terminal output", stdout.String())
	}
	if strings.TrimSpace(stderr.String()) != "to-stderr" {
		t.Errorf("stderr = %q, want %q", stderr.String(), "to-stderr")
	}
}

func TestNativeRunner_ArgumentsReachScript(t *testing.T) {
	skipUnlessPOSIX(t)
	t.Parallel()

	dir := t.TempDir()
	script := filepath.Join(dir, "build.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nprintf '%s|' \"$@\"\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	result, err := NewNativeRunner().Run(context.Background(), LifecycleOptions{
		Command:          "./build.sh --verbose --message 'hello world'",
		WorkingDirectory: dir,
		OutputMode:       OutputCapture,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if result.Output != "--verbose|--message|hello world|" {
		t.Errorf("Output = %q", result.Output)
	}
}

func TestNativeRunner_ShellNotFound(t *testing.T) {
	t.Parallel()

	r := &NativeRunner{Shell: "definitely-not-a-shell-monorun"}
	_, err := r.Run(context.Background(), LifecycleOptions{Command: "true"})
	if !errors.Is(err, ErrShellNotFound) {
		t.Errorf("Run() error = %v, want ErrShellNotFound", err)
	}
	if r.Available() {
		t.Error("Available() = true for a missing shell")
	}
}

func TestNativeRunner_GetShellArgs(t *testing.T) {
	t.Parallel()

	r := NewNativeRunner()
	tests := map[string]string{
		"/bin/sh":                     "-c",
		"/usr/bin/bash":               "-c",
		`C:\Windows\System32\cmd.exe`: "/c",
		"pwsh":                        "-Command",
	}
	for shell, wantLast := range tests {
		args := r.getShellArgs(shell)
		if got := args[len(args)-1]; got != wantLast {
			t.Errorf("getShellArgs(%q) = %q, want last %q", shell, args, wantLast)
		}
	}

	custom := &NativeRunner{ShellArgs: []string{"-e", "-c"}}
	if got := custom.getShellArgs("/bin/sh"); len(got) != 2 || got[0] != "-e" {
		t.Errorf("custom ShellArgs ignored: %q", got)
	}
}
