// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/monorun/monorun/pkg/types"
)

func TestVirtualRunner_ExitCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		command string
		want    types.ExitCode
	}{
		{command: "true", want: 0},
		{command: "exit 2", want: 2},
		{command: "false", want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			t.Parallel()

			result, err := NewVirtualRunner().Run(context.Background(), LifecycleOptions{
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

func TestVirtualRunner_Environment(t *testing.T) {
	t.Parallel()

	r := &VirtualRunner{Environ: func() []string { return []string{"GREETING=hi", "MONORUN_COMMAND=stale"} }}
	result, err := r.Run(context.Background(), LifecycleOptions{
		Command:          `echo "$GREETING $INIT_CWD ${MONORUN_COMMAND:-unset}"`,
		WorkingDirectory: t.TempDir(),
		InitCwd:          "/repo/common/temp",
		OutputMode:       OutputCapture,
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if got := strings.TrimSpace(result.Output); got != "hi /repo/common/temp unset" {
		t.Errorf("Output = %q", got)
	}
}

func TestVirtualRunner_SyntaxError(t *testing.T) {
	t.Parallel()

	_, err := NewVirtualRunner().Run(context.Background(), LifecycleOptions{Command: "echo 'unterminated"})
	if err == nil {
		t.Error("Run() should fail to parse an unterminated quote")
	}
}

func TestVirtualRunner_RejectsTerminalMode(t *testing.T) {
	t.Parallel()

	_, err := NewVirtualRunner().Run(context.Background(), LifecycleOptions{Command: "true", OutputMode: OutputTerminal})
	if !errors.Is(err, ErrUnsupportedOutputMode) {
		t.Errorf("Run() error = %v, want ErrUnsupportedOutputMode", err)
	}
}
