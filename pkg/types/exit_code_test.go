// SPDX-License-Identifier: MPL-2.0

package types

import (
	"errors"
	"testing"
)

func TestExitCodeValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		value     ExitCode
		wantValid bool
	}{
		{name: "zero is valid", value: 0, wantValid: true},
		{name: "one is valid", value: 1, wantValid: true},
		{name: "255 is valid", value: 255, wantValid: true},
		{name: "signaled is invalid", value: ExitSignaled, wantValid: false},
		{name: "256 is invalid", value: 256, wantValid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.value.Validate()
			if (err == nil) != tt.wantValid {
				t.Errorf("ExitCode(%d).Validate() error = %v, wantValid %v", tt.value, err, tt.wantValid)
			}
			if !tt.wantValid && !errors.Is(err, ErrInvalidExitCode) {
				t.Errorf("error does not wrap ErrInvalidExitCode: %v", err)
			}
		})
	}
}

func TestExitCodePredicates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code        ExitCode
		wantSuccess bool
		wantSignal  bool
	}{
		{0, true, false},
		{1, false, false},
		{2, false, false},
		{-1, false, true},
	}

	for _, tt := range tests {
		if got := tt.code.IsSuccess(); got != tt.wantSuccess {
			t.Errorf("ExitCode(%d).IsSuccess() = %v, want %v", tt.code, got, tt.wantSuccess)
		}
		if got := tt.code.IsSignaled(); got != tt.wantSignal {
			t.Errorf("ExitCode(%d).IsSignaled() = %v, want %v", tt.code, got, tt.wantSignal)
		}
	}
}

func TestExitCodeProcessStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		code ExitCode
		goos string
		want int
	}{
		{0, "linux", 1},
		{2, "linux", 2},
		{127, "linux", 127},
		{-1, "linux", 1},
		{300, "linux", 1},
		{300, "darwin", 1},
		{0, "windows", 1},
		{-1, "windows", 1},
		{3, "windows", 3},
		{300, "windows", 300},
	}

	for _, tt := range tests {
		if got := tt.code.processStatus(tt.goos); got != tt.want {
			t.Errorf("ExitCode(%d).processStatus(%q) = %d, want %d", tt.code, tt.goos, got, tt.want)
		}
	}
}

func TestExitCodeString(t *testing.T) {
	t.Parallel()

	if got := ExitCode(42).String(); got != "42" {
		t.Errorf("String() = %q, want %q", got, "42")
	}
}
