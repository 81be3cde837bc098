// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// RuntimeNative runs scripts in the host system shell.
	RuntimeNative RuntimeMode = "native"
	// RuntimeVirtual runs scripts in the embedded mvdan/sh interpreter.
	RuntimeVirtual RuntimeMode = "virtual"

	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidRuntimeMode is returned when a RuntimeMode value is not recognized.
	ErrInvalidRuntimeMode = errors.New("invalid runtime mode")
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidShell is returned when runtime.shell is set but blank.
	ErrInvalidShell = errors.New("invalid shell")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// RuntimeMode names the runner used for global commands.
	RuntimeMode string

	// InvalidRuntimeModeError is returned when a RuntimeMode value is not recognized.
	InvalidRuntimeModeError struct {
		Value RuntimeMode
	}

	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidConfigError collects field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the user configuration.
	Config struct {
		Runtime RuntimeConfig `json:"runtime" mapstructure:"runtime"`
		UI      UIConfig      `json:"ui" mapstructure:"ui"`
	}

	// RuntimeConfig selects and configures the script runner.
	RuntimeConfig struct {
		Default   RuntimeMode `json:"default" mapstructure:"default"`
		Shell     string      `json:"shell,omitempty" mapstructure:"shell"`
		ShellArgs []string    `json:"shell_args,omitempty" mapstructure:"shell_args"`
	}

	// UIConfig holds presentation settings.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		Verbose     bool        `json:"verbose" mapstructure:"verbose"`
		Interactive bool        `json:"interactive" mapstructure:"interactive"`
	}
)

func (e *InvalidRuntimeModeError) Error() string {
	return fmt.Sprintf("invalid runtime mode %q (valid: native, virtual)", e.Value)
}

func (e *InvalidRuntimeModeError) Unwrap() error { return ErrInvalidRuntimeMode }

func (m RuntimeMode) String() string { return string(m) }

// IsValid reports whether m names a known runner.
func (m RuntimeMode) IsValid() (bool, []error) {
	switch m {
	case RuntimeNative, RuntimeVirtual:
		return true, nil
	default:
		return false, []error{&InvalidRuntimeModeError{Value: m}}
	}
}

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

func (cs ColorScheme) String() string { return string(cs) }

// IsValid reports whether cs is auto, dark or light.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// IsValid checks the runner mode and rejects a whitespace-only shell.
func (c RuntimeConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Default.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if c.Shell != "" && strings.TrimSpace(c.Shell) == "" {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidShell, c.Shell))
	}
	return len(errs) == 0, errs
}

// IsValid collects every field error into a single InvalidConfigError.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.Runtime.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return "invalid config: " + strings.Join(msgs, "; ")
}

// Unwrap exposes ErrInvalidConfig and every field error, so callers can
// match either the general or the specific sentinel.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// DefaultConfig runs scripts natively with automatic colors and quiet,
// non-interactive output.
func DefaultConfig() *Config {
	return &Config{
		Runtime: RuntimeConfig{Default: RuntimeNative, ShellArgs: []string{}},
		UI:      UIConfig{ColorScheme: ColorSchemeAuto},
	}
}
