// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/spf13/viper"

	"github.com/monorun/monorun/internal/issue"
	"github.com/monorun/monorun/pkg/cueutil"
)

const (
	// AppName is the application name.
	AppName = "monorun"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides (MONORUN_UI_VERBOSE).
	EnvPrefix = "MONORUN"
)

//go:embed config_schema.cue
var configSchema string

// ConfigDir returns the monorun configuration directory below the platform's
// user config directory: $XDG_CONFIG_HOME or ~/.config on Linux,
// ~/Library/Application Support on macOS, %AppData% on Windows.
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// ConfigFilePath returns the default config file location, honoring an
// explicit directory override.
func ConfigFilePath(configDirPath string) (string, error) {
	cfgDir, err := configDirWithOverride(configDirPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(cfgDir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions layers defaults, the CUE file and MONORUN_* environment
// variables, in that order of precedence.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	if err := ctx.Err(); err != nil {
		return nil, "", fmt.Errorf("load config canceled: %w", err)
	}

	v := newViper()

	path, err := resolveConfigPath(opts)
	if err != nil {
		return nil, "", err
	}
	if path != "" {
		if mergeErr := mergeCUEFile(v, path); mergeErr != nil {
			return nil, "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(path).
				WithSuggestion("Check that the file contains valid CUE syntax").
				WithSuggestion("Compare it with the output of 'monorun config show'").
				Wrap(mergeErr).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", fmt.Errorf("failed to decode config: %w", err)
	}

	// Environment values never went through the schema.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithSuggestion("Check " + EnvPrefix + "_* environment variables for typos").
			Wrap(errs[0]).
			BuildError()
	}

	return &cfg, path, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	d := DefaultConfig()
	for key, value := range map[string]any{
		"runtime.default":    d.Runtime.Default,
		"runtime.shell":      d.Runtime.Shell,
		"runtime.shell_args": d.Runtime.ShellArgs,
		"ui.color_scheme":    d.UI.ColorScheme,
		"ui.verbose":         d.UI.Verbose,
		"ui.interactive":     d.UI.Interactive,
	} {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// resolveConfigPath returns the file to read, or "" when only defaults
// apply. An explicit path that does not exist is an error.
func resolveConfigPath(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !isRegularFile(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the --config path").
				WithSuggestion("Run 'monorun config init --config <path>' to create it").
				Wrap(fmt.Errorf("config file not found: %s", opts.ConfigFilePath)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	path, err := ConfigFilePath(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	if !isRegularFile(path) {
		return "", nil
	}
	return path, nil
}

func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// mergeCUEFile validates path against #Config and merges it into v.
// Every field is optional, so validation is not concrete and the result is
// decoded to a map rather than through cueutil.ParseAndDecode.
func mergeCUEFile(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, path); err != nil {
		return err
	}

	cctx := cuecontext.New()
	schema := cctx.CompileString(configSchema).LookupPath(cue.ParsePath("#Config"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	value := cctx.CompileBytes(data, cue.Filename(path))
	if err := value.Err(); err != nil {
		return cueutil.FormatError(err, path)
	}

	unified := schema.Unify(value)
	if err := unified.Validate(cue.Concrete(false)); err != nil {
		return cueutil.FormatError(err, path)
	}

	var settings map[string]any
	if err := unified.Decode(&settings); err != nil {
		return cueutil.FormatError(err, path)
	}
	return v.MergeConfigMap(settings)
}

func isRegularFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// CreateDefaultConfig writes the default config to the config directory
// unless a file is already there. It returns the file path and whether it
// was created.
func CreateDefaultConfig(configDirPath string) (string, bool, error) {
	cfgPath, err := ConfigFilePath(configDirPath)
	if err != nil {
		return "", false, err
	}

	if isRegularFile(cfgPath) {
		return cfgPath, false, nil
	}

	if err := Save(cfgPath, DefaultConfig()); err != nil {
		return "", false, err
	}
	return cfgPath, true, nil
}

// Save writes cfg to path in CUE format.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// monorun configuration file\n\n")

	sb.WriteString("runtime: {\n")
	fmt.Fprintf(&sb, "\tdefault: %q\n", cfg.Runtime.Default)
	if cfg.Runtime.Shell != "" {
		fmt.Fprintf(&sb, "\tshell: %q\n", cfg.Runtime.Shell)
	}
	if len(cfg.Runtime.ShellArgs) > 0 {
		quoted := make([]string, 0, len(cfg.Runtime.ShellArgs))
		for _, arg := range cfg.Runtime.ShellArgs {
			quoted = append(quoted, fmt.Sprintf("%q", arg))
		}
		fmt.Fprintf(&sb, "\tshell_args: [%s]\n", strings.Join(quoted, ", "))
	}
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	fmt.Fprintf(&sb, "\tcolor_scheme: %q\n", cfg.UI.ColorScheme)
	fmt.Fprintf(&sb, "\tverbose: %v\n", cfg.UI.Verbose)
	fmt.Fprintf(&sb, "\tinteractive: %v\n", cfg.UI.Interactive)
	sb.WriteString("}\n")

	return sb.String()
}
