// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/monorun/monorun/internal/issue"
	"github.com/monorun/monorun/internal/parameter"
	"github.com/monorun/monorun/pkg/cueutil"
)

const (
	// CommandLineCUEFileName is the preferred command-line definition file.
	CommandLineCUEFileName = "command-line.cue"
	// CommandLineTOMLFileName is accepted when no CUE file exists.
	CommandLineTOMLFileName = "command-line.toml"
)

var (
	// ErrDuplicateCommand is returned when two commands share a name.
	ErrDuplicateCommand = errors.New("duplicate command name")
	// ErrReservedCommand is returned when a command shadows a built-in.
	ErrReservedCommand = errors.New("command name is reserved")
	// ErrDuplicateParameter is returned when a command declares the same
	// long or short name twice.
	ErrDuplicateParameter = errors.New("duplicate parameter name")
	// ErrReservedParameter is returned when a parameter takes the name of a
	// flag every command inherits.
	ErrReservedParameter = errors.New("parameter name is reserved")
	// ErrInvalidCommandName is returned for names that cannot be typed as a
	// single lowercase subcommand.
	ErrInvalidCommandName = errors.New("invalid command name")

	commandNamePattern = regexp.MustCompile(`^[a-z][a-z0-9-]*$`)

	//go:embed command_line_schema.cue
	commandLineSchema []byte

	reservedCommands = map[string]bool{
		"link":       true,
		"unlink":     true,
		"list":       true,
		"config":     true,
		"help":       true,
		"completion": true,
		"version":    true,
		"man":        true,
	}

	// reservedParameters are the root persistent flags and the help flag,
	// which cobra merges into every global command's flag set.
	reservedParameters = map[string]bool{
		"--help":      true,
		"-h":          true,
		"--verbose":   true,
		"-v":          true,
		"--config":    true,
		"--workspace": true,
		"-w":          true,
		"--runtime":   true,
	}
)

type (
	// CommandLine is the decoded command-line definition file.
	CommandLine struct {
		// Path is the file the definitions were read from. Empty when the
		// workspace declares no commands.
		Path     string              `json:"-" toml:"-"`
		Commands []CommandDefinition `json:"commands,omitempty" toml:"commands"`
	}

	// CommandDefinition declares one global command.
	CommandDefinition struct {
		Name        string                 `json:"name" toml:"name"`
		Summary     string                 `json:"summary" toml:"summary"`
		Description string                 `json:"description,omitempty" toml:"description"`
		ScriptPath  string                 `json:"script_path" toml:"script_path"`
		EnvFiles    []string               `json:"env_files,omitempty" toml:"env_files"`
		Parameters  []parameter.Definition `json:"parameters,omitempty" toml:"parameters"`
	}

	// CommandLineError reports a semantic problem in a command definition.
	CommandLineError struct {
		Command string
		Err     error
	}
)

// Error implements the error interface.
func (e *CommandLineError) Error() string {
	return fmt.Sprintf("command %q: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error.
func (e *CommandLineError) Unwrap() error { return e.Err }

// IsReservedCommand reports whether name belongs to a built-in subcommand.
func IsReservedCommand(name string) bool {
	return reservedCommands[name]
}

// IsReservedParameterName reports whether a long ("--name") or short ("-n")
// parameter name is taken by a flag every command inherits.
func IsReservedParameterName(name string) bool {
	return reservedParameters[name]
}

// CommandLinePath returns the command-line definition file in use, preferring
// CUE over TOML. It returns "" when neither exists.
func (w *Workspace) CommandLinePath() string {
	for _, name := range []string{CommandLineCUEFileName, CommandLineTOMLFileName} {
		candidate := filepath.Join(w.CommonConfigFolder(), name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
	}
	return ""
}

// LoadCommandLine reads the workspace's command-line definitions. A workspace
// without a definition file has no global commands.
func (w *Workspace) LoadCommandLine() (*CommandLine, error) {
	path := w.CommandLinePath()
	if path == "" {
		return &CommandLine{}, nil
	}
	return LoadCommandLineFile(path)
}

// LoadCommandLineFile reads and validates a .cue or .toml definition file.
func LoadCommandLineFile(path string) (*CommandLine, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load command-line definitions").
			WithResource(path).
			Wrap(err).
			BuildError()
	}

	var cl *CommandLine
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		cl, err = parseCommandLineTOML(data)
	} else {
		cl, err = parseCommandLineCUE(data, path)
	}
	if err == nil {
		err = cl.Validate()
	}
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load command-line definitions").
			WithResource(path).
			WithSuggestion("Command names must be lowercase words joined by hyphens").
			WithSuggestion(`Parameter long names look like "--name", short names like "-n"`).
			Wrap(err).
			BuildError()
	}

	cl.Path = path
	return cl, nil
}

// Find returns the command named name.
func (c *CommandLine) Find(name string) (CommandDefinition, bool) {
	for _, cmd := range c.Commands {
		if cmd.Name == name {
			return cmd, true
		}
	}
	return CommandDefinition{}, false
}

// Validate checks the rules the schema cannot express.
func (c *CommandLine) Validate() error {
	seen := make(map[string]bool, len(c.Commands))
	for _, cmd := range c.Commands {
		if seen[cmd.Name] {
			return &CommandLineError{Command: cmd.Name, Err: ErrDuplicateCommand}
		}
		seen[cmd.Name] = true

		if err := cmd.Validate(); err != nil {
			return &CommandLineError{Command: cmd.Name, Err: err}
		}
	}
	return nil
}

// Validate checks a single command definition.
func (d CommandDefinition) Validate() error {
	if !commandNamePattern.MatchString(d.Name) {
		return fmt.Errorf("%w: %q must be lowercase letters, digits and hyphens", ErrInvalidCommandName, d.Name)
	}
	if IsReservedCommand(d.Name) {
		return ErrReservedCommand
	}
	if strings.TrimSpace(d.ScriptPath) == "" {
		return errors.New("script_path must not be empty")
	}

	names := make(map[string]bool, 2*len(d.Parameters))
	for _, p := range d.Parameters {
		if err := p.Validate(); err != nil {
			return err
		}
		for _, n := range []string{p.LongName, p.ShortName} {
			if n == "" {
				continue
			}
			if IsReservedParameterName(n) {
				return fmt.Errorf("%w: %s", ErrReservedParameter, n)
			}
			if names[n] {
				return fmt.Errorf("%w: %s", ErrDuplicateParameter, n)
			}
			names[n] = true
		}
	}
	return nil
}

func parseCommandLineCUE(data []byte, filename string) (*CommandLine, error) {
	result, err := cueutil.ParseAndDecode[CommandLine](commandLineSchema, data, "#CommandLine",
		cueutil.WithFilename(filename))
	if err != nil {
		return nil, err
	}
	return result.Value, nil
}

func parseCommandLineTOML(data []byte) (*CommandLine, error) {
	if err := cueutil.CheckFileSize(data, cueutil.DefaultMaxFileSize, CommandLineTOMLFileName); err != nil {
		return nil, err
	}

	var cl CommandLine
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cl); err != nil {
		var serr *toml.StrictMissingError
		if errors.As(err, &serr) {
			return nil, fmt.Errorf("%s: unknown fields:\n%s", CommandLineTOMLFileName, serr.String())
		}
		var derr *toml.DecodeError
		if errors.As(err, &derr) {
			row, col := derr.Position()
			return nil, fmt.Errorf("%s:%d:%d: %s", CommandLineTOMLFileName, row, col, derr.Error())
		}
		return nil, fmt.Errorf("%s: %w", CommandLineTOMLFileName, err)
	}

	for i, cmd := range cl.Commands {
		if cmd.Summary == "" {
			return nil, fmt.Errorf("commands[%d]: summary is required", i)
		}
		for j, p := range cmd.Parameters {
			if p.Description == "" {
				return nil, fmt.Errorf("commands[%d].parameters[%d]: description is required", i, j)
			}
		}
	}
	return &cl, nil
}
