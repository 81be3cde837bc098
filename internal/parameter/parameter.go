// SPDX-License-Identifier: MPL-2.0

package parameter

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/spf13/pflag"
	"mvdan.cc/sh/v3/syntax"
)

const (
	// KindFlag is a boolean switch rendered as its long name.
	KindFlag Kind = "flag"
	// KindString takes a single free-form value.
	KindString Kind = "string"
	// KindInteger takes a single integer value.
	KindInteger Kind = "integer"
	// KindChoice takes one value out of a fixed set of alternatives.
	KindChoice Kind = "choice"
	// KindStringList may be repeated to pass several values.
	KindStringList Kind = "string_list"
)

var (
	// ErrInvalidKind is returned when a Definition names an unknown kind.
	ErrInvalidKind = errors.New("invalid parameter kind")
	// ErrInvalidDefinition is the sentinel wrapped by InvalidDefinitionError.
	ErrInvalidDefinition = errors.New("invalid parameter definition")
)

var (
	longNamePattern     = regexp.MustCompile(`^--[a-z0-9][a-z0-9-]*$`)
	shortNamePattern    = regexp.MustCompile(`^-[a-zA-Z]$`)
	argumentNamePattern = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
)

type (
	// Kind identifies a parameter variant.
	Kind string

	// Parameter is what the action executor depends on: each parameter knows
	// how to render itself into the script's argument list.
	Parameter interface {
		// LongName returns the option name including its leading dashes.
		LongName() string
		// AppendToArgList appends the fragments for the parameter's effective
		// value to args and returns the extended slice. Parameters without an
		// effective value return args unchanged.
		AppendToArgList(args []string) []string
	}

	// Bindable is a Parameter that cobra can populate from the command line.
	Bindable interface {
		Parameter
		// FlagName is the pflag name, i.e. LongName without leading dashes.
		FlagName() string
		// Required reports whether the user must provide a value.
		Required() bool
		// Define registers the parameter on fs.
		Define(fs *pflag.FlagSet)
	}

	// Alternative is one allowed value of a choice parameter.
	Alternative struct {
		Name        string `json:"name" toml:"name"`
		Description string `json:"description" toml:"description"`
	}

	// Definition is the declarative form of a parameter as written in the
	// command-line definition file.
	Definition struct {
		Kind         Kind          `json:"kind" toml:"kind"`
		LongName     string        `json:"long_name" toml:"long_name"`
		ShortName    string        `json:"short_name,omitempty" toml:"short_name"`
		Description  string        `json:"description" toml:"description"`
		Required     bool          `json:"required,omitempty" toml:"required"`
		ArgumentName string        `json:"argument_name,omitempty" toml:"argument_name"`
		Alternatives []Alternative `json:"alternatives,omitempty" toml:"alternatives"`
		DefaultValue string        `json:"default_value,omitempty" toml:"default_value"`
	}

	// InvalidDefinitionError reports why a Definition cannot be turned into
	// a parameter.
	InvalidDefinitionError struct {
		LongName string
		Reason   string
	}

	base struct {
		longName    string
		shortName   string
		description string
		required    bool
	}
)

// Error implements the error interface.
func (e *InvalidDefinitionError) Error() string {
	if e.LongName == "" {
		return fmt.Sprintf("invalid parameter definition: %s", e.Reason)
	}
	return fmt.Sprintf("invalid parameter %q: %s", e.LongName, e.Reason)
}

// Unwrap returns ErrInvalidDefinition for errors.Is() compatibility.
func (e *InvalidDefinitionError) Unwrap() error { return ErrInvalidDefinition }

// IsValid reports whether k is a known kind.
func (k Kind) IsValid() bool {
	switch k {
	case KindFlag, KindString, KindInteger, KindChoice, KindStringList:
		return true
	default:
		return false
	}
}

// New creates the parameter variant described by def.
func New(def Definition) (Bindable, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	b := base{
		longName:    def.LongName,
		shortName:   def.ShortName,
		description: def.Description,
		required:    def.Required,
	}

	switch def.Kind {
	case KindFlag:
		return &Flag{base: b}, nil
	case KindString:
		return &String{base: b, argumentName: def.ArgumentName}, nil
	case KindInteger:
		return &Integer{base: b, argumentName: def.ArgumentName}, nil
	case KindChoice:
		return newChoice(b, def.Alternatives, def.DefaultValue), nil
	case KindStringList:
		return &StringList{base: b, argumentName: def.ArgumentName}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, def.Kind)
	}
}

// Validate checks the structural rules of a definition that the schema
// cannot express.
func (d Definition) Validate() error {
	invalid := func(reason string) error {
		return &InvalidDefinitionError{LongName: d.LongName, Reason: reason}
	}

	if !d.Kind.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, d.Kind)
	}
	if !longNamePattern.MatchString(d.LongName) {
		return invalid(`long_name must look like "--name" (lowercase letters, digits and hyphens)`)
	}
	if d.ShortName != "" && !shortNamePattern.MatchString(d.ShortName) {
		return invalid(`short_name must look like "-x"`)
	}
	if d.ArgumentName != "" && !argumentNamePattern.MatchString(d.ArgumentName) {
		return invalid(`argument_name must be uppercase, e.g. "VERSION"`)
	}
	if d.Kind == KindFlag && d.Required {
		return invalid("a flag cannot be required")
	}

	if d.Kind != KindChoice {
		if len(d.Alternatives) > 0 {
			return invalid("only choice parameters take alternatives")
		}
		if d.DefaultValue != "" {
			return invalid("only choice parameters take a default_value")
		}
		return nil
	}

	if len(d.Alternatives) == 0 {
		return invalid("a choice parameter needs at least one alternative")
	}
	seen := make(map[string]bool, len(d.Alternatives))
	for _, alt := range d.Alternatives {
		if alt.Name == "" {
			return invalid("alternative names must not be empty")
		}
		if seen[alt.Name] {
			return invalid(fmt.Sprintf("duplicate alternative %q", alt.Name))
		}
		seen[alt.Name] = true
	}
	if d.DefaultValue != "" && !seen[d.DefaultValue] {
		return invalid(fmt.Sprintf("default_value %q is not one of the alternatives", d.DefaultValue))
	}
	if d.DefaultValue != "" && d.Required {
		return invalid("a required choice cannot have a default_value")
	}
	return nil
}

// AppendAll collects the fragments of every parameter in declaration order.
func AppendAll(params []Parameter) []string {
	var args []string
	for _, p := range params {
		args = p.AppendToArgList(args)
	}
	return args
}

func (b *base) LongName() string { return b.longName }

func (b *base) FlagName() string { return strings.TrimPrefix(b.longName, "--") }

func (b *base) Required() bool { return b.required }

func (b *base) shorthand() string { return strings.TrimPrefix(b.shortName, "-") }

// quoteValue quotes value for the shell that will interpret the assembled
// command line. Plain words are returned unchanged.
func quoteValue(value string) string {
	quoted, err := syntax.Quote(value, syntax.LangBash)
	if err != nil {
		return value
	}
	return quoted
}
