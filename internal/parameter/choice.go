// SPDX-License-Identifier: MPL-2.0

package parameter

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
)

type (
	// Choice takes one value out of a fixed list of alternatives. When the
	// user gives no value the default (if any) is the effective value.
	Choice struct {
		base
		alternatives []Alternative
		defaultValue string
		value        string
	}

	choiceValue struct{ p *Choice }
)

func newChoice(b base, alternatives []Alternative, defaultValue string) *Choice {
	return &Choice{
		base:         b,
		alternatives: append([]Alternative(nil), alternatives...),
		defaultValue: defaultValue,
	}
}

// Define registers the parameter on fs.
func (p *Choice) Define(fs *pflag.FlagSet) {
	desc := fmt.Sprintf("%s (one of: %s)", p.description, strings.Join(p.AlternativeNames(), ", "))
	fs.VarP(choiceValue{p: p}, p.FlagName(), p.shorthand(), desc)
}

// AlternativeNames returns the allowed values in declaration order.
func (p *Choice) AlternativeNames() []string {
	names := make([]string, len(p.alternatives))
	for i, alt := range p.alternatives {
		names[i] = alt.Name
	}
	return names
}

// Alternatives returns the allowed values with their descriptions.
func (p *Choice) Alternatives() []Alternative {
	return append([]Alternative(nil), p.alternatives...)
}

// Value returns the effective value: the user's choice, else the default.
func (p *Choice) Value() string {
	if p.value != "" {
		return p.value
	}
	return p.defaultValue
}

// AppendToArgList appends "--name value" when there is an effective value.
func (p *Choice) AppendToArgList(args []string) []string {
	v := p.Value()
	if v == "" {
		return args
	}
	return append(args, p.longName, quoteValue(v))
}

func (v choiceValue) String() string { return v.p.defaultValue }

func (v choiceValue) Set(s string) error {
	for _, alt := range v.p.alternatives {
		if alt.Name == s {
			v.p.value = s
			return nil
		}
	}
	return fmt.Errorf("%q is not one of: %s", s, strings.Join(v.p.AlternativeNames(), ", "))
}

func (v choiceValue) Type() string { return "choice" }
