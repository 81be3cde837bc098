// SPDX-License-Identifier: MPL-2.0

package parameter

import (
	"fmt"
	"strconv"

	"github.com/spf13/pflag"
)

type (
	// String takes a single free-form value.
	String struct {
		base
		argumentName string
		value        string
	}

	// Integer takes a single integer value. Zero is a legitimate value, so
	// the parameter tracks whether it was given at all.
	Integer struct {
		base
		argumentName string
		value        int
		set          bool
	}

	// StringList may be repeated; each occurrence adds one value.
	StringList struct {
		base
		argumentName string
		values       []string
	}

	integerValue struct{ p *Integer }
)

// Define registers the parameter on fs.
func (p *String) Define(fs *pflag.FlagSet) {
	fs.StringVarP(&p.value, p.FlagName(), p.shorthand(), "", usage(p.description, p.argumentName))
}

// Value returns the current value ("" when absent).
func (p *String) Value() string { return p.value }

// AppendToArgList appends "--name value" when the value is non-empty.
func (p *String) AppendToArgList(args []string) []string {
	if p.value == "" {
		return args
	}
	return append(args, p.longName, quoteValue(p.value))
}

// Define registers the parameter on fs.
func (p *Integer) Define(fs *pflag.FlagSet) {
	fs.VarP(integerValue{p: p}, p.FlagName(), p.shorthand(), usage(p.description, p.argumentName))
}

// Value returns the value and whether it was provided.
func (p *Integer) Value() (int, bool) { return p.value, p.set }

// AppendToArgList appends "--name N" when a value was provided.
func (p *Integer) AppendToArgList(args []string) []string {
	if !p.set {
		return args
	}
	return append(args, p.longName, strconv.Itoa(p.value))
}

func (v integerValue) String() string {
	if !v.p.set {
		return ""
	}
	return strconv.Itoa(v.p.value)
}

func (v integerValue) Set(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fmt.Errorf("%q is not an integer", s)
	}
	v.p.value = n
	v.p.set = true
	return nil
}

func (v integerValue) Type() string { return "int" }

// Define registers the parameter on fs. Values are never split on commas.
func (p *StringList) Define(fs *pflag.FlagSet) {
	fs.StringArrayVarP(&p.values, p.FlagName(), p.shorthand(), nil, usage(p.description, p.argumentName))
}

// Values returns a copy of the collected values.
func (p *StringList) Values() []string {
	return append([]string(nil), p.values...)
}

// AppendToArgList appends "--name v" for every collected value, in order.
func (p *StringList) AppendToArgList(args []string) []string {
	for _, v := range p.values {
		args = append(args, p.longName, quoteValue(v))
	}
	return args
}

// usage adds the argument placeholder to the help text the way pflag
// recognizes it (a back-quoted word becomes the value name).
func usage(description, argumentName string) string {
	if argumentName == "" {
		return description
	}
	return fmt.Sprintf("%s (`%s`)", description, argumentName)
}
