// SPDX-License-Identifier: MPL-2.0

package parameter

import "github.com/spf13/pflag"

// Flag is a boolean switch. It renders as its long name when set.
type Flag struct {
	base
	value bool
}

// Define registers the flag on fs.
func (p *Flag) Define(fs *pflag.FlagSet) {
	fs.BoolVarP(&p.value, p.FlagName(), p.shorthand(), false, p.description)
}

// Value reports whether the flag was set.
func (p *Flag) Value() bool { return p.value }

// AppendToArgList appends "--name" when the flag is set.
func (p *Flag) AppendToArgList(args []string) []string {
	if !p.value {
		return args
	}
	return append(args, p.longName)
}
