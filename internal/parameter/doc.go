// SPDX-License-Identifier: MPL-2.0

// Package parameter implements the custom parameters a global command
// declares in its command-line definition.
//
// Every variant implements Parameter: given the argument list being
// assembled for a script, it appends the fragments that represent its
// effective value, or nothing when it has none. Variants also bind
// themselves to a pflag.FlagSet so cobra can populate their values.
package parameter
