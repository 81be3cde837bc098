// SPDX-License-Identifier: MPL-2.0

// Package runtime runs lifecycle commands: a complete shell command line,
// executed in a working directory with a prepared environment, whose exit
// code is reported back to the caller.
//
// Two runners are provided: NativeRunner hands the command to the system
// shell, VirtualRunner interprets it with the embedded mvdan/sh interpreter.
// Both honor the same OutputMode contract.
package runtime
