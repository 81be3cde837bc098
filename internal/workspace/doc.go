// SPDX-License-Identifier: MPL-2.0

// Package workspace loads a monorun workspace: the monorun.cue file at the
// repository root and the global command definitions under
// common/config/command-line.cue (or command-line.toml).
//
// It also resolves the well-known paths the rest of monorun relies on: the
// root folder, the shared common/temp staging folder, and the link marker
// whose presence means "monorun link" has run.
package workspace
