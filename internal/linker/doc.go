// SPDX-License-Identifier: MPL-2.0

// Package linker implements "monorun link" and "monorun unlink".
//
// Linking checks that every project declared in monorun.cue has a folder on
// disk and then records them in the link marker file. Global commands refuse
// to run until the marker exists.
package linker
