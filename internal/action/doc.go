// SPDX-License-Identifier: MPL-2.0

// Package action executes global commands: named scripts that run once for
// the whole workspace.
//
// A run checks that the workspace is linked, appends the user-supplied
// parameters to the script path, runs the result through a shell in the
// workspace root and converts the script's exit status into the CLI's
// convention. A failing script is reported here, with a single line on
// stderr, and signalled to the caller with AlreadyReportedError so that
// nothing further is printed.
package action
