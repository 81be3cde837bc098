// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the monorun command line.
//
// Built-in subcommands (link, unlink, list, config) are static. Global
// commands are registered at startup from the workspace's command-line
// definition file, one cobra command per definition, with each custom
// parameter bound as a flag.
package cmd
