// SPDX-License-Identifier: MPL-2.0

// Package config handles user configuration using Viper with CUE as the file format.
//
// Configuration is loaded from <user config dir>/monorun/config.cue
// (~/.config/monorun/config.cue on Linux) or from the file given with --config.
// Values are validated against the embedded #Config schema before being
// merged over the defaults. MONORUN_<SECTION>_<KEY> environment variables
// override file values, e.g. MONORUN_UI_VERBOSE=true.
package config
