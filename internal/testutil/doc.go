// SPDX-License-Identifier: MPL-2.0

// Package testutil provides test helpers: environment and working-directory
// overrides that restore themselves, and on-disk workspace fixtures.
package testutil
