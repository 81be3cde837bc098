// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// SetHomeDir points the user home directory at dir and returns a cleanup
// function restoring the previous value. On Windows it sets USERPROFILE,
// elsewhere HOME. XDG_CONFIG_HOME is cleared so that os.UserConfigDir
// resolves below dir.
//
//	t.Cleanup(testutil.SetHomeDir(t, t.TempDir()))
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()

	var restoreHome func()
	switch runtime.GOOS {
	case "windows":
		restoreHome = MustSetenv(t, "USERPROFILE", dir)
	default:
		restoreHome = MustSetenv(t, "HOME", dir)
	}
	restoreXDG := MustUnsetenv(t, "XDG_CONFIG_HOME")

	return func() {
		restoreXDG()
		restoreHome()
	}
}
