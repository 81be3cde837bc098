// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestBuildEnv_Precedence(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "deploy.env"), []byte("REGION=eu\nSHARED=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	environ := []string{
		"PATH=/usr/bin",
		"SHARED=from-host",
		"MONORUN_COMMAND=stale",
		"INIT_CWD=/somewhere/else",
		"malformed",
	}
	opts := LifecycleOptions{
		WorkingDirectory: dir,
		InitCwd:          "/repo/common/temp",
		ExtraEnv:         map[string]string{"MONORUN_COMMAND": "deploy", "SHARED": "from-extra"},
		EnvFiles:         []string{"deploy.env", "missing.env?"},
	}

	env, err := buildEnv(environ, opts)
	if err != nil {
		t.Fatalf("buildEnv() error = %v", err)
	}

	want := map[string]string{
		"PATH":            "/usr/bin",
		"SHARED":          "from-file",
		"REGION":          "eu",
		"MONORUN_COMMAND": "deploy",
		"INIT_CWD":        "/repo/common/temp",
	}
	for k, v := range want {
		if env[k] != v {
			t.Errorf("env[%s] = %q, want %q", k, env[k], v)
		}
	}
	if _, ok := env["malformed"]; ok {
		t.Error("malformed entries should be dropped")
	}
}

func TestBuildEnv_DropsStaleMonorunVars(t *testing.T) {
	t.Parallel()

	env, err := buildEnv([]string{"MONORUN_WORKSPACE_ROOT=/old", "HOME=/home/u"}, LifecycleOptions{})
	if err != nil {
		t.Fatalf("buildEnv() error = %v", err)
	}
	if _, ok := env["MONORUN_WORKSPACE_ROOT"]; ok {
		t.Error("inherited MONORUN_* variables should be filtered")
	}
	if _, ok := env[EnvInitCwd]; ok {
		t.Error("INIT_CWD should not be set without an InitCwd hint")
	}
}

func TestBuildEnv_MissingRequiredEnvFile(t *testing.T) {
	t.Parallel()

	_, err := buildEnv(nil, LifecycleOptions{WorkingDirectory: t.TempDir(), EnvFiles: []string{"nope.env"}})
	if err == nil {
		t.Error("buildEnv() should fail for a missing required env file")
	}
}

func TestEnvToSlice_Sorted(t *testing.T) {
	t.Parallel()

	got := envToSlice(map[string]string{"B": "2", "A": "1"})
	if !slices.Equal(got, []string{"A=1", "B=2"}) {
		t.Errorf("envToSlice() = %q", got)
	}
}
