// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// EnvInitCwd is the variable lifecycle scripts read the init cwd hint from.
	EnvInitCwd = "INIT_CWD"
	// envPrefix marks variables owned by monorun. Stale values inherited
	// from an outer monorun invocation are dropped before ExtraEnv applies.
	envPrefix = "MONORUN_"
)

// buildEnv builds the child environment with this precedence (later wins):
//
//  1. Host environment, minus MONORUN_* variables
//  2. ExtraEnv
//  3. EnvFiles, in order
//  4. INIT_CWD
func buildEnv(environ []string, opts LifecycleOptions) (map[string]string, error) {
	env := make(map[string]string, len(environ)+len(opts.ExtraEnv)+1)
	for _, kv := range environ {
		name, value, ok := strings.Cut(kv, "=")
		if !ok || strings.HasPrefix(name, envPrefix) {
			continue
		}
		env[name] = value
	}

	maps.Copy(env, opts.ExtraEnv)

	for _, path := range opts.EnvFiles {
		if err := loadEnvFile(env, path, opts.WorkingDirectory); err != nil {
			return nil, err
		}
	}

	if opts.InitCwd != "" {
		env[EnvInitCwd] = opts.InitCwd
	}

	return env, nil
}

// loadEnvFile merges a dotenv file into env. Files suffixed with '?' are
// optional; a missing optional file is not an error.
func loadEnvFile(env map[string]string, path, basePath string) error {
	optional := strings.HasSuffix(path, "?")
	path = strings.TrimSuffix(path, "?")

	fullPath := filepath.FromSlash(path)
	if !filepath.IsAbs(fullPath) {
		fullPath = filepath.Join(basePath, fullPath)
	}

	values, err := godotenv.Read(fullPath)
	if err != nil {
		if optional && os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read env file '%s': %w", path, err)
	}

	maps.Copy(env, values)
	return nil
}

// envToSlice converts env to sorted KEY=VALUE pairs.
func envToSlice(env map[string]string) []string {
	keys := slices.Sorted(maps.Keys(env))
	result := make([]string, 0, len(keys))
	for _, k := range keys {
		result = append(result, k+"="+env[k])
	}
	return result
}
