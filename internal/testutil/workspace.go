// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// DefaultWorkspaceCUE declares two projects whose folders NewWorkspace
// creates.
const DefaultWorkspaceCUE = `projects: [
	{name: "app", folder: "apps/app"},
	{name: "lib", folder: "libraries/lib"},
]
`

// WorkspaceFixture is a workspace laid out in a temporary directory.
type WorkspaceFixture struct {
	Root string
}

// NewWorkspace writes monorun.cue with content (DefaultWorkspaceCUE when
// empty) into a fresh temp dir and creates the default project folders.
func NewWorkspace(t testing.TB, content string) *WorkspaceFixture {
	t.Helper()

	root := t.TempDir()
	// Resolve symlinks so paths compare equal to what a child process sees
	// (e.g. /var -> /private/var on macOS).
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		root = resolved
	}

	if content == "" {
		content = DefaultWorkspaceCUE
		MustMkdirAll(t, filepath.Join(root, "apps", "app"), 0o755)
		MustMkdirAll(t, filepath.Join(root, "libraries", "lib"), 0o755)
	}
	MustWriteFile(t, filepath.Join(root, "monorun.cue"), content)

	return &WorkspaceFixture{Root: root}
}

// Path joins elem onto the workspace root.
func (f *WorkspaceFixture) Path(elem ...string) string {
	return filepath.Join(append([]string{f.Root}, elem...)...)
}

// WriteCommandLine writes common/config/<name> with content.
func (f *WorkspaceFixture) WriteCommandLine(t testing.TB, name, content string) string {
	t.Helper()
	path := f.Path("common", "config", name)
	MustWriteFile(t, path, content)
	return path
}

// Link creates the link marker as "monorun link" would.
func (f *WorkspaceFixture) Link(t testing.TB) {
	t.Helper()
	MustWriteFile(t, f.Path("common", "temp", "monorun-link.json"), `{"projects":[]}`)
}

// Unlink removes the link marker if present.
func (f *WorkspaceFixture) Unlink(t testing.TB) {
	t.Helper()
	err := os.Remove(f.Path("common", "temp", "monorun-link.json"))
	if err != nil && !os.IsNotExist(err) {
		t.Fatalf("failed to remove link marker: %v", err)
	}
}
