// SPDX-License-Identifier: MPL-2.0

package workspace

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/monorun/monorun/internal/issue"
	"github.com/monorun/monorun/pkg/cueutil"
)

const (
	// FileName is the workspace file that marks the repository root.
	FileName = "monorun.cue"
	// DefaultCommonFolder is used when monorun.cue sets no common_folder.
	DefaultCommonFolder = "common"
	// LinkMarkerFileName is written into the temp folder by the link step.
	LinkMarkerFileName = "monorun-link.json"
)

var (
	// ErrNotFound is returned when no monorun.cue exists in the start
	// directory or any of its parents.
	ErrNotFound = errors.New("workspace not found")
	// ErrNotLinked is returned when the link marker does not exist.
	ErrNotLinked = errors.New("workspace is not linked")

	//go:embed workspace_schema.cue
	workspaceSchema []byte
)

type (
	// Project is one project declared in monorun.cue.
	Project struct {
		Name   string `json:"name"`
		Folder string `json:"folder"`
	}

	// Workspace is a loaded monorun.cue together with the paths derived
	// from its location.
	Workspace struct {
		// FilePath is the absolute path of monorun.cue.
		FilePath string
		// CommonFolder is the absolute path of the common folder.
		CommonFolder string
		// Projects are the declared projects in file order.
		Projects []Project
	}

	workspaceFile struct {
		CommonFolder string    `json:"common_folder,omitempty"`
		Projects     []Project `json:"projects,omitempty"`
	}
)

// Find walks up from startDir looking for monorun.cue.
func Find(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", startDir, err)
	}

	for {
		candidate := filepath.Join(dir, FileName)
		if info, statErr := os.Stat(candidate); statErr == nil && !info.IsDir() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("%w: no %s in %s or any parent directory", ErrNotFound, FileName, startDir)
		}
		dir = parent
	}
}

// Discover finds and loads the workspace enclosing startDir.
func Discover(startDir string) (*Workspace, error) {
	path, err := Find(startDir)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("find workspace").
			WithResource(startDir).
			WithSuggestion("Run monorun from inside a workspace").
			WithSuggestion("Or pass --workspace <dir>").
			Wrap(err).
			BuildError()
	}
	return Load(path)
}

// Load reads and validates the workspace file at path.
func Load(path string) (*Workspace, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load workspace").
			WithResource(absPath).
			Wrap(err).
			BuildError()
	}

	result, err := cueutil.ParseAndDecode[workspaceFile](workspaceSchema, data, "#Workspace",
		cueutil.WithFilename(absPath))
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load workspace").
			WithResource(absPath).
			WithSuggestion("Check that the file contains valid CUE syntax").
			WithSuggestion("Each project needs a name and a folder").
			Wrap(err).
			BuildError()
	}

	root := filepath.Dir(absPath)
	commonFolder := result.Value.CommonFolder
	if commonFolder == "" {
		commonFolder = DefaultCommonFolder
	}

	ws := &Workspace{
		FilePath:     absPath,
		CommonFolder: resolve(root, commonFolder),
		Projects:     result.Value.Projects,
	}

	if err := validateProjects(ws.Projects); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("validate workspace").
			WithResource(absPath).
			Wrap(err).
			BuildError()
	}

	return ws, nil
}

// RootFolder is the directory holding monorun.cue. Global commands run here.
func (w *Workspace) RootFolder() string {
	return filepath.Dir(w.FilePath)
}

// CommonConfigFolder holds command-line definitions.
func (w *Workspace) CommonConfigFolder() string {
	return filepath.Join(w.CommonFolder, "config")
}

// CommonTempFolder is the shared staging folder, exported to scripts as
// INIT_CWD.
func (w *Workspace) CommonTempFolder() string {
	return filepath.Join(w.CommonFolder, "temp")
}

// LinkMarkerPath is the file whose existence means the workspace is linked.
func (w *Workspace) LinkMarkerPath() string {
	return filepath.Join(w.CommonTempFolder(), LinkMarkerFileName)
}

// IsLinked reports whether the link marker exists.
func (w *Workspace) IsLinked() bool {
	_, err := os.Stat(w.LinkMarkerPath())
	return err == nil
}

// ProjectFolder returns the absolute folder of p.
func (w *Workspace) ProjectFolder(p Project) string {
	return resolve(w.RootFolder(), p.Folder)
}

func validateProjects(projects []Project) error {
	names := make(map[string]int, len(projects))
	folders := make(map[string]int, len(projects))
	for i, p := range projects {
		if first, ok := names[p.Name]; ok {
			return fmt.Errorf("projects[%d]: duplicate project name %q (same as projects[%d])", i, p.Name, first)
		}
		names[p.Name] = i

		clean := filepath.Clean(filepath.FromSlash(p.Folder))
		if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
			return fmt.Errorf("projects[%d]: folder %q must be inside the workspace", i, p.Folder)
		}
		if first, ok := folders[clean]; ok {
			return fmt.Errorf("projects[%d]: duplicate folder %q (same as projects[%d])", i, p.Folder, first)
		}
		folders[clean] = i
	}
	return nil
}

func resolve(root, path string) string {
	path = filepath.FromSlash(path)
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(root, path)
}
