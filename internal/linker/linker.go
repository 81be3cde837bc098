// SPDX-License-Identifier: MPL-2.0

package linker

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/monorun/monorun/internal/issue"
	"github.com/monorun/monorun/internal/workspace"
)

// MarkerVersion is the format version written into new markers.
const MarkerVersion = "1"

var (
	// ErrProjectFolderMissing is the sentinel wrapped by ProjectFolderMissingError.
	ErrProjectFolderMissing = errors.New("project folder missing")
	// ErrInvalidMarker is returned when the marker file cannot be decoded.
	ErrInvalidMarker = errors.New("invalid link marker")
)

type (
	// Marker is the content of the link marker file.
	Marker struct {
		Version  string          `json:"version"`
		LinkedAt time.Time       `json:"linkedAt"`
		Projects []LinkedProject `json:"projects"`
	}

	// LinkedProject records one project at link time.
	LinkedProject struct {
		Name   string `json:"name"`
		Folder string `json:"folder"`
	}

	// ProjectFolderMissingError is returned when a declared project has no
	// folder on disk.
	ProjectFolderMissingError struct {
		Project string
		Folder  string
	}

	// Option configures Link.
	Option func(*options)

	options struct {
		now func() time.Time
	}
)

// Error implements the error interface.
func (e *ProjectFolderMissingError) Error() string {
	return fmt.Sprintf("project %q: folder %s does not exist", e.Project, e.Folder)
}

// Unwrap returns ErrProjectFolderMissing for errors.Is() compatibility.
func (e *ProjectFolderMissingError) Unwrap() error { return ErrProjectFolderMissing }

// WithClock overrides the time source used for LinkedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// Link validates the workspace projects and writes the link marker. Every
// missing folder is reported, not just the first one.
func Link(ws *workspace.Workspace, opts ...Option) (*Marker, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	marker := &Marker{
		Version:  MarkerVersion,
		LinkedAt: o.now().UTC(),
		Projects: make([]LinkedProject, 0, len(ws.Projects)),
	}

	var errs []error
	for _, p := range ws.Projects {
		folder := ws.ProjectFolder(p)
		info, err := os.Stat(folder)
		if err != nil || !info.IsDir() {
			errs = append(errs, &ProjectFolderMissingError{Project: p.Name, Folder: folder})
			continue
		}
		marker.Projects = append(marker.Projects, LinkedProject{Name: p.Name, Folder: folder})
	}
	if len(errs) > 0 {
		return nil, issue.NewErrorContext().
			WithOperation("link workspace").
			WithResource(ws.FilePath).
			WithSuggestion("Create the missing folders or fix the project entries in monorun.cue").
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	if err := writeMarker(ws.LinkMarkerPath(), marker); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("write link marker").
			WithResource(ws.LinkMarkerPath()).
			WithSuggestion("Check that the common temp folder is writable").
			Wrap(err).
			BuildError()
	}
	return marker, nil
}

// Unlink removes the link marker. It reports whether a marker was present.
func Unlink(ws *workspace.Workspace) (bool, error) {
	err := os.Remove(ws.LinkMarkerPath())
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, os.ErrNotExist):
		return false, nil
	default:
		return false, fmt.Errorf("failed to remove link marker: %w", err)
	}
}

// ReadMarker loads the marker at path.
func ReadMarker(path string) (*Marker, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, workspace.ErrNotLinked
		}
		return nil, fmt.Errorf("failed to read link marker: %w", err)
	}

	var m Marker
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidMarker, path, err)
	}
	return &m, nil
}

func writeMarker(path string, m *Marker) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode link marker: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write link marker: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("failed to rename link marker: %w", err)
	}
	return nil
}
