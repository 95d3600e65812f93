package job

import (
	"fmt"
	"os"
	"path/filepath"

	"streampack/config"
	"streampack/logger"
	"streampack/utils"
)

// Workspace is the per-job scratch directory. Everything a job touches on
// disk lives under Dir and is removed when the job reaches a terminal state.
type Workspace struct {
	Dir string
}

// NewWorkspace creates a fresh scratch directory for one job invocation. The
// random suffix keeps directories unique even if a job id repeats.
func NewWorkspace(jobID string) (*Workspace, error) {
	rns, err := utils.GenerateRNS()
	if err != nil {
		return nil, fmt.Errorf("failed to generate workspace suffix: %w", err)
	}

	dir := filepath.Join(config.GetWorkDir(), jobID+"-"+rns)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create workspace %s: %w", dir, err)
	}

	return &Workspace{Dir: dir}, nil
}

// Path joins name onto the workspace root.
func (w *Workspace) Path(name string) string {
	return filepath.Join(w.Dir, name)
}

// OutputDir creates (if needed) and returns the output subdirectory where
// files destined for upload are staged.
func (w *Workspace) OutputDir() (string, error) {
	dir := filepath.Join(w.Dir, "output")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}
	return dir, nil
}

// Cleanup removes the workspace and everything in it.
func (w *Workspace) Cleanup() {
	if err := os.RemoveAll(w.Dir); err != nil {
		logger.Errorf("Failed to cleanup workspace %s: %v", w.Dir, err)
	}
}
