// Package store persists run results as a write-ahead log: every outcome is
// written durably the moment it is known, one file per work item, so a crash
// never loses completed work.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"gauntlet/internal/runner"
)

// Store writes terminal results under a single run directory.
type Store struct {
	runDir string
}

// New creates a Store rooted at runDir. The directory is created lazily on
// first persist.
func New(runDir string) *Store {
	return &Store{runDir: runDir}
}

// RunDir returns the run directory this store writes into.
func (s *Store) RunDir() string {
	return s.runDir
}

// Persist writes one result to its deterministic path, atomically: the file is
// staged as a temporary sibling and renamed into place, so readers never see a
// partially-written result. Returns the final path.
func (s *Store) Persist(result runner.RunResult) (string, error) {
	modelDir := filepath.Join(s.runDir, Sanitize(result.ModelName))
	if err := os.MkdirAll(modelDir, 0o755); err != nil {
		return "", fmt.Errorf("create model dir: %w", err)
	}
	finalPath := filepath.Join(modelDir, resultFileName(result.Timestamp, result.TestName, result.RunIndex))

	payload, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal result: %w", err)
	}
	tmp, err := os.CreateTemp(modelDir, ".result-*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("rename into place: %w", err)
	}
	return finalPath, nil
}
