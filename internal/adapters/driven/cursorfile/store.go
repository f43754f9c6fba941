// Package cursorfile persists the sync cursor as a single JSON file,
// written atomically so a crash mid-save can never leave a torn cursor.
package cursorfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rivergate-labs/chunksync/internal/core/domain"
	"github.com/rivergate-labs/chunksync/internal/core/ports/driven"
	"github.com/rivergate-labs/chunksync/internal/logger"
)

// DefaultFileName is the cursor file name inside the data directory.
const DefaultFileName = "cursor.json"

// Ensure Store implements the interface.
var _ driven.CursorStore = (*Store)(nil)

// Store is a file-based cursor store.
type Store struct {
	path string
}

// NewStore creates a cursor store at dataDir/cursor.json.
// If dataDir is empty, defaults to ~/.chunksync/data.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".chunksync", "data")
	}
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &Store{path: filepath.Join(dataDir, DefaultFileName)}, nil
}

// Path returns the cursor file path.
func (s *Store) Path() string {
	return s.path
}

// Load returns the stored cursor, or nil if the file is missing or cannot
// be parsed. Absence triggers a full resync and is not an error; only real
// storage faults (permissions, I/O) are returned.
func (s *Store) Load() (*domain.SyncCursor, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cursor file: %w", err)
	}

	var cursor domain.SyncCursor
	if err := json.Unmarshal(data, &cursor); err != nil {
		logger.Warn("cursor file %s is corrupt, treating as absent: %v", s.path, err)
		return nil, nil
	}
	if cursor.IsZero() {
		return nil, nil
	}
	return &cursor, nil
}

// Save writes the cursor to a temporary file in the same directory and
// renames it over the canonical path. Rename is atomic on POSIX
// filesystems, so readers see either the old cursor or the new one.
func (s *Store) Save(cursor domain.SyncCursor) error {
	data, err := json.Marshal(cursor)
	if err != nil {
		return fmt.Errorf("encode cursor: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), DefaultFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp cursor file: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp cursor file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync temp cursor file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp cursor file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace cursor file: %w", err)
	}
	return nil
}

// Clear removes the cursor file. A missing file is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove cursor file: %w", err)
	}
	return nil
}
