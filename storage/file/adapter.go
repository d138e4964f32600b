// Package file keeps the latest snapshot in a JSON file on disk
package file

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/sig-0/pricecast/storage/types"
)

var errEmptyPath = errors.New("empty snapshot path")

// Storage writes every snapshot to a single file, replacing it atomically.
// The latest snapshot is cached in memory once saved or read
type Storage struct {
	latest *types.Snapshot
	path   string

	mu sync.RWMutex
}

// NewStorage creates a new file-backed snapshot storage
func NewStorage(path string) (*Storage, error) {
	if path == "" {
		return nil, errEmptyPath
	}

	return &Storage{
		path: path,
	}, nil
}

// Path returns the snapshot file path
func (s *Storage) Path() string {
	return s.path
}

func (s *Storage) SaveSnapshot(_ context.Context, snap *types.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	elem := snap.Clone()
	elem.Timestamp = elem.Timestamp.UTC()

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(elem); err != nil {
		return fmt.Errorf("unable to encode snapshot: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := writeAtomic(s.path, buf.Bytes()); err != nil {
		return err
	}

	s.latest = elem

	return nil
}

func (s *Storage) LatestSnapshot(_ context.Context) (*types.Snapshot, error) {
	s.mu.RLock()
	latest := s.latest
	s.mu.RUnlock()

	if latest != nil {
		return latest.Clone(), nil
	}

	// Fall back to a snapshot written by a previous run
	content, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("unable to read snapshot file: %w", err)
	}

	var snap types.Snapshot
	if err := json.Unmarshal(content, &snap); err != nil {
		return nil, fmt.Errorf("unable to decode snapshot file: %w", err)
	}

	s.mu.Lock()
	if s.latest == nil {
		s.latest = &snap
	}
	s.mu.Unlock()

	return snap.Clone(), nil
}

// writeAtomic writes the content to a temporary file in the same
// directory, and renames it over the destination
func writeAtomic(path string, content []byte) error {
	dir := filepath.Dir(path)

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create snapshot directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("unable to create temporary file: %w", err)
	}

	tmpName := tmp.Name()

	if _, err = tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)

		return fmt.Errorf("unable to write snapshot: %w", err)
	}

	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("unable to close temporary file: %w", err)
	}

	if err = os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)

		return fmt.Errorf("unable to replace snapshot file: %w", err)
	}

	return nil
}
