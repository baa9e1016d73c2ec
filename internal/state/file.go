package state

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
)

// FileStore persists state as a single JSON file, rewritten in full after
// each mutating cycle. The write is deliberately not atomic: a torn write
// loads as empty defaults on the next start, which is acceptable for
// re-derivable feed data.
type FileStore struct {
	path   string
	logger *slog.Logger
}

// NewFileStore creates a file-backed store at the given path.
func NewFileStore(path string, logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{path: path, logger: logger}
}

// Load reads the state file. A missing or malformed file yields an empty
// state, never an error.
func (f *FileStore) Load(ctx context.Context) (*State, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if !os.IsNotExist(err) {
			f.logger.Warn("failed to read state file, starting fresh",
				"path", f.path,
				"error", err,
			)
		}
		return New(), nil
	}

	st := New()
	if err := json.Unmarshal(data, st); err != nil {
		f.logger.Warn("failed to parse state file, starting fresh",
			"path", f.path,
			"error", err,
		)
		return New(), nil
	}
	return st, nil
}

// Save overwrites the state file with the current snapshot.
func (f *FileStore) Save(ctx context.Context, s *State) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.WriteFile(f.path, data, 0o600); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	return nil
}
