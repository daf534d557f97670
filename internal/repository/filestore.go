package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/olehsv/kinobot/internal/domain"
)

// FileStore persists the whole snapshot as a single JSON document. Writes go
// through a temp file and rename so a crash mid-write never leaves a torn
// document behind. A document that fails to decode is quarantined rather
// than deleted, and the bot starts fresh.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (f *FileStore) Load(_ context.Context) (*domain.Snapshot, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", f.path, err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		quarantine := f.path + ".corrupted"
		if renameErr := os.Rename(f.path, quarantine); renameErr != nil {
			slog.Error("failed to quarantine corrupted data file", "error", renameErr)
		} else {
			slog.Warn("corrupted data file quarantined", "path", quarantine, "error", err)
		}
		return nil, nil
	}
	return &snap, nil
}

func (f *FileStore) Save(_ context.Context, snap *domain.Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("rename %s: %w", tmp, err)
	}
	return nil
}
