package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/sammy440/Habit-tracker/internal/model"
)

// FileStore keeps the snapshot in a single JSON file. The default backend.
type FileStore struct {
	path   string
	logger *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	return &FileStore{path: path, logger: logger}
}

func (s *FileStore) Load(_ context.Context) (model.Snapshot, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("No snapshot file yet, starting empty", zap.String("path", s.path))
		return model.EmptySnapshot(), nil
	}
	if err != nil {
		s.logger.Warn("Snapshot file unreadable, starting empty",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return model.EmptySnapshot(), nil
	}

	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.logger.Warn("Snapshot file corrupt, starting empty",
			zap.String("path", s.path),
			zap.Error(err),
		)
		return model.EmptySnapshot(), nil
	}
	return snap, nil
}

func (s *FileStore) Save(_ context.Context, snap model.Snapshot) error {
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := writeFileAtomic(s.path, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	s.logger.Debug("Snapshot saved",
		zap.String("path", s.path),
		zap.Int("habits", snap.Metadata.TotalHabits),
	)
	return nil
}

// Backup writes whatever Load currently yields to <path>.backup, so a
// corrupt primary file backs up as the empty default rather than failing.
func (s *FileStore) Backup(ctx context.Context) error {
	snap, err := s.Load(ctx)
	if err != nil {
		return err
	}
	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	backupPath := s.path + ".backup"
	if err := writeFileAtomic(backupPath, raw, 0o644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	s.logger.Info("Snapshot backed up", zap.String("path", backupPath))
	return nil
}

func (s *FileStore) Close() error { return nil }

// writeFileAtomic writes data to a temp file in the same directory and
// renames it over the destination, so readers never see a partial write.
func writeFileAtomic(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	base := filepath.Base(path)

	tmp, err := os.CreateTemp(dir, base+".tmp.*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		return err
	}
	if err := tmp.Chmod(perm); err != nil {
		return err
	}
	if err := tmp.Sync(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}
