package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/sammy440/Habit-tracker/internal/model"
)

const (
	snapshotKey = "habittracker:snapshot"
	backupKey   = "habittracker:snapshot:backup"
)

// RedisStore keeps the snapshot as a single JSON value.
type RedisStore struct {
	rdb    *redis.Client
	logger *zap.Logger
}

func NewRedisStore(rdb *redis.Client, logger *zap.Logger) *RedisStore {
	return &RedisStore{rdb: rdb, logger: logger}
}

func (s *RedisStore) Load(ctx context.Context) (model.Snapshot, error) {
	raw, err := s.rdb.Get(ctx, snapshotKey).Bytes()
	if err == redis.Nil {
		s.logger.Info("No snapshot in Redis yet, starting empty", zap.String("key", snapshotKey))
		return model.EmptySnapshot(), nil
	}
	if err != nil {
		return model.EmptySnapshot(), fmt.Errorf("failed to read snapshot: %w", err)
	}

	var snap model.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		s.logger.Warn("Snapshot in Redis corrupt, starting empty",
			zap.String("key", snapshotKey),
			zap.Error(err),
		)
		return model.EmptySnapshot(), nil
	}
	return snap, nil
}

func (s *RedisStore) Save(ctx context.Context, snap model.Snapshot) error {
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, snapshotKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	s.logger.Debug("Snapshot saved to Redis", zap.Int("habits", snap.Metadata.TotalHabits))
	return nil
}

func (s *RedisStore) Backup(ctx context.Context) error {
	snap, err := s.Load(ctx)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := s.rdb.Set(ctx, backupKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	s.logger.Info("Snapshot backed up", zap.String("key", backupKey))
	return nil
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
