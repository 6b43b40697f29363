package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/sammy440/Habit-tracker/internal/model"
)

// PostgresStore maps the snapshot onto relational tables. Save replaces
// the whole snapshot in one transaction, so concurrent writers degrade to
// last-writer-wins just like the file backend.
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, logger *zap.Logger) (*PostgresStore, error) {
	s := &PostgresStore{pool: pool, logger: logger}
	if err := s.createTables(ctx); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

func (s *PostgresStore) createTables(ctx context.Context) error {
	schema := `
        CREATE TABLE IF NOT EXISTS habits (
            id TEXT PRIMARY KEY,
            name TEXT NOT NULL,
            description TEXT NOT NULL DEFAULT '',
            created_date DATE NOT NULL,
            position INTEGER NOT NULL
        );

        CREATE TABLE IF NOT EXISTS habit_completions (
            habit_id TEXT NOT NULL REFERENCES habits(id) ON DELETE CASCADE,
            completion_date DATE NOT NULL,
            PRIMARY KEY (habit_id, completion_date)
        );

        CREATE TABLE IF NOT EXISTS snapshot_meta (
            id INTEGER PRIMARY KEY CHECK (id = 1),
            last_updated TIMESTAMPTZ NOT NULL
        );
    `
	_, err := s.pool.Exec(ctx, schema)
	return err
}

func (s *PostgresStore) Load(ctx context.Context) (model.Snapshot, error) {
	snap := model.EmptySnapshot()

	query := `
        SELECT id, name, description, created_date
        FROM habits
        ORDER BY position
    `
	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return snap, fmt.Errorf("failed to query habits: %w", err)
	}
	defer rows.Close()

	index := map[string]int{}
	for rows.Next() {
		var hs model.HabitSnapshot
		var created time.Time
		if err := rows.Scan(&hs.ID, &hs.Name, &hs.Description, &created); err != nil {
			return snap, fmt.Errorf("failed to scan habit: %w", err)
		}
		hs.CreatedDate = created.Format(model.DateLayout)
		index[hs.ID] = len(snap.Habits)
		snap.Habits = append(snap.Habits, hs)
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("failed to read habits: %w", err)
	}

	completionsQuery := `
        SELECT habit_id, completion_date
        FROM habit_completions
        ORDER BY habit_id, completion_date
    `
	crows, err := s.pool.Query(ctx, completionsQuery)
	if err != nil {
		return snap, fmt.Errorf("failed to query completions: %w", err)
	}
	defer crows.Close()

	for crows.Next() {
		var habitID string
		var day time.Time
		if err := crows.Scan(&habitID, &day); err != nil {
			return snap, fmt.Errorf("failed to scan completion: %w", err)
		}
		if i, ok := index[habitID]; ok {
			snap.Habits[i].CompletionDates = append(snap.Habits[i].CompletionDates, day.Format(model.DateLayout))
		}
	}
	if err := crows.Err(); err != nil {
		return snap, fmt.Errorf("failed to read completions: %w", err)
	}

	var lastUpdated time.Time
	metaQuery := `SELECT last_updated FROM snapshot_meta WHERE id = 1`
	if err := s.pool.QueryRow(ctx, metaQuery).Scan(&lastUpdated); err == nil {
		snap.Metadata.LastUpdated = lastUpdated.Format(time.RFC3339)
	}
	snap.Metadata.TotalHabits = len(snap.Habits)

	return snap, nil
}

func (s *PostgresStore) Save(ctx context.Context, snap model.Snapshot) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM habits`); err != nil {
		return fmt.Errorf("failed to clear habits: %w", err)
	}

	insertHabit := `
        INSERT INTO habits (id, name, description, created_date, position)
        VALUES ($1, $2, $3, $4, $5)
    `
	insertCompletion := `
        INSERT INTO habit_completions (habit_id, completion_date)
        VALUES ($1, $2)
    `
	for i, hs := range snap.Habits {
		created, err := model.ParseDate(hs.CreatedDate)
		if err != nil {
			return fmt.Errorf("failed to encode habit %s: %w", hs.ID, err)
		}
		if _, err := tx.Exec(ctx, insertHabit, hs.ID, hs.Name, hs.Description, created, i); err != nil {
			return fmt.Errorf("failed to insert habit %s: %w", hs.ID, err)
		}
		for _, ds := range hs.CompletionDates {
			day, err := model.ParseDate(ds)
			if err != nil {
				return fmt.Errorf("failed to encode completion for habit %s: %w", hs.ID, err)
			}
			if _, err := tx.Exec(ctx, insertCompletion, hs.ID, day); err != nil {
				return fmt.Errorf("failed to insert completion for habit %s: %w", hs.ID, err)
			}
		}
	}

	lastUpdated := time.Now()
	if t, err := time.Parse(time.RFC3339, snap.Metadata.LastUpdated); err == nil {
		lastUpdated = t
	}
	upsertMeta := `
        INSERT INTO snapshot_meta (id, last_updated)
        VALUES (1, $1)
        ON CONFLICT (id) DO UPDATE SET last_updated = EXCLUDED.last_updated
    `
	if _, err := tx.Exec(ctx, upsertMeta, lastUpdated); err != nil {
		return fmt.Errorf("failed to update snapshot metadata: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Debug("Snapshot saved to PostgreSQL", zap.Int("habits", len(snap.Habits)))
	return nil
}

func (s *PostgresStore) Backup(_ context.Context) error {
	return ErrBackupNotSupported
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
