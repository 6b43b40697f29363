package model

import (
	"errors"
	"fmt"
	"time"
)

// Snapshot is the persisted form of the whole habit collection, the shape
// the storage backends load and save.
type Snapshot struct {
	Habits   []HabitSnapshot `json:"habits"`
	Metadata Metadata        `json:"metadata"`
}

// HabitSnapshot is the wire form of a single habit. Dates are ISO calendar
// date strings (YYYY-MM-DD), completion dates sorted ascending.
type HabitSnapshot struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	CreatedDate     string   `json:"created_date"`
	CompletionDates []string `json:"completion_dates"`
}

// Metadata carries bookkeeping about the snapshot itself.
type Metadata struct {
	LastUpdated string `json:"last_updated"`
	TotalHabits int    `json:"total_habits"`
}

// EmptySnapshot returns the default snapshot used when nothing has been
// persisted yet or the stored form is unreadable.
func EmptySnapshot() Snapshot {
	return Snapshot{
		Habits: []HabitSnapshot{},
		Metadata: Metadata{
			LastUpdated: time.Now().Format(time.RFC3339),
			TotalHabits: 0,
		},
	}
}

// Snapshot returns the wire form of the habit.
func (h *Habit) Snapshot() HabitSnapshot {
	dates := make([]string, 0, len(h.completions))
	for _, d := range h.completions {
		dates = append(dates, d.Format(DateLayout))
	}
	return HabitSnapshot{
		ID:              h.ID,
		Name:            h.Name,
		Description:     h.Description,
		CreatedDate:     h.CreatedDate.Format(DateLayout),
		CompletionDates: dates,
	}
}

// HabitFromSnapshot rebuilds a habit from its wire form. Completion dates
// may arrive unsorted or with duplicates; both are normalized on the way in.
func HabitFromSnapshot(hs HabitSnapshot) (*Habit, error) {
	if hs.ID == "" {
		return nil, errors.New("habit snapshot missing id")
	}
	created, err := ParseDate(hs.CreatedDate)
	if err != nil {
		return nil, fmt.Errorf("habit %s: bad created_date %q: %w", hs.ID, hs.CreatedDate, err)
	}
	h := &Habit{
		ID:          hs.ID,
		Name:        hs.Name,
		Description: hs.Description,
		CreatedDate: created,
	}
	for _, s := range hs.CompletionDates {
		d, err := ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("habit %s: bad completion date %q: %w", hs.ID, s, err)
		}
		h.MarkCompleted(d)
	}
	return h, nil
}

// Snapshot serializes the whole collection in insertion order.
func (m *HabitManager) Snapshot() Snapshot {
	habits := make([]HabitSnapshot, 0, len(m.habits))
	for _, h := range m.habits {
		habits = append(habits, h.Snapshot())
	}
	return Snapshot{
		Habits: habits,
		Metadata: Metadata{
			LastUpdated: time.Now().Format(time.RFC3339),
			TotalHabits: len(m.habits),
		},
	}
}

// Restore replaces the whole collection from a snapshot. Partial or merge
// loads are not supported: either every habit in the snapshot is valid and
// the collection is swapped atomically, or an error is returned and the
// manager is left unchanged.
func (m *HabitManager) Restore(snap Snapshot) error {
	habits := make([]*Habit, 0, len(snap.Habits))
	seen := make(map[string]struct{}, len(snap.Habits))
	for _, hs := range snap.Habits {
		h, err := HabitFromSnapshot(hs)
		if err != nil {
			return err
		}
		if _, dup := seen[h.ID]; dup {
			return fmt.Errorf("duplicate habit id %q in snapshot", h.ID)
		}
		seen[h.ID] = struct{}{}
		habits = append(habits, h)
	}
	m.habits = habits
	return nil
}
