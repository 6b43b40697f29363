package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	m := NewHabitManager()
	read := m.Add("Read", "ten pages")
	read.MarkCompleted(anchor)
	read.MarkCompleted(anchor.AddDate(0, 0, -1))
	run := m.Add("Run", "")
	run.MarkCompleted(anchor.AddDate(0, 0, -3))

	snap := m.Snapshot()
	require.Equal(t, 2, snap.Metadata.TotalHabits)
	require.NotEmpty(t, snap.Metadata.LastUpdated)

	restored := NewHabitManager()
	require.NoError(t, restored.Restore(snap))
	require.Equal(t, 2, restored.Len())

	for i, want := range m.ListAll() {
		got := restored.ListAll()[i]
		require.Equal(t, want.ID, got.ID)
		require.Equal(t, want.Name, got.Name)
		require.Equal(t, want.Description, got.Description)
		require.True(t, want.CreatedDate.Equal(got.CreatedDate))
		require.Equal(t, want.CompletionDates(), got.CompletionDates())
	}
}

func TestRestoreReplacesExistingHabits(t *testing.T) {
	m := NewHabitManager()
	m.Add("Stale", "")

	require.NoError(t, m.Restore(EmptySnapshot()))
	require.Zero(t, m.Len())
}

func TestRestoreNormalizesDates(t *testing.T) {
	snap := EmptySnapshot()
	snap.Habits = append(snap.Habits, HabitSnapshot{
		ID:              "h1",
		Name:            "Read",
		CreatedDate:     "2025-03-01",
		CompletionDates: []string{"2025-03-10", "2025-03-08", "2025-03-10"},
	})

	m := NewHabitManager()
	require.NoError(t, m.Restore(snap))

	h, ok := m.Get("h1")
	require.True(t, ok)
	dates := h.CompletionDates()
	require.Len(t, dates, 2)
	require.Equal(t, "2025-03-08", dates[0].Format(DateLayout))
	require.Equal(t, "2025-03-10", dates[1].Format(DateLayout))
}

func TestRestoreRejectsBadData(t *testing.T) {
	base := func() HabitSnapshot {
		return HabitSnapshot{ID: "h1", Name: "Read", CreatedDate: "2025-03-01"}
	}

	tests := []struct {
		name   string
		mutate func(*Snapshot)
	}{
		{name: "missing id", mutate: func(s *Snapshot) { s.Habits[0].ID = "" }},
		{name: "bad created date", mutate: func(s *Snapshot) { s.Habits[0].CreatedDate = "March 1" }},
		{name: "bad completion date", mutate: func(s *Snapshot) {
			s.Habits[0].CompletionDates = []string{"2025-13-40"}
		}},
		{name: "duplicate ids", mutate: func(s *Snapshot) {
			s.Habits = append(s.Habits, base())
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := EmptySnapshot()
			snap.Habits = append(snap.Habits, base())
			tt.mutate(&snap)

			m := NewHabitManager()
			m.Add("Keep", "")
			require.Error(t, m.Restore(snap))
			// a failed restore leaves the manager untouched
			require.Equal(t, 1, m.Len())
			require.Equal(t, "Keep", m.ListAll()[0].Name)
		})
	}
}

func TestSnapshotWireFormat(t *testing.T) {
	m := NewHabitManager()
	h := m.Add("Read", "ten pages")
	h.MarkCompleted(time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC))

	raw, err := json.Marshal(m.Snapshot())
	require.NoError(t, err)

	var decoded map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &decoded))
	require.Contains(t, decoded, "habits")
	require.Contains(t, decoded, "metadata")

	var habits []map[string]any
	require.NoError(t, json.Unmarshal(decoded["habits"], &habits))
	require.Len(t, habits, 1)
	require.Equal(t, h.ID, habits[0]["id"])
	require.Equal(t, "ten pages", habits[0]["description"])
	require.Equal(t, []any{"2025-03-10"}, habits[0]["completion_dates"])

	var meta map[string]any
	require.NoError(t, json.Unmarshal(decoded["metadata"], &meta))
	require.EqualValues(t, 1, meta["total_habits"])
}
