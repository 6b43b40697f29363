package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManagerAdd(t *testing.T) {
	m := NewHabitManager()

	first := m.Add("Read", "ten pages")
	second := m.Add("Run", "")

	require.NotEmpty(t, first.ID)
	require.NotEqual(t, first.ID, second.ID)
	require.Equal(t, 2, m.Len())

	list := m.ListAll()
	require.Equal(t, []string{"Read", "Run"}, []string{list[0].Name, list[1].Name})
}

func TestManagerGet(t *testing.T) {
	m := NewHabitManager()
	h := m.Add("Read", "")

	got, ok := m.Get(h.ID)
	require.True(t, ok)
	require.Same(t, h, got)

	_, ok = m.Get("missing")
	require.False(t, ok)
}

func TestManagerRemove(t *testing.T) {
	m := NewHabitManager()
	a := m.Add("Read", "")
	b := m.Add("Run", "")
	c := m.Add("Sleep", "")

	require.True(t, m.Remove(b.ID))
	require.Equal(t, 2, m.Len())
	_, ok := m.Get(b.ID)
	require.False(t, ok)

	// insertion order of the survivors is preserved
	list := m.ListAll()
	require.Same(t, a, list[0])
	require.Same(t, c, list[1])
}

func TestManagerRemoveUnknownLeavesCollectionUnchanged(t *testing.T) {
	m := NewHabitManager()
	m.Add("Read", "")

	require.False(t, m.Remove("nope"))
	require.Equal(t, 1, m.Len())
}

func TestManagerUpdate(t *testing.T) {
	m := NewHabitManager()
	h := m.Add("Read", "ten pages")

	name := "Read more"
	require.True(t, m.Update(h.ID, &name, nil))
	require.Equal(t, "Read more", h.Name)
	require.Equal(t, "ten pages", h.Description)

	desc := ""
	require.True(t, m.Update(h.ID, nil, &desc))
	require.Equal(t, "Read more", h.Name)
	require.Empty(t, h.Description)

	require.False(t, m.Update("missing", &name, nil))
}

func TestManagerListAllReturnsFreshSlice(t *testing.T) {
	m := NewHabitManager()
	m.Add("Read", "")
	m.Add("Run", "")

	list := m.ListAll()
	list[0], list[1] = list[1], list[0]

	again := m.ListAll()
	require.Equal(t, "Read", again[0].Name)
	require.Equal(t, "Run", again[1].Name)
}
