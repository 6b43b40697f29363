package model

// HabitManager owns the ordered habit collection. Insertion order is
// significant: it drives list display order. Every habit in the collection
// has a unique id.
//
// The manager is not safe for concurrent use; the owning caller serializes
// access to it.
type HabitManager struct {
	habits []*Habit
}

// NewHabitManager returns an empty manager.
func NewHabitManager() *HabitManager {
	return &HabitManager{}
}

// Add creates a new habit with a fresh id and today's creation date and
// appends it to the end of the collection.
func (m *HabitManager) Add(name, description string) *Habit {
	h := NewHabit(name, description)
	m.habits = append(m.habits, h)
	return h
}

// Remove deletes the habit with the given id and reports whether a habit
// was removed. An unknown id is a no-op.
func (m *HabitManager) Remove(id string) bool {
	for i, h := range m.habits {
		if h.ID == id {
			m.habits = append(m.habits[:i], m.habits[i+1:]...)
			return true
		}
	}
	return false
}

// Get returns the habit with the given id.
func (m *HabitManager) Get(id string) (*Habit, bool) {
	for _, h := range m.habits {
		if h.ID == id {
			return h, true
		}
	}
	return nil, false
}

// Update changes the name and/or description of a habit in place. A nil
// pointer leaves that field unchanged. It reports whether the habit exists.
func (m *HabitManager) Update(id string, name, description *string) bool {
	h, ok := m.Get(id)
	if !ok {
		return false
	}
	if name != nil {
		h.Name = *name
	}
	if description != nil {
		h.Description = *description
	}
	return true
}

// ListAll returns the habits in insertion order. The slice is a fresh copy,
// so callers cannot change the collection's membership through it; the habit
// entities themselves are shared.
func (m *HabitManager) ListAll() []*Habit {
	out := make([]*Habit, len(m.habits))
	copy(out, m.habits)
	return out
}

// Len returns the number of habits in the collection.
func (m *HabitManager) Len() int {
	return len(m.habits)
}
