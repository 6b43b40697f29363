package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// DateOf normalizes t to its calendar date: midnight UTC of the
// year/month/day t falls on in its own location.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Today returns the current local calendar date.
func Today() time.Time {
	return DateOf(time.Now())
}

// ParseDate parses an ISO calendar date string (YYYY-MM-DD).
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Habit is a single tracked habit and its completion history.
//
// The completion list is a set of calendar dates kept sorted ascending with
// no duplicates; all mutation goes through MarkCompleted/UnmarkCompleted so
// that invariant holds. CreatedDate is set once at construction and never
// changed afterwards.
type Habit struct {
	ID          string
	Name        string
	Description string
	CreatedDate time.Time

	completions []time.Time
}

// NewHabit constructs a habit with a fresh unique id, created today.
func NewHabit(name, description string) *Habit {
	return &Habit{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		CreatedDate: Today(),
	}
}

// search locates day in the sorted completion list, returning the insertion
// index and whether the day is already present.
func (h *Habit) search(day time.Time) (int, bool) {
	i := sort.Search(len(h.completions), func(i int) bool {
		return !h.completions[i].Before(day)
	})
	return i, i < len(h.completions) && h.completions[i].Equal(day)
}

// MarkCompleted records a completion for the given date. Marking a date that
// is already recorded is a no-op. Any valid date is accepted, future and
// pre-creation dates included.
func (h *Habit) MarkCompleted(d time.Time) {
	day := DateOf(d)
	i, found := h.search(day)
	if found {
		return
	}
	h.completions = append(h.completions, time.Time{})
	copy(h.completions[i+1:], h.completions[i:])
	h.completions[i] = day
}

// UnmarkCompleted removes the completion for the given date, if recorded.
func (h *Habit) UnmarkCompleted(d time.Time) {
	day := DateOf(d)
	i, found := h.search(day)
	if !found {
		return
	}
	h.completions = append(h.completions[:i], h.completions[i+1:]...)
}

// IsCompletedOn reports whether the habit was completed on the given date.
func (h *Habit) IsCompletedOn(d time.Time) bool {
	_, found := h.search(DateOf(d))
	return found
}

// IsCompletedToday reports whether the habit was completed today.
func (h *Habit) IsCompletedToday() bool {
	return h.IsCompletedOn(Today())
}

// CurrentStreak counts consecutive completed days ending at today, with one
// day of grace: when today has no completion yet but yesterday has one, the
// streak is anchored at yesterday instead of resetting. A gap of two or more
// days yields zero.
func (h *Habit) CurrentStreak() int {
	return h.currentStreakOn(Today())
}

func (h *Habit) currentStreakOn(today time.Time) int {
	if len(h.completions) == 0 {
		return 0
	}

	anchor := today
	if !h.IsCompletedOn(anchor) {
		anchor = today.AddDate(0, 0, -1)
		if !h.IsCompletedOn(anchor) {
			return 0
		}
	}

	streak := 1
	for day := anchor.AddDate(0, 0, -1); h.IsCompletedOn(day); day = day.AddDate(0, 0, -1) {
		streak++
	}
	return streak
}

// LongestStreak returns the longest run of consecutive completion dates ever
// recorded, scanning the sorted list once.
func (h *Habit) LongestStreak() int {
	if len(h.completions) == 0 {
		return 0
	}

	longest, run := 1, 1
	for i := 1; i < len(h.completions); i++ {
		if h.completions[i].Equal(h.completions[i-1].AddDate(0, 0, 1)) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

// TotalCompletions returns the number of recorded completion dates.
func (h *Habit) TotalCompletions() int {
	return len(h.completions)
}

// CompletionRate returns the share of days completed since creation, in
// percent of the inclusive day count. A created date in the future relative
// to today (corrupt data) yields 0.
func (h *Habit) CompletionRate() float64 {
	return h.completionRateOn(Today())
}

func (h *Habit) completionRateOn(today time.Time) float64 {
	days := int(today.Sub(DateOf(h.CreatedDate)).Hours()/24) + 1
	if days < 1 {
		return 0
	}
	return float64(len(h.completions)) / float64(days) * 100
}

// CompletionDates returns the recorded completion dates, sorted ascending.
// The returned slice is a copy.
func (h *Habit) CompletionDates() []time.Time {
	out := make([]time.Time, len(h.completions))
	copy(out, h.completions)
	return out
}
