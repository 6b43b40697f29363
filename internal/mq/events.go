package mq

// Routing keys for habit lifecycle events on the events exchange.
const (
	RoutingKeyHabitCreated       = "habit.created"
	RoutingKeyHabitUpdated       = "habit.updated"
	RoutingKeyHabitDeleted       = "habit.deleted"
	RoutingKeyHabitCheckIn       = "habit.checkin"
	RoutingKeyHabitCheckInUndone = "habit.checkin_undone"
)

type HabitCreatedPayload struct {
	HabitID     string `json:"habit_id"`
	Name        string `json:"name"`
	CreatedDate string `json:"created_date"`
}

type HabitUpdatedPayload struct {
	HabitID string `json:"habit_id"`
	Name    string `json:"name"`
}

type HabitDeletedPayload struct {
	HabitID string `json:"habit_id"`
	Name    string `json:"name"`
}

type HabitCheckInPayload struct {
	HabitID       string `json:"habit_id"`
	Name          string `json:"name"`
	Date          string `json:"date"`
	CurrentStreak int    `json:"current_streak"`
}
