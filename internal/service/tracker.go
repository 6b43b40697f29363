package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/sammy440/Habit-tracker/internal/model"
	"github.com/sammy440/Habit-tracker/internal/mq"
	"github.com/sammy440/Habit-tracker/internal/storage"
	"github.com/sammy440/Habit-tracker/pkg/circuitbreaker"
	"github.com/sammy440/Habit-tracker/pkg/logger"
	"github.com/sammy440/Habit-tracker/pkg/metrics"
	pkgmq "github.com/sammy440/Habit-tracker/pkg/mq"
)

var (
	ErrHabitNotFound = errors.New("habit not found")
	ErrNameRequired  = errors.New("habit name is required")
	ErrInvalidDate   = errors.New("invalid date, want YYYY-MM-DD")
)

// HabitView is the handler-facing shape of a habit with its day-to-day stats.
type HabitView struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	CreatedDate      string `json:"created_date"`
	CurrentStreak    int    `json:"current_streak"`
	CompletedToday   bool   `json:"completed_today"`
	TotalCompletions int    `json:"total_completions"`
}

// HabitStats carries the full statistics block for one habit.
type HabitStats struct {
	CurrentStreak    int     `json:"current_streak"`
	LongestStreak    int     `json:"longest_streak"`
	TotalCompletions int     `json:"total_completions"`
	CompletionRate   float64 `json:"completion_rate"`
}

// Overview aggregates across all habits.
type Overview struct {
	TotalHabits    int `json:"total_habits"`
	CompletedToday int `json:"completed_today"`
	BestStreak     int `json:"best_streak"`
}

// HistoryDay is one cell of a habit's recent completion strip.
type HistoryDay struct {
	Date      string `json:"date"`
	Completed bool   `json:"completed"`
}

// TrackerService owns the habit collection. The collection itself is not
// safe for concurrent use, so every operation runs under the service mutex;
// each mutation persists the whole snapshot before returning.
type TrackerService struct {
	mu        sync.Mutex
	manager   *model.HabitManager
	store     storage.Store
	backend   string
	publisher *pkgmq.Publisher
	breaker   *circuitbreaker.CircuitBreaker
	logger    *zap.Logger
}

// NewTrackerService builds the service. publisher may be nil, in which case
// no events are emitted.
func NewTrackerService(store storage.Store, backend string, publisher *pkgmq.Publisher, logger *zap.Logger) *TrackerService {
	return &TrackerService{
		manager:   model.NewHabitManager(),
		store:     store,
		backend:   backend,
		publisher: publisher,
		breaker:   circuitbreaker.NewCircuitBreaker(circuitbreaker.DefaultConfig()),
		logger:    logger,
	}
}

// Hydrate loads the persisted snapshot into the collection. A snapshot the
// collection rejects is logged and replaced by the empty default; only
// backend failures propagate.
func (s *TrackerService) Hydrate(ctx context.Context) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.manager.Restore(snap); err != nil {
		s.logger.Warn("Persisted snapshot rejected, starting empty", zap.Error(err))
	}
	metrics.SetHabitsTracked(s.manager.Len())
	s.logger.Info("Habit collection loaded", zap.Int("habits", s.manager.Len()))
	return nil
}

func (s *TrackerService) CreateHabit(ctx context.Context, name, description string) (HabitView, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return HabitView{}, ErrNameRequired
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h := s.manager.Add(name, description)
	if err := s.persist(ctx); err != nil {
		return HabitView{}, err
	}

	metrics.IncrementHabitOperation("created")
	metrics.SetHabitsTracked(s.manager.Len())
	s.publish(mq.RoutingKeyHabitCreated, mq.HabitCreatedPayload{
		HabitID:     h.ID,
		Name:        h.Name,
		CreatedDate: h.CreatedDate.Format(model.DateLayout),
	})
	logger.WithTrace(ctx, s.logger).Info("Habit created",
		zap.String("habit_id", h.ID),
		zap.String("name", h.Name),
	)
	return viewOf(h), nil
}

func (s *TrackerService) UpdateHabit(ctx context.Context, id string, name, description *string) (HabitView, error) {
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return HabitView{}, ErrNameRequired
		}
		name = &trimmed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.manager.Update(id, name, description) {
		return HabitView{}, ErrHabitNotFound
	}
	h, _ := s.manager.Get(id)
	if err := s.persist(ctx); err != nil {
		return HabitView{}, err
	}

	metrics.IncrementHabitOperation("updated")
	s.publish(mq.RoutingKeyHabitUpdated, mq.HabitUpdatedPayload{HabitID: h.ID, Name: h.Name})
	return viewOf(h), nil
}

func (s *TrackerService) DeleteHabit(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.manager.Get(id)
	if !ok {
		return ErrHabitNotFound
	}
	name := h.Name
	s.manager.Remove(id)
	if err := s.persist(ctx); err != nil {
		return err
	}

	metrics.IncrementHabitOperation("deleted")
	metrics.SetHabitsTracked(s.manager.Len())
	s.publish(mq.RoutingKeyHabitDeleted, mq.HabitDeletedPayload{HabitID: id, Name: name})
	logger.WithTrace(ctx, s.logger).Info("Habit deleted",
		zap.String("habit_id", id),
		zap.String("name", name),
	)
	return nil
}

// CheckIn marks a habit complete for the given date (today when empty).
func (s *TrackerService) CheckIn(ctx context.Context, id, date string) (HabitView, error) {
	day, err := resolveDate(date)
	if err != nil {
		return HabitView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.manager.Get(id)
	if !ok {
		return HabitView{}, ErrHabitNotFound
	}
	h.MarkCompleted(day)
	if err := s.persist(ctx); err != nil {
		return HabitView{}, err
	}

	metrics.IncrementCheckIn("checkin")
	s.publish(mq.RoutingKeyHabitCheckIn, mq.HabitCheckInPayload{
		HabitID:       h.ID,
		Name:          h.Name,
		Date:          day.Format(model.DateLayout),
		CurrentStreak: h.CurrentStreak(),
	})
	return viewOf(h), nil
}

// UndoCheckIn removes a completion for the given date (today when empty).
func (s *TrackerService) UndoCheckIn(ctx context.Context, id, date string) (HabitView, error) {
	day, err := resolveDate(date)
	if err != nil {
		return HabitView{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.manager.Get(id)
	if !ok {
		return HabitView{}, ErrHabitNotFound
	}
	h.UnmarkCompleted(day)
	if err := s.persist(ctx); err != nil {
		return HabitView{}, err
	}

	metrics.IncrementCheckIn("undo")
	s.publish(mq.RoutingKeyHabitCheckInUndone, mq.HabitCheckInPayload{
		HabitID:       h.ID,
		Name:          h.Name,
		Date:          day.Format(model.DateLayout),
		CurrentStreak: h.CurrentStreak(),
	})
	return viewOf(h), nil
}

func (s *TrackerService) GetHabit(id string) (HabitView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.manager.Get(id)
	if !ok {
		return HabitView{}, ErrHabitNotFound
	}
	return viewOf(h), nil
}

func (s *TrackerService) ListHabits() []HabitView {
	s.mu.Lock()
	defer s.mu.Unlock()

	habits := s.manager.ListAll()
	views := make([]HabitView, 0, len(habits))
	for _, h := range habits {
		views = append(views, viewOf(h))
	}
	return views
}

func (s *TrackerService) GetStats(id string) (HabitStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.manager.Get(id)
	if !ok {
		return HabitStats{}, ErrHabitNotFound
	}
	return HabitStats{
		CurrentStreak:    h.CurrentStreak(),
		LongestStreak:    h.LongestStreak(),
		TotalCompletions: h.TotalCompletions(),
		CompletionRate:   h.CompletionRate(),
	}, nil
}

// GetOverview aggregates the dashboard numbers across all habits.
func (s *TrackerService) GetOverview() Overview {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out Overview
	for _, h := range s.manager.ListAll() {
		out.TotalHabits++
		if h.IsCompletedToday() {
			out.CompletedToday++
		}
		if streak := h.CurrentStreak(); streak > out.BestStreak {
			out.BestStreak = streak
		}
	}
	return out
}

// History returns the habit's completion strip for the last days calendar
// days, oldest first. days out of range falls back to 7.
func (s *TrackerService) History(id string, days int) ([]HistoryDay, error) {
	if days < 1 || days > 365 {
		days = 7
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.manager.Get(id)
	if !ok {
		return nil, ErrHabitNotFound
	}

	start := model.Today().AddDate(0, 0, -(days - 1))
	strip := make([]HistoryDay, 0, days)
	for i := 0; i < days; i++ {
		d := start.AddDate(0, 0, i)
		strip = append(strip, HistoryDay{
			Date:      d.Format(model.DateLayout),
			Completed: h.IsCompletedOn(d),
		})
	}
	return strip, nil
}

// Export returns the whole collection in its persisted form.
func (s *TrackerService) Export() model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.manager.Snapshot()
}

// Backup asks the store to copy the current snapshot aside.
func (s *TrackerService) Backup(ctx context.Context) error {
	return s.store.Backup(ctx)
}

// persist saves the whole collection; callers hold the mutex. The failed
// mutation stays in memory, the collection remains the source of truth for
// the session.
func (s *TrackerService) persist(ctx context.Context) error {
	start := time.Now()
	err := s.store.Save(ctx, s.manager.Snapshot())
	status := "success"
	if err != nil {
		status = "failed"
	}
	metrics.RecordSnapshotSave(s.backend, status, time.Since(start))
	if err != nil {
		logger.WithTrace(ctx, s.logger).Error("Failed to persist snapshot", zap.Error(err))
	}
	return err
}

// publish emits an event, best effort. A broker outage must never fail the
// habit operation itself, so errors are logged and counted; the breaker stops
// repeated publish attempts while the broker stays down.
func (s *TrackerService) publish(routingKey string, payload any) {
	if s.publisher == nil {
		return
	}
	err := s.breaker.Execute(func() error {
		return s.publisher.Publish(routingKey, payload)
	})
	if errors.Is(err, circuitbreaker.ErrCircuitBreakerOpen) {
		s.logger.Debug("Event publisher circuit open, dropping event",
			zap.String("routing_key", routingKey))
		metrics.IncrementEventPublished(routingKey, "dropped")
		return
	}
	if err != nil {
		s.logger.Error("Failed to publish event",
			zap.String("routing_key", routingKey),
			zap.Error(err),
		)
		metrics.IncrementEventPublished(routingKey, "failed")
		return
	}
	metrics.IncrementEventPublished(routingKey, "success")
}

func viewOf(h *model.Habit) HabitView {
	return HabitView{
		ID:               h.ID,
		Name:             h.Name,
		Description:      h.Description,
		CreatedDate:      h.CreatedDate.Format(model.DateLayout),
		CurrentStreak:    h.CurrentStreak(),
		CompletedToday:   h.IsCompletedToday(),
		TotalCompletions: h.TotalCompletions(),
	}
}

func resolveDate(date string) (time.Time, error) {
	if date == "" {
		return model.Today(), nil
	}
	d, err := model.ParseDate(date)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return d, nil
}
