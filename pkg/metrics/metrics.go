package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency (seconds)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Snapshot persistence latency (seconds)
	SnapshotSaveDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "snapshot_save_duration_seconds",
			Help:    "Snapshot save duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"backend", "status"},
	)

	// Check-in counts
	CheckInCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_checkin_count",
			Help: "Total number of habit check-ins",
		},
		[]string{"action"}, // action: checkin, undo
	)

	// Habit lifecycle counts
	HabitOperationCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "habit_operation_count",
			Help: "Total number of habit lifecycle operations",
		},
		[]string{"operation"}, // operation: created, updated, deleted
	)

	// Habits currently tracked
	HabitsTracked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "habits_tracked",
			Help: "Number of habits currently tracked",
		},
	)

	// Event publish counts
	EventPublishCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "event_publish_count",
			Help: "Total number of events published to the broker",
		},
		[]string{"routing_key", "status"}, // status: success, failed, dropped
	)

	// Slow database queries
	SlowQueryCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "db_slow_query_count",
			Help: "Total number of database queries over the slow threshold",
		},
	)
)

// RecordHTTPRequestDuration records HTTP request latency.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordSnapshotSave records one snapshot save attempt.
func RecordSnapshotSave(backend, status string, duration time.Duration) {
	SnapshotSaveDuration.WithLabelValues(backend, status).Observe(duration.Seconds())
}

// IncrementCheckIn counts a check-in or its undo.
func IncrementCheckIn(action string) {
	CheckInCount.WithLabelValues(action).Inc()
}

// IncrementHabitOperation counts a habit create/update/delete.
func IncrementHabitOperation(operation string) {
	HabitOperationCount.WithLabelValues(operation).Inc()
}

// SetHabitsTracked updates the tracked-habit gauge.
func SetHabitsTracked(n int) {
	HabitsTracked.Set(float64(n))
}

// IncrementEventPublished counts an event publish attempt.
func IncrementEventPublished(routingKey, status string) {
	EventPublishCount.WithLabelValues(routingKey, status).Inc()
}

// IncrementSlowQuery counts a query over the slow threshold.
func IncrementSlowQuery() {
	SlowQueryCount.Inc()
}
