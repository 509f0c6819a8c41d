package analytics

import "time"

type EventType string

const (
	EventSessionStarted   EventType = "session_started"
	EventCardioCompleted  EventType = "cardio_completed"
	EventWarmupCompleted  EventType = "warmup_completed"
	EventSetConfirmed     EventType = "set_confirmed"
	EventWorkoutCompleted EventType = "workout_completed"
)

type Event struct {
	ID         int64          `json:"id"`
	Username   string         `json:"username"`
	SessionID  int            `json:"session_id"`
	Type       EventType      `json:"event"`
	Phase      string         `json:"phase"`
	Data       map[string]any `json:"data"`
	RecordedAt time.Time      `json:"recorded_at"`
}

type DayCount struct {
	Day   string `json:"day"`
	Count int    `json:"count"`
}

// Summary aggregates usage in [From, To).
type Summary struct {
	From           time.Time         `json:"from"`
	To             time.Time         `json:"to"`
	EventTotals    map[EventType]int `json:"event_totals"`
	DistinctUsers  int               `json:"distinct_users"`
	SessionsPerDay []DayCount        `json:"sessions_per_day"`
	// CompletionRate is completed workouts over started sessions, 0 without sessions.
	CompletionRate float64 `json:"completion_rate"`
}
