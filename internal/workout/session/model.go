package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/2beens/gymflow/internal/workout/phase"
)

// DateLayout is the civil date format of session_date.
const DateLayout = "2006-01-02"

var ErrSessionNotFound = errors.New("workout session not found")

type SetType string

const (
	SetTypeWarmUp  SetType = "Warm Up Set"
	SetTypePrimer  SetType = "Medium/Primer Set"
	SetTypeTop     SetType = "Heavy/Top Set"
	SetTypeBackOff SetType = "Failure/Back-Off Set"
)

type Mood string

const (
	MoodGreat    Mood = "great"
	MoodGood     Mood = "good"
	MoodOkay     Mood = "okay"
	MoodTired    Mood = "tired"
	MoodSore     Mood = "sore"
	MoodStressed Mood = "stressed"
)

var moods = []Mood{MoodGreat, MoodGood, MoodOkay, MoodTired, MoodSore, MoodStressed}

func (m Mood) Valid() bool {
	return slices.Contains(moods, m)
}

// SetLog is a single prescribed set plus what the user logged for it.
// Weight and Reps are numeric strings, empty means unset.
type SetLog struct {
	ID           int     `json:"id"`
	Type         SetType `json:"type"`
	Instructions string  `json:"instructions"`
	Weight       string  `json:"weight"`
	Reps         string  `json:"reps"`
	Confirmed    bool    `json:"confirmed"`
}

// Filled reports whether both weight and reps are entered.
func (s SetLog) Filled() bool {
	return s.Weight != "" && s.Reps != ""
}

type Substitute struct {
	Name     string   `json:"name"`
	Tier     string   `json:"tier"`
	VideoURL string   `json:"videoUrl"`
	Sets     []SetLog `json:"sets"`
}

type ExerciseLog struct {
	Name       string      `json:"name"`
	Tier       string      `json:"tier"`
	VideoURL   string      `json:"videoUrl"`
	Sets       []SetLog    `json:"sets"`
	Substitute *Substitute `json:"substitute,omitempty"`
}

func (e ExerciseLog) Clone() ExerciseLog {
	c := e
	c.Sets = slices.Clone(e.Sets)
	if c.Sets == nil {
		c.Sets = []SetLog{}
	}
	if e.Substitute != nil {
		sub := *e.Substitute
		sub.Sets = slices.Clone(e.Substitute.Sets)
		if sub.Sets == nil {
			sub.Sets = []SetLog{}
		}
		c.Substitute = &sub
	}
	return c
}

func CloneLogs(logs []ExerciseLog) []ExerciseLog {
	cloned := make([]ExerciseLog, len(logs))
	for i, l := range logs {
		cloned[i] = l.Clone()
	}
	return cloned
}

// WorkoutData is the workout_data json column. Timers is always written empty.
type WorkoutData struct {
	Logs   []ExerciseLog  `json:"logs"`
	Timers map[string]any `json:"timers"`
}

type WorkoutSession struct {
	ID                       int         `json:"id"`
	Username                 string      `json:"username"`
	SessionDate              string      `json:"session_date"`
	CurrentPhase             phase.Phase `json:"current_phase"`
	CardioCompleted          bool        `json:"cardio_completed"`
	CardioTime               string      `json:"cardio_time"`
	CardioCalories           string      `json:"cardio_calories"`
	WarmupCompleted          bool        `json:"warmup_completed"`
	WarmupExercisesCompleted bool        `json:"warmup_exercises_completed"`
	WarmupMood               Mood        `json:"warmup_mood"`
	WarmupWatchedVideos      []string    `json:"warmup_watched_videos"`
	WorkoutData              WorkoutData `json:"workout_data"`
	CreatedAt                time.Time   `json:"created_at"`
	UpdatedAt                time.Time   `json:"updated_at"`
}

// New returns a fresh, not yet persisted session for the given user and day.
func New(username, sessionDate string) WorkoutSession {
	s := WorkoutSession{
		Username:     username,
		SessionDate:  sessionDate,
		CurrentPhase: phase.Cardio,
	}
	s.Normalize()
	return s
}

// Normalize replaces absent list/object fields with empty defaults.
func (s *WorkoutSession) Normalize() {
	if !s.CurrentPhase.Valid() {
		s.CurrentPhase = phase.Cardio
	}
	if s.WarmupWatchedVideos == nil {
		s.WarmupWatchedVideos = []string{}
	}
	if s.WorkoutData.Logs == nil {
		s.WorkoutData.Logs = []ExerciseLog{}
	}
	s.WorkoutData.Timers = map[string]any{}
	for i := range s.WorkoutData.Logs {
		if s.WorkoutData.Logs[i].Sets == nil {
			s.WorkoutData.Logs[i].Sets = []SetLog{}
		}
		if sub := s.WorkoutData.Logs[i].Substitute; sub != nil && sub.Sets == nil {
			sub.Sets = []SetLog{}
		}
	}
}

// Clone returns a deep copy, so callers never share logs with the store.
func (s WorkoutSession) Clone() WorkoutSession {
	c := s
	c.WarmupWatchedVideos = slices.Clone(s.WarmupWatchedVideos)
	if c.WarmupWatchedVideos == nil {
		c.WarmupWatchedVideos = []string{}
	}
	c.WorkoutData = WorkoutData{
		Logs:   CloneLogs(s.WorkoutData.Logs),
		Timers: map[string]any{},
	}
	return c
}

func (s WorkoutSession) GateState() phase.State {
	return phase.State{
		CurrentPhase:    s.CurrentPhase,
		CardioCompleted: s.CardioCompleted,
		WarmupCompleted: s.WarmupCompleted,
	}
}

func (s WorkoutSession) HasWatched(videoKey string) bool {
	return slices.Contains(s.WarmupWatchedVideos, videoKey)
}

// Key identifies the session in the write queue.
func (s WorkoutSession) Key() string {
	return Key(s.Username, s.SessionDate)
}

func Key(username, sessionDate string) string {
	return fmt.Sprintf("%s|%s", username, sessionDate)
}

// DateIn returns the civil date of t in loc, formatted as session_date.
func DateIn(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// EncodeWorkoutData marshals logs into the workout_data column shape.
func EncodeWorkoutData(logs []ExerciseLog) ([]byte, error) {
	if logs == nil {
		logs = []ExerciseLog{}
	}
	return json.Marshal(WorkoutData{
		Logs:   logs,
		Timers: map[string]any{},
	})
}

// DecodeWorkoutData reads the workout_data column. A malformed document
// (bad json, logs not an array) is replaced by the logs from fallback.
func DecodeWorkoutData(raw []byte, fallback func() []ExerciseLog) (WorkoutData, bool) {
	repaired := func() (WorkoutData, bool) {
		var logs []ExerciseLog
		if fallback != nil {
			logs = fallback()
		}
		if logs == nil {
			logs = []ExerciseLog{}
		}
		return WorkoutData{Logs: logs, Timers: map[string]any{}}, true
	}

	if len(raw) == 0 {
		return WorkoutData{Logs: []ExerciseLog{}, Timers: map[string]any{}}, false
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(raw, &doc); err != nil {
		return repaired()
	}

	logsRaw, ok := doc["logs"]
	if !ok || string(logsRaw) == "null" {
		return WorkoutData{Logs: []ExerciseLog{}, Timers: map[string]any{}}, false
	}

	var logs []ExerciseLog
	if err := json.Unmarshal(logsRaw, &logs); err != nil {
		return repaired()
	}

	data := WorkoutData{Logs: logs, Timers: map[string]any{}}
	for i := range data.Logs {
		if data.Logs[i].Sets == nil {
			data.Logs[i].Sets = []SetLog{}
		}
	}
	return data, false
}
