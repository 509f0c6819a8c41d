package session

import (
	"slices"

	"github.com/2beens/gymflow/internal/workout/phase"

	log "github.com/sirupsen/logrus"
)

// Patch is a partial session update. Nil fields are left unchanged.
type Patch struct {
	CurrentPhase             *phase.Phase  `json:"current_phase,omitempty"`
	CardioCompleted          *bool         `json:"cardio_completed,omitempty"`
	CardioTime               *string       `json:"cardio_time,omitempty"`
	CardioCalories           *string       `json:"cardio_calories,omitempty"`
	WarmupCompleted          *bool         `json:"warmup_completed,omitempty"`
	WarmupExercisesCompleted *bool         `json:"warmup_exercises_completed,omitempty"`
	WarmupMood               *Mood         `json:"warmup_mood,omitempty"`
	WarmupWatchedVideos      []string      `json:"warmup_watched_videos,omitempty"`
	Logs                     []ExerciseLog `json:"logs,omitempty"`
}

func (p Patch) IsEmpty() bool {
	return p.CurrentPhase == nil &&
		p.CardioCompleted == nil &&
		p.CardioTime == nil &&
		p.CardioCalories == nil &&
		p.WarmupCompleted == nil &&
		p.WarmupExercisesCompleted == nil &&
		p.WarmupMood == nil &&
		p.WarmupWatchedVideos == nil &&
		p.Logs == nil
}

// Merge folds next into p; fields set in next win.
func (p Patch) Merge(next Patch) Patch {
	merged := p
	if next.CurrentPhase != nil {
		merged.CurrentPhase = next.CurrentPhase
	}
	if next.CardioCompleted != nil {
		merged.CardioCompleted = next.CardioCompleted
	}
	if next.CardioTime != nil {
		merged.CardioTime = next.CardioTime
	}
	if next.CardioCalories != nil {
		merged.CardioCalories = next.CardioCalories
	}
	if next.WarmupCompleted != nil {
		merged.WarmupCompleted = next.WarmupCompleted
	}
	if next.WarmupExercisesCompleted != nil {
		merged.WarmupExercisesCompleted = next.WarmupExercisesCompleted
	}
	if next.WarmupMood != nil {
		merged.WarmupMood = next.WarmupMood
	}
	if next.WarmupWatchedVideos != nil {
		merged.WarmupWatchedVideos = next.WarmupWatchedVideos
	}
	if next.Logs != nil {
		merged.Logs = next.Logs
	}
	return merged
}

// Apply returns a copy of s with the patch merged in.
// The phase never moves backwards and completion flags never go from true to false.
func Apply(s WorkoutSession, p Patch) WorkoutSession {
	next := s.Clone()

	if p.CurrentPhase != nil {
		switch {
		case !p.CurrentPhase.Valid():
			log.Warnf("session %s: ignoring unknown phase %q", s.Key(), *p.CurrentPhase)
		case p.CurrentPhase.Before(s.CurrentPhase):
			log.Warnf("session %s: ignoring phase regress %s -> %s", s.Key(), s.CurrentPhase, *p.CurrentPhase)
		default:
			next.CurrentPhase = *p.CurrentPhase
		}
	}

	next.CardioCompleted = forwardFlag(s.Key(), "cardio_completed", s.CardioCompleted, p.CardioCompleted)
	next.WarmupCompleted = forwardFlag(s.Key(), "warmup_completed", s.WarmupCompleted, p.WarmupCompleted)
	next.WarmupExercisesCompleted = forwardFlag(s.Key(), "warmup_exercises_completed", s.WarmupExercisesCompleted, p.WarmupExercisesCompleted)

	if p.CardioTime != nil {
		next.CardioTime = *p.CardioTime
	}
	if p.CardioCalories != nil {
		next.CardioCalories = *p.CardioCalories
	}
	if p.WarmupMood != nil {
		next.WarmupMood = *p.WarmupMood
	}
	if p.WarmupWatchedVideos != nil {
		next.WarmupWatchedVideos = slices.Clone(p.WarmupWatchedVideos)
	}
	if p.Logs != nil {
		next.WorkoutData.Logs = CloneLogs(p.Logs)
	}

	return next
}

func forwardFlag(key, name string, current bool, patched *bool) bool {
	if patched == nil {
		return current
	}
	if current && !*patched {
		log.Warnf("session %s: ignoring reset of %s", key, name)
		return true
	}
	return *patched
}

func Ptr[T any](v T) *T {
	return &v
}
