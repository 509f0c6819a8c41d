// Package catalog holds the immutable default workout plan and the warm-up video catalog.
// Every progression view reads from here; callers always get copies.
package catalog

import (
	"time"

	"github.com/2beens/gymflow/internal/workout/session"
)

const (
	WarmupTimerDuration = 25 * time.Minute
	// ExerciseTimerDuration is the countdown of a single main exercise.
	ExerciseTimerDuration = 20 * time.Minute
	// ExtendedExerciseTimerDuration is used by exercises with long rest-pause blocks.
	ExtendedExerciseTimerDuration = 45 * time.Minute
)

func set(id int, t session.SetType, instructions string) session.SetLog {
	return session.SetLog{ID: id, Type: t, Instructions: instructions}
}

func standardSets(firstID int) []session.SetLog {
	return []session.SetLog{
		set(firstID, session.SetTypeWarmUp, "12-15 reps with ~50% of your top set weight. Focus on form."),
		set(firstID+1, session.SetTypePrimer, "6-8 reps with ~75% of your top set weight, 3-4 RIR."),
		set(firstID+2, session.SetTypeTop, "6-10 reps at 1-2 RIR. Heaviest set of the day."),
		set(firstID+3, session.SetTypeBackOff, "Drop weight ~20%, go to failure (0 RIR)."),
	}
}

var defaultPlan = []session.ExerciseLog{
	{
		Name:     "Incline Dumbbell Press",
		Tier:     "S+ Tier",
		VideoURL: "https://www.youtube.com/embed/8iPEnn-ltC8",
		Sets:     standardSets(1),
		Substitute: &session.Substitute{
			Name:     "Incline Machine Press",
			Tier:     "S Tier",
			VideoURL: "https://www.youtube.com/embed/ig0Nf6K6hFA",
			Sets:     standardSets(101),
		},
	},
	{
		Name:     "Lat Pulldown",
		Tier:     "S Tier",
		VideoURL: "https://www.youtube.com/embed/CAwf7n6Luuc",
		Sets:     standardSets(5),
		Substitute: &session.Substitute{
			Name:     "Assisted Pull-Up",
			Tier:     "A Tier",
			VideoURL: "https://www.youtube.com/embed/wFRkAhzRvR0",
			Sets:     standardSets(105),
		},
	},
	{
		Name:     "Hack Squat",
		Tier:     "S+ Tier",
		VideoURL: "https://www.youtube.com/embed/0tn5K9NlCfo",
		Sets:     standardSets(9),
		Substitute: &session.Substitute{
			Name:     "Leg Press",
			Tier:     "A Tier",
			VideoURL: "https://www.youtube.com/embed/IZxyjW7MPJQ",
			Sets:     standardSets(109),
		},
	},
	{
		Name:     "Romanian Deadlift",
		Tier:     "S Tier",
		VideoURL: "https://www.youtube.com/embed/JCXUYuzwNrM",
		Sets:     standardSets(13),
	},
	{
		Name:     "Cable Lateral Raise",
		Tier:     "S Tier",
		VideoURL: "https://www.youtube.com/embed/PPrzBWZDOhA",
		Sets:     standardSets(17),
		Substitute: &session.Substitute{
			Name:     "Dumbbell Lateral Raise",
			Tier:     "A Tier",
			VideoURL: "https://www.youtube.com/embed/3VcKaXpzqRo",
			Sets:     standardSets(117),
		},
	},
	{
		Name:     "Bayesian Cable Curl",
		Tier:     "S Tier",
		VideoURL: "https://www.youtube.com/embed/CWH5Kb6B3Vs",
		Sets:     standardSets(21),
	},
}

// DefaultLogs returns a fresh copy of the default workout plan with no logged values.
func DefaultLogs() []session.ExerciseLog {
	return session.CloneLogs(defaultPlan)
}

// ExerciseTimerFor returns the countdown used for the main exercise at index.
func ExerciseTimerFor(index int) time.Duration {
	if index < 0 || index >= len(defaultPlan) {
		return ExerciseTimerDuration
	}
	// compound lower body lifts get the long block
	if defaultPlan[index].Name == "Hack Squat" || defaultPlan[index].Name == "Romanian Deadlift" {
		return ExtendedExerciseTimerDuration
	}
	return ExerciseTimerDuration
}

// SyncItem is a plan exercise as it should appear in the exercise index.
type SyncItem struct {
	Name         string
	Category     string
	Tier         string
	VideoURL     string
	Instructions string
}

// SyncItems lists the default plan exercises in plan order (substitutes follow their main
// exercise), then the warmup videos.
func SyncItems() []SyncItem {
	var items []SyncItem
	for _, ex := range defaultPlan {
		items = append(items, SyncItem{
			Name:         ex.Name,
			Category:     "workout",
			Tier:         ex.Tier,
			VideoURL:     ex.VideoURL,
			Instructions: setInstructions(ex.Sets),
		})
		if ex.Substitute != nil {
			items = append(items, SyncItem{
				Name:         ex.Substitute.Name,
				Category:     "substitute",
				Tier:         ex.Substitute.Tier,
				VideoURL:     ex.Substitute.VideoURL,
				Instructions: setInstructions(ex.Substitute.Sets),
			})
		}
	}
	for _, v := range WarmupVideos() {
		items = append(items, SyncItem{
			Name:         v.Title,
			Category:     "warmup",
			VideoURL:     v.VideoURL,
			Instructions: v.Instructions,
		})
	}
	return items
}

func setInstructions(sets []session.SetLog) string {
	var s string
	for i, set := range sets {
		if i > 0 {
			s += "\n"
		}
		s += string(set.Type) + ": " + set.Instructions
	}
	return s
}
