package phase

import "strings"

const (
	RouteHome           = "/"
	RouteAuth           = "/auth"
	RouteCardio         = "/cardio"
	RouteWarmup         = "/warmup"
	RouteWorkout        = "/workout"
	RouteExercisePrefix = "/exercise/"
	RouteExerciseIndex  = "/exercise-index"
	RoutePostWorkout    = "/post-workout"
	RouteAdmin          = "/admin"
)

// State is the part of a workout session the gate looks at.
type State struct {
	CurrentPhase    Phase
	CardioCompleted bool
	WarmupCompleted bool
}

type Decision struct {
	Allowed bool `json:"allowed"`
	// Redirect is set only when the path is not allowed.
	Redirect string `json:"redirect,omitempty"`
	// Home is the route the session currently belongs to.
	Home string `json:"home"`
}

// Home returns the only legal phase route for the session state.
func Home(s State) string {
	switch {
	case !s.CardioCompleted:
		return RouteCardio
	case !s.WarmupCompleted:
		return RouteWarmup
	case s.CurrentPhase == Completed:
		return RoutePostWorkout
	default:
		return RouteWorkout
	}
}

// Decide tells whether path is legal for the session state, and where to go if not.
// Paths not owned by any phase are always allowed.
func Decide(s State, path string) Decision {
	home := Home(s)
	d := Decision{Allowed: true, Home: home}
	if !IsPhaseRoute(path) {
		return d
	}

	if home == RouteWorkout {
		d.Allowed = path == RouteWorkout || strings.HasPrefix(path, RouteExercisePrefix)
	} else {
		d.Allowed = path == home
	}
	if !d.Allowed {
		d.Redirect = home
	}
	return d
}

func IsPhaseRoute(path string) bool {
	switch path {
	case RouteCardio, RouteWarmup, RouteWorkout, RoutePostWorkout:
		return true
	}
	return strings.HasPrefix(path, RouteExercisePrefix)
}
