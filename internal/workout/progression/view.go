package progression

import "github.com/2beens/gymflow/internal/workout/session"

type SetView struct {
	session.SetLog
	Interactive bool `json:"interactive"`
	Locked      bool `json:"locked"`
}

// ExerciseView is what the single exercise page renders. Exercises other than the
// active one are read-only, and only browsable once completed.
type ExerciseView struct {
	Index          int        `json:"index"`
	Name           string     `json:"name"`
	Tier           string     `json:"tier"`
	VideoURL       string     `json:"videoUrl"`
	Active         bool       `json:"active"`
	Completed      bool       `json:"completed"`
	Browsable      bool       `json:"browsable"`
	Progress       int        `json:"progress"`
	Sets           []SetView  `json:"sets"`
	Substitute     *SubView   `json:"substitute,omitempty"`
	TimerState     TimerState `json:"timer_state"`
	IsLastExercise bool       `json:"is_last_exercise"`
}

type SubView struct {
	Name     string    `json:"name"`
	Tier     string    `json:"tier"`
	VideoURL string    `json:"videoUrl"`
	Sets     []SetView `json:"sets"`
}

func (e *Engine) ExerciseView(exercise int) (*ExerciseView, error) {
	if exercise < 0 || exercise >= len(e.logs) {
		return nil, ErrIndexOutOfRange
	}

	ex := e.logs[exercise]
	completed := e.ExerciseCompleted(exercise)
	view := &ExerciseView{
		Index:          exercise,
		Name:           ex.Name,
		Tier:           ex.Tier,
		VideoURL:       ex.VideoURL,
		Active:         exercise == e.activeIndex,
		Completed:      completed,
		Browsable:      exercise == e.activeIndex || completed,
		Progress:       e.ExerciseProgress(exercise),
		Sets:           e.setViews(exercise, ex.Sets, VariantMain),
		TimerState:     e.timerState,
		IsLastExercise: exercise == len(e.logs)-1,
	}
	if ex.Substitute != nil {
		view.Substitute = &SubView{
			Name:     ex.Substitute.Name,
			Tier:     ex.Substitute.Tier,
			VideoURL: ex.Substitute.VideoURL,
			Sets:     e.setViews(exercise, ex.Substitute.Sets, VariantSubstitute),
		}
	}

	return view, nil
}

func (e *Engine) setViews(exercise int, sets []session.SetLog, variant Variant) []SetView {
	views := make([]SetView, len(sets))
	for i, s := range sets {
		interactive := e.IsSetInteractive(exercise, i, variant)
		views[i] = SetView{
			SetLog:      s,
			Interactive: interactive,
			Locked:      !interactive,
		}
	}
	return views
}

// Overview summarizes every exercise for the workout overview page.
type Overview struct {
	ActiveIndex int              `json:"active_index"`
	Progress    int              `json:"progress"`
	TimerState  TimerState       `json:"timer_state"`
	Exercises   []ExerciseStatus `json:"exercises"`
}

type ExerciseStatus struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	Progress  int    `json:"progress"`
}

func (e *Engine) Overview() Overview {
	o := Overview{
		ActiveIndex: e.activeIndex,
		Progress:    e.Progress(),
		TimerState:  e.timerState,
		Exercises:   make([]ExerciseStatus, len(e.logs)),
	}
	for i, ex := range e.logs {
		o.Exercises[i] = ExerciseStatus{
			Name:      ex.Name,
			Completed: e.ExerciseCompleted(i),
			Progress:  e.ExerciseProgress(i),
		}
	}
	return o
}
