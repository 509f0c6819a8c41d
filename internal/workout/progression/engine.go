// Package progression decides which sets and exercises are interactive, applies set
// edits and confirmations, and computes workout progress.
package progression

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/2beens/gymflow/internal/workout/session"
)

var (
	ErrIndexOutOfRange = errors.New("exercise or set index out of range")
	ErrNoSubstitute    = errors.New("exercise has no substitute")
	ErrSetLocked       = errors.New("set is locked")
	ErrSetNotReady     = errors.New("set needs both weight and reps")
	ErrInvalidValue    = errors.New("value must be a non-negative number")
	ErrInvalidField    = errors.New("unknown set field")
	ErrResting         = errors.New("rest in progress")
	ErrNotResting      = errors.New("no rest in progress")
	ErrWorkoutComplete = errors.New("workout already completed")
)

type Variant string

const (
	VariantMain       Variant = "main"
	VariantSubstitute Variant = "substitute"
)

func ParseVariant(s string) (Variant, error) {
	switch Variant(s) {
	case "", VariantMain:
		return VariantMain, nil
	case VariantSubstitute:
		return VariantSubstitute, nil
	}
	return "", fmt.Errorf("unknown variant: %q", s)
}

type Field string

const (
	FieldWeight Field = "weight"
	FieldReps   Field = "reps"
)

// TimerState replaces the rest dialog / exercise timer pause flag pair.
// Resting always implies the exercise countdown is halted.
type TimerState string

const (
	TimerRunning  TimerState = "running"
	TimerResting  TimerState = "resting"
	TimerPaused   TimerState = "paused"
	TimerComplete TimerState = "complete"
)

// Engine tracks set progression over a copy of the workout logs.
// It is not safe for concurrent use.
type Engine struct {
	logs        []session.ExerciseLog
	activeIndex int
	timerState  TimerState
}

func NewEngine(logs []session.ExerciseLog) *Engine {
	e := &Engine{
		logs:       session.CloneLogs(logs),
		timerState: TimerRunning,
	}
	for e.activeIndex < len(e.logs)-1 && e.ExerciseCompleted(e.activeIndex) {
		e.activeIndex++
	}
	if e.AllConfirmed() {
		e.timerState = TimerComplete
	}
	return e
}

// Logs returns a copy of the current logs.
func (e *Engine) Logs() []session.ExerciseLog {
	return session.CloneLogs(e.logs)
}

func (e *Engine) ActiveIndex() int {
	return e.activeIndex
}

func (e *Engine) TimerState() TimerState {
	return e.timerState
}

func (e *Engine) ExerciseCount() int {
	return len(e.logs)
}

func (e *Engine) sets(exercise int, variant Variant) ([]session.SetLog, error) {
	if exercise < 0 || exercise >= len(e.logs) {
		return nil, ErrIndexOutOfRange
	}
	if variant == VariantSubstitute {
		if e.logs[exercise].Substitute == nil {
			return nil, ErrNoSubstitute
		}
		return e.logs[exercise].Substitute.Sets, nil
	}
	return e.logs[exercise].Sets, nil
}

func confirmedCount(sets []session.SetLog) int {
	n := 0
	for _, s := range sets {
		if s.Confirmed {
			n++
		}
	}
	return n
}

func allConfirmed(sets []session.SetLog) bool {
	return len(sets) > 0 && confirmedCount(sets) == len(sets)
}

// ExerciseCompleted reports whether every set of the main or of the substitute track is confirmed.
// Exercises without sets count as completed.
func (e *Engine) ExerciseCompleted(exercise int) bool {
	if exercise < 0 || exercise >= len(e.logs) {
		return false
	}
	ex := e.logs[exercise]
	if len(ex.Sets) == 0 {
		return true
	}
	if allConfirmed(ex.Sets) {
		return true
	}
	return ex.Substitute != nil && allConfirmed(ex.Substitute.Sets)
}

func (e *Engine) AllConfirmed() bool {
	for i := range e.logs {
		if !e.ExerciseCompleted(i) {
			return false
		}
	}
	return true
}

// CurrentSetIndex is the first unconfirmed set of the track, -1 when all are confirmed.
func (e *Engine) CurrentSetIndex(exercise int, variant Variant) int {
	sets, err := e.sets(exercise, variant)
	if err != nil {
		return -1
	}
	for i, s := range sets {
		if !s.Confirmed {
			return i
		}
	}
	return -1
}

// IsSetInteractive reports whether the set accepts edits and confirmation: it has to be
// the current set of the active, not yet completed exercise.
func (e *Engine) IsSetInteractive(exercise, set int, variant Variant) bool {
	if exercise != e.activeIndex || e.ExerciseCompleted(exercise) {
		return false
	}
	if e.timerState == TimerComplete {
		return false
	}
	return e.CurrentSetIndex(exercise, variant) == set
}

// OnLogChange sets weight or reps of a set. Logs are replaced, never mutated in place.
func (e *Engine) OnLogChange(exercise, set int, field Field, value string, variant Variant) ([]session.ExerciseLog, error) {
	sets, err := e.sets(exercise, variant)
	if err != nil {
		return nil, err
	}
	if set < 0 || set >= len(sets) {
		return nil, ErrIndexOutOfRange
	}
	if field != FieldWeight && field != FieldReps {
		return nil, ErrInvalidField
	}
	if value != "" {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
			return nil, ErrInvalidValue
		}
	}
	if !e.IsSetInteractive(exercise, set, variant) {
		return nil, ErrSetLocked
	}

	logs := session.CloneLogs(e.logs)
	target := &logs[exercise].Sets[set]
	if variant == VariantSubstitute {
		target = &logs[exercise].Substitute.Sets[set]
	}
	if field == FieldWeight {
		target.Weight = value
	} else {
		target.Reps = value
	}

	e.logs = logs
	return e.Logs(), nil
}

type CompleteResult struct {
	Logs              []session.ExerciseLog
	ExerciseCompleted bool
	WorkoutCompleted  bool
}

// OnSetComplete confirms the current set. Unless it finishes the whole workout, the
// engine moves into the resting state.
func (e *Engine) OnSetComplete(exercise, set int, variant Variant) (*CompleteResult, error) {
	if e.timerState == TimerComplete {
		return nil, ErrWorkoutComplete
	}
	if e.timerState == TimerResting {
		return nil, ErrResting
	}
	sets, err := e.sets(exercise, variant)
	if err != nil {
		return nil, err
	}
	if set < 0 || set >= len(sets) {
		return nil, ErrIndexOutOfRange
	}
	if !e.IsSetInteractive(exercise, set, variant) {
		return nil, ErrSetLocked
	}
	if !sets[set].Filled() {
		return nil, ErrSetNotReady
	}

	logs := session.CloneLogs(e.logs)
	if variant == VariantSubstitute {
		logs[exercise].Substitute.Sets[set].Confirmed = true
	} else {
		logs[exercise].Sets[set].Confirmed = true
	}
	e.logs = logs

	res := &CompleteResult{
		ExerciseCompleted: e.ExerciseCompleted(exercise),
		WorkoutCompleted:  e.AllConfirmed(),
	}
	if res.WorkoutCompleted {
		e.timerState = TimerComplete
	} else {
		e.timerState = TimerResting
	}
	res.Logs = e.Logs()

	return res, nil
}

// FinishRest leaves the resting state. When the active exercise is completed the
// active index moves to the next exercise.
func (e *Engine) FinishRest() (advanced bool, err error) {
	if e.timerState != TimerResting {
		return false, ErrNotResting
	}
	e.timerState = TimerRunning
	if e.ExerciseCompleted(e.activeIndex) && e.activeIndex < len(e.logs)-1 {
		e.activeIndex++
		return true, nil
	}
	return false, nil
}

func (e *Engine) Pause() error {
	switch e.timerState {
	case TimerRunning:
		e.timerState = TimerPaused
		return nil
	case TimerPaused:
		return nil
	case TimerResting:
		return ErrResting
	default:
		return ErrWorkoutComplete
	}
}

func (e *Engine) Resume() error {
	switch e.timerState {
	case TimerPaused:
		e.timerState = TimerRunning
		return nil
	case TimerRunning:
		return nil
	case TimerResting:
		return ErrResting
	default:
		return ErrWorkoutComplete
	}
}

// exerciseCounts returns the confirmed and total set count of an exercise. With a
// substitute, the track with more confirmed sets counts.
func exerciseCounts(ex session.ExerciseLog) (int, int) {
	total := len(ex.Sets)
	confirmed := confirmedCount(ex.Sets)
	if ex.Substitute != nil {
		if allConfirmed(ex.Substitute.Sets) {
			return total, total
		}
		if subConfirmed := confirmedCount(ex.Substitute.Sets); subConfirmed > confirmed {
			confirmed = subConfirmed
		}
	}
	return min(confirmed, total), total
}

func percent(confirmed, total int, complete bool) int {
	if total == 0 {
		return 0
	}
	p := int(math.Round(100 * float64(confirmed) / float64(total)))
	if p >= 100 && !complete {
		return 99
	}
	return p
}

// Progress is the overall confirmed-set percentage, 100 only when every exercise is completed.
func (e *Engine) Progress() int {
	confirmed, total := 0, 0
	for _, ex := range e.logs {
		c, t := exerciseCounts(ex)
		confirmed += c
		total += t
	}
	return percent(confirmed, total, e.AllConfirmed())
}

func (e *Engine) ExerciseProgress(exercise int) int {
	if exercise < 0 || exercise >= len(e.logs) {
		return 0
	}
	c, t := exerciseCounts(e.logs[exercise])
	return percent(c, t, e.ExerciseCompleted(exercise))
}
