package timer

import (
	"errors"
	"slices"
	"time"
)

var (
	ErrInvalidPreset       = errors.New("invalid rest duration")
	ErrRestAlreadySelected = errors.New("rest duration already selected")
	ErrRestNotStarted      = errors.New("rest not started")
)

var (
	// DialogPresets are offered by the rest dialog after a set.
	DialogPresets = []time.Duration{1 * time.Minute, 2 * time.Minute, 3 * time.Minute, 4 * time.Minute}
	WidgetPresets = []time.Duration{60 * time.Second, 90 * time.Second, 120 * time.Second, 180 * time.Second}
)

const ThirtySecondsLeft = 30 * time.Second

func ValidPreset(d time.Duration) bool {
	return slices.Contains(DialogPresets, d) || slices.Contains(WidgetPresets, d)
}

// RestTimer runs a single rest interval. It is either skipped up front ("feel good"),
// or counts down the selected preset until it completes or the user continues early.
type RestTimer struct {
	duration  time.Duration
	remaining time.Duration
	selected  bool
	running   bool
	completed bool
	skipped   bool

	thirtySecondsLeft bool
}

func NewRestTimer() *RestTimer {
	return &RestTimer{}
}

func (r *RestTimer) Select(d time.Duration) error {
	if r.selected || r.skipped {
		return ErrRestAlreadySelected
	}
	if !ValidPreset(d) {
		return ErrInvalidPreset
	}
	r.selected = true
	r.duration = d
	r.remaining = d
	r.running = true
	return nil
}

// FeelGood skips the rest entirely; only possible before a duration is selected.
func (r *RestTimer) FeelGood() error {
	if r.selected || r.skipped {
		return ErrRestAlreadySelected
	}
	r.skipped = true
	r.completed = true
	return nil
}

// ContinueNow drops the remaining time and completes the rest.
func (r *RestTimer) ContinueNow() error {
	if !r.selected {
		return ErrRestNotStarted
	}
	r.remaining = 0
	r.running = false
	r.completed = true
	return nil
}

func (r *RestTimer) Tick() []Event {
	if !r.running {
		return nil
	}

	r.remaining -= TickInterval
	var events []Event
	if r.remaining == ThirtySecondsLeft && !r.thirtySecondsLeft {
		r.thirtySecondsLeft = true
		events = append(events, EventRestThirtySeconds)
	}
	if r.remaining <= 0 {
		r.remaining = 0
		r.running = false
		r.completed = true
		events = append(events, EventRestComplete)
	}
	return events
}

func (r *RestTimer) Remaining() time.Duration { return r.remaining }
func (r *RestTimer) Completed() bool          { return r.completed }
func (r *RestTimer) Selected() bool           { return r.selected }
func (r *RestTimer) Skipped() bool            { return r.skipped }

type RestState struct {
	DurationSeconds   int    `json:"duration_seconds"`
	RemainingSeconds  int    `json:"remaining_seconds"`
	Display           string `json:"display"`
	Selected          bool   `json:"selected"`
	Running           bool   `json:"running"`
	Completed         bool   `json:"completed"`
	ThirtySecondsLeft bool   `json:"thirty_seconds_left"`
}

func (r *RestTimer) State() RestState {
	return RestState{
		DurationSeconds:   int(r.duration / time.Second),
		RemainingSeconds:  int(r.remaining / time.Second),
		Display:           FormatClock(r.remaining),
		Selected:          r.selected,
		Running:           r.running,
		Completed:         r.completed,
		ThirtySecondsLeft: r.thirtySecondsLeft,
	}
}
