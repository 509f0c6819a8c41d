package timer

import "time"

const (
	SessionStartOffset = 10 * time.Minute
	TwentyMinutesLeft  = 110 * time.Minute
	WrapUpAfter        = 130 * time.Minute
)

// SessionTimer counts up from a fixed offset once the session starts.
// Its notifications are advisory only.
type SessionTimer struct {
	started bool
	stopped bool
	elapsed time.Duration

	twentyLeftSent bool
	wrapUpSent     bool
	lastWrapUp     time.Duration
	// 0 repeats the wrap up event on every tick past the threshold
	wrapUpRepeat time.Duration
}

func NewSessionTimer(wrapUpRepeat time.Duration) *SessionTimer {
	return &SessionTimer{
		wrapUpRepeat: wrapUpRepeat,
	}
}

// Start is a no-op when the timer already runs or was stopped.
func (t *SessionTimer) Start() bool {
	if t.started || t.stopped {
		return false
	}
	t.started = true
	t.elapsed = SessionStartOffset
	return true
}

// Stop freezes the elapsed time for good; a stopped timer never starts again.
func (t *SessionTimer) Stop() {
	t.stopped = true
}

func (t *SessionTimer) Stopped() bool {
	return t.stopped
}

func (t *SessionTimer) Started() bool {
	return t.started
}

func (t *SessionTimer) Elapsed() time.Duration {
	return t.elapsed
}

func (t *SessionTimer) Tick() []Event {
	if !t.started || t.stopped {
		return nil
	}
	t.elapsed += TickInterval

	var events []Event
	if t.elapsed >= TwentyMinutesLeft && !t.twentyLeftSent {
		t.twentyLeftSent = true
		events = append(events, EventTwentyMinutesLeft)
	}
	if t.elapsed >= WrapUpAfter {
		if !t.wrapUpSent || t.wrapUpRepeat <= 0 || t.elapsed-t.lastWrapUp >= t.wrapUpRepeat {
			t.wrapUpSent = true
			t.lastWrapUp = t.elapsed
			events = append(events, EventWrapUp)
		}
	}
	return events
}

type SessionTimerState struct {
	Started        bool   `json:"started"`
	Stopped        bool   `json:"stopped"`
	ElapsedSeconds int    `json:"elapsed_seconds"`
	Display        string `json:"display"`
}

func (t *SessionTimer) State() SessionTimerState {
	return SessionTimerState{
		Started:        t.started,
		Stopped:        t.stopped,
		ElapsedSeconds: int(t.elapsed / time.Second),
		Display:        FormatClock(t.elapsed),
	}
}
