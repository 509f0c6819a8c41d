package timer

import "time"

type Severity string

const (
	SeverityNormal   Severity = "normal"
	SeverityLow      Severity = "low"
	SeverityCritical Severity = "critical"
)

const (
	LowThreshold      = 120 * time.Second
	CriticalThreshold = 60 * time.Second
)

// Countdown is the exercise timer. Pausing halts it without touching the remaining time.
type Countdown struct {
	duration  time.Duration
	remaining time.Duration
	running   bool
	paused    bool
	completed bool

	OnComplete func()
}

func NewCountdown(duration time.Duration) *Countdown {
	return &Countdown{
		duration:  duration,
		remaining: duration,
	}
}

func (c *Countdown) Start() {
	if c.completed {
		return
	}
	c.running = true
}

func (c *Countdown) Pause() {
	c.paused = true
}

func (c *Countdown) Resume() {
	c.paused = false
}

// Reset returns to the full duration and stops.
func (c *Countdown) Reset() {
	c.remaining = c.duration
	c.running = false
	c.paused = false
	c.completed = false
}

// Restart resets the countdown to a new duration and starts it.
func (c *Countdown) Restart(duration time.Duration) {
	c.duration = duration
	c.Reset()
	c.Start()
}

func (c *Countdown) Tick() []Event {
	if !c.running || c.paused || c.completed {
		return nil
	}

	c.remaining -= TickInterval
	if c.remaining > 0 {
		return nil
	}

	c.remaining = 0
	c.running = false
	c.completed = true
	if c.OnComplete != nil {
		c.OnComplete()
	}
	return []Event{EventCountdownDone}
}

func (c *Countdown) Remaining() time.Duration { return c.remaining }
func (c *Countdown) Running() bool            { return c.running }
func (c *Countdown) Paused() bool             { return c.paused }
func (c *Countdown) Completed() bool          { return c.completed }

func (c *Countdown) Severity() Severity {
	switch {
	case c.remaining <= CriticalThreshold:
		return SeverityCritical
	case c.remaining <= LowThreshold:
		return SeverityLow
	default:
		return SeverityNormal
	}
}

type CountdownState struct {
	DurationSeconds  int      `json:"duration_seconds"`
	RemainingSeconds int      `json:"remaining_seconds"`
	Display          string   `json:"display"`
	Running          bool     `json:"running"`
	Paused           bool     `json:"paused"`
	Completed        bool     `json:"completed"`
	Severity         Severity `json:"severity"`
}

func (c *Countdown) State() CountdownState {
	return CountdownState{
		DurationSeconds:  int(c.duration / time.Second),
		RemainingSeconds: int(c.remaining / time.Second),
		Display:          FormatClock(c.remaining),
		Running:          c.running,
		Paused:           c.paused,
		Completed:        c.completed,
		Severity:         c.Severity(),
	}
}
