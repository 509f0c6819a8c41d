// Package timer implements the workout clocks: the session elapsed timer, the exercise
// countdown and the rest timer. All of them advance by one second per Tick and are not
// safe for concurrent use.
package timer

import (
	"context"
	"fmt"
	"time"
)

const TickInterval = time.Second

type Event string

const (
	EventTwentyMinutesLeft Event = "twenty_minutes_left"
	EventWrapUp            Event = "wrap_up"
	EventCountdownDone     Event = "countdown_done"
	EventRestThirtySeconds Event = "rest_thirty_seconds"
	EventRestComplete      Event = "rest_complete"
)

// Run calls tick on every interval until ctx is done.
func Run(ctx context.Context, interval time.Duration, tick func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}

// FormatClock renders d as m:ss, or h:mm:ss from one hour on.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
