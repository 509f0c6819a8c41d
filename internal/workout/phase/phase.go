// Package phase holds the fixed workout phase sequence and the gate deciding
// which route a user may be on for a given session.
package phase

import "fmt"

type Phase string

const (
	Cardio    Phase = "cardio"
	Warmup    Phase = "warmup"
	Main      Phase = "main"
	Completed Phase = "completed"
)

var order = []Phase{Cardio, Warmup, Main, Completed}

// Rank is the position of the phase in the sequence, -1 for unknown phases.
func (p Phase) Rank() int {
	for i, o := range order {
		if o == p {
			return i
		}
	}
	return -1
}

func (p Phase) Valid() bool {
	return p.Rank() >= 0
}

func (p Phase) Before(other Phase) bool {
	return p.Rank() < other.Rank()
}

// Max returns the later of the two phases.
func Max(a, b Phase) Phase {
	if a.Rank() >= b.Rank() {
		return a
	}
	return b
}

func Parse(s string) (Phase, error) {
	p := Phase(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown phase: %q", s)
	}
	return p, nil
}
