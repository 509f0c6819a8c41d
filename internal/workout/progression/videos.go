package progression

import (
	"errors"
	"slices"
)

var (
	ErrUnknownVideo = errors.New("unknown warm-up video")
	ErrVideoLocked  = errors.New("warm-up video is locked")
)

// VideoChain unlocks warm-up videos one by one: a video is unlocked once the
// previous one in the flat catalog order is watched. The first is always unlocked.
type VideoChain struct {
	keys    []string
	watched map[string]bool
}

func NewVideoChain(keys []string, watched []string) *VideoChain {
	c := &VideoChain{
		keys:    slices.Clone(keys),
		watched: make(map[string]bool, len(watched)),
	}
	for _, k := range watched {
		c.watched[k] = true
	}
	return c
}

func (c *VideoChain) IsUnlocked(key string) bool {
	idx := slices.Index(c.keys, key)
	switch {
	case idx < 0:
		return false
	case idx == 0:
		return true
	default:
		return c.watched[c.keys[idx-1]]
	}
}

func (c *VideoChain) IsWatched(key string) bool {
	return c.watched[key]
}

// Watch marks the video as watched. startsWarmupTimer is true when this is the
// first time the first video of the chain is watched.
func (c *VideoChain) Watch(key string) (startsWarmupTimer bool, err error) {
	idx := slices.Index(c.keys, key)
	if idx < 0 {
		return false, ErrUnknownVideo
	}
	if !c.IsUnlocked(key) {
		return false, ErrVideoLocked
	}
	if c.watched[key] {
		return false, nil
	}
	c.watched[key] = true
	return idx == 0, nil
}

// Watched returns the watched keys in chain order, followed by unknown keys kept from the session.
func (c *VideoChain) Watched() []string {
	watched := []string{}
	for _, k := range c.keys {
		if c.watched[k] {
			watched = append(watched, k)
		}
	}
	var unknown []string
	for k := range c.watched {
		if !slices.Contains(c.keys, k) {
			unknown = append(unknown, k)
		}
	}
	slices.Sort(unknown)
	return append(watched, unknown...)
}

func (c *VideoChain) AllWatched() bool {
	for _, k := range c.keys {
		if !c.watched[k] {
			return false
		}
	}
	return true
}

type VideoState struct {
	Key      string `json:"key"`
	Unlocked bool   `json:"unlocked"`
	Watched  bool   `json:"watched"`
}

func (c *VideoChain) States() []VideoState {
	states := make([]VideoState, len(c.keys))
	for i, k := range c.keys {
		states[i] = VideoState{
			Key:      k,
			Unlocked: c.IsUnlocked(k),
			Watched:  c.watched[k],
		}
	}
	return states
}
