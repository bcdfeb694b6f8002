package domain

import "time"

// PlayerKind classifies what the media player is currently showing
type PlayerKind string

const (
	// KindNone indicates nothing is playing
	KindNone PlayerKind = "none"
	// KindAudio indicates music playback
	KindAudio PlayerKind = "audio"
	// KindVideo indicates video playback
	KindVideo PlayerKind = "video"
	// KindSlideshow indicates a picture slideshow
	KindSlideshow PlayerKind = "slideshow"
)

// Snapshot is the per-tick flattened view of player state.
// Values maps InfoLabel-style keys (and synthetic keys derived from
// them) to strings; an absent label is always the empty string, never
// a missing entry, so non-empty checks behave uniformly downstream.
type Snapshot struct {
	// Kind is the active player classification for this tick
	Kind PlayerKind
	// Values holds key -> resolved string for every requested label
	Values map[string]string
	// Progress is the playback position as a fraction in [0,1],
	// or -1 when position/duration are unknown
	Progress float64
	// Stale marks a snapshot taken while the player was unreachable;
	// renderers fall back to the disconnected visual state
	Stale bool
	// Transient marks the brief moment during DLNA/UPnP track changes
	// when the player reports nothing meaningful; such ticks are not
	// worth rendering
	Transient bool
	// Taken records when the snapshot was built
	Taken time.Time
}

// Get returns the value for key, or "" when absent.
func (s Snapshot) Get(key string) string {
	if s.Values == nil {
		return ""
	}
	return s.Values[key]
}

// PressEvent is a single touch/key press notification delivered from
// an input source to the scheduler.
type PressEvent struct {
	// At is when the press was observed
	At time.Time
}
