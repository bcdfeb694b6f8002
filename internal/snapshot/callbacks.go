package snapshot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/genricoloni/mediapanel/internal/domain"
)

// Callback derives one display string from a raw snapshot. Callbacks
// must be pure: recomputing on identical input yields identical output,
// with no clocks or counters leaking in.
type Callback func(snap domain.Snapshot) string

// Registry resolves callback names to functions. Names are fixed at
// load time so an unknown name is a configuration error, never a
// render-time surprise.
type Registry struct {
	callbacks map[string]Callback
}

// NewRegistry builds the registry with every built-in callback.
func NewRegistry() *Registry {
	r := &Registry{callbacks: map[string]Callback{}}
	r.register("codec", codecCallback)
	r.register("full_codec", fullCodecCallback)
	r.register("artist", artistCallback)
	r.register("acodec", audioCodecCallback)
	r.register("kodi_version", kodiVersionCallback)
	return r
}

func (r *Registry) register(name string, cb Callback) {
	r.callbacks[name] = cb
}

// Register adds a user extension callback. Registering over a built-in
// name replaces it.
func (r *Registry) Register(name string, cb Callback) error {
	if name == "" || cb == nil {
		return fmt.Errorf("callback registration needs a name and a function")
	}
	r.register(name, cb)
	return nil
}

// Lookup returns the callback for name, if any.
func (r *Registry) Lookup(name string) (Callback, bool) {
	cb, ok := r.callbacks[name]
	return cb, ok
}

// Names lists every registered callback, sorted, for config validation.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.callbacks))
	for name := range r.callbacks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// codecCallback maps the music codec identifier to its display label.
func codecCallback(snap domain.Snapshot) string {
	return codecNames[snap.Get("MusicPlayer.Codec")]
}

// fullCodecCallback extends the codec label with bit depth and sample
// rate, e.g. "FLAC (24/96000)".
func fullCodecCallback(snap domain.Snapshot) string {
	name := codecNames[snap.Get("MusicPlayer.Codec")]
	if name == "" {
		return ""
	}
	return name + " (" + snap.Get("MusicPlayer.BitsPerSample") + "/" + snap.Get("MusicPlayer.SampleRate") + ")"
}

// artistCallback resolves the displayed artist: the artist label when
// present, the composer in parentheses for classical releases, and
// "Unknown" as the last resort. Layouts that would rather show nothing
// pair this with exclude = ["Unknown"].
func artistCallback(snap domain.Snapshot) string {
	if artist := snap.Get("MusicPlayer.Artist"); artist != "" {
		return artist
	}
	if composer := snap.Get("MusicPlayer.Property(Role.Composer)"); composer != "" {
		return "(" + composer + ")"
	}
	return "Unknown"
}

// audioCodecCallback maps the audio track codec of a playing video.
func audioCodecCallback(snap domain.Snapshot) string {
	return codecNames[snap.Get("VideoPlayer.AudioCodec")]
}

// kodiVersionCallback condenses the player build labels into a single
// line, e.g. "Kodi 21.2 (2024-12-05)".
func kodiVersionCallback(snap domain.Snapshot) string {
	build := snap.Get("System.BuildVersion")
	if build == "" {
		return ""
	}
	version := build
	if i := strings.IndexByte(build, ' '); i > 0 {
		version = build[:i]
	}
	date := snap.Get("System.BuildDate")
	if date == "" {
		return "Kodi " + version
	}
	return "Kodi " + version + " (" + date + ")"
}
