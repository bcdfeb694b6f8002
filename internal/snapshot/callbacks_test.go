package snapshot

import (
	"testing"

	"github.com/genricoloni/mediapanel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func snapWith(values map[string]string) domain.Snapshot {
	return domain.Snapshot{Kind: domain.KindAudio, Values: values}
}

func TestArtistCallback(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   string
	}{
		{
			"Artist present",
			map[string]string{"MusicPlayer.Artist": "Arvo Pärt"},
			"Arvo Pärt",
		},
		{
			"Composer fallback in parens",
			map[string]string{"MusicPlayer.Property(Role.Composer)": "Arvo Pärt"},
			"(Arvo Pärt)",
		},
		{
			"Artist wins over composer",
			map[string]string{
				"MusicPlayer.Artist":                  "Tasmin Little",
				"MusicPlayer.Property(Role.Composer)": "Arvo Pärt",
			},
			"Tasmin Little",
		},
		{"Neither known", map[string]string{}, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, artistCallback(snapWith(tt.values)))
		})
	}
}

func TestCodecCallbacks(t *testing.T) {
	snap := snapWith(map[string]string{
		"MusicPlayer.Codec":         "flac",
		"MusicPlayer.BitsPerSample": "24",
		"MusicPlayer.SampleRate":    "96000",
	})

	assert.Equal(t, "FLAC", codecCallback(snap))
	assert.Equal(t, "FLAC (24/96000)", fullCodecCallback(snap))

	// Unknown codec identifiers resolve to nothing, not to the raw id.
	unknown := snapWith(map[string]string{"MusicPlayer.Codec": "weird99"})
	assert.Empty(t, codecCallback(unknown))
	assert.Empty(t, fullCodecCallback(unknown))
}

func TestKodiVersionCallback(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   string
	}{
		{
			"Version and date",
			map[string]string{
				"System.BuildVersion": "21.2 (21.2.0) Git:20241205-abcdef",
				"System.BuildDate":    "2024-12-05",
			},
			"Kodi 21.2 (2024-12-05)",
		},
		{
			"No date",
			map[string]string{"System.BuildVersion": "21.2"},
			"Kodi 21.2",
		},
		{"Nothing known", map[string]string{}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, kodiVersionCallback(snapWith(tt.values)))
		})
	}
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	for _, name := range []string{"codec", "full_codec", "artist", "acodec", "kodi_version"} {
		_, ok := r.Lookup(name)
		assert.True(t, ok, "built-in callback %q missing", name)
	}
	_, ok := r.Lookup("nope")
	assert.False(t, ok, "unknown name resolved")

	assert.Error(t, r.Register("", nil), "empty registration accepted")
	require.NoError(t, r.Register("static", func(domain.Snapshot) string { return "x" }))
	cb, ok := r.Lookup("static")
	require.True(t, ok)
	assert.Equal(t, "x", cb(domain.Snapshot{}))

	assert.IsIncreasing(t, r.Names())
}

func TestKnownKeys(t *testing.T) {
	keys := KnownKeys([]string{"Player.Filename", "MusicPlayer.Title"})

	seen := map[string]int{}
	for _, k := range keys {
		seen[k]++
	}
	assert.Equal(t, 1, seen["MusicPlayer.Title"], "duplicate extra key not merged")
	for _, k := range []string{"Player.Filename", "VideoPlayer.Title", "System.BuildVersion", "summary"} {
		assert.NotZero(t, seen[k], "key %q missing", k)
	}
}
