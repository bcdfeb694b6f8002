package mode

import (
	"testing"
	"time"

	"github.com/genricoloni/mediapanel/internal/config"
	"github.com/genricoloni/mediapanel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var t0 = time.Date(2025, 6, 1, 20, 0, 0, 0, time.UTC)

func testConfig() *config.Config {
	return &config.Config{
		DebounceMillis: 950,
		StatusWakeSecs: 25,
		Audio: config.Category{
			Enabled: true,
			Layouts: []string{"full", "minimal", "bare"},
			Initial: "full",
		},
		Video: config.Category{
			Enabled: true,
			Layouts: []string{"movie", "tvshow"},
			Initial: "movie",
		},
		Status: config.Category{
			Enabled: true,
			Layouts: []string{"default"},
			Initial: "default",
		},
		Layouts: map[string]map[string]*config.Layout{
			"audio": {
				"full":    {},
				"minimal": {},
				"bare":    {},
			},
			"video": {
				"movie":  {},
				"tvshow": {Match: "VideoPlayer.TVShowTitle"},
			},
			"status": {
				"default": {},
			},
		},
	}
}

func snapAt(kind domain.PlayerKind, at time.Time, values map[string]string) domain.Snapshot {
	if values == nil {
		values = map[string]string{}
	}
	return domain.Snapshot{Kind: kind, Values: values, Progress: -1, Taken: at}
}

func TestObserve_PlaybackDrivesCategory(t *testing.T) {
	c := NewController(zap.NewNop(), testConfig())

	d := c.Observe(snapAt(domain.KindNone, t0, nil))
	assert.Equal(t, CategoryIdle, d.Category)
	assert.False(t, d.Render)
	assert.False(t, d.ScreenOn)

	d = c.Observe(snapAt(domain.KindAudio, t0.Add(time.Second), nil))
	require.True(t, d.Render)
	assert.Equal(t, CategoryAudio, d.Category)
	assert.Equal(t, "full", d.Variant)
	assert.True(t, d.Full, "category entry must repaint everything")
	assert.True(t, d.ScreenOn)

	// Steady state: same category, no forced repaint.
	d = c.Observe(snapAt(domain.KindAudio, t0.Add(2*time.Second), nil))
	assert.False(t, d.Full)
	assert.Equal(t, "audio/full", d.Key())

	// Playback stops: back to idle.
	d = c.Observe(snapAt(domain.KindNone, t0.Add(3*time.Second), nil))
	assert.Equal(t, CategoryIdle, d.Category)
}

func TestPress_CyclesVariantsWithWraparound(t *testing.T) {
	c := NewController(zap.NewNop(), testConfig())
	at := t0

	c.Observe(snapAt(domain.KindAudio, at, nil))

	want := []string{"minimal", "bare", "full", "minimal"}
	for i, variant := range want {
		at = at.Add(2 * time.Second)
		require.True(t, c.Press(at), "press %d rejected", i)

		d := c.Observe(snapAt(domain.KindAudio, at, nil))
		assert.Equal(t, variant, d.Variant, "press %d", i)
		assert.True(t, d.Full, "variant change must repaint")
	}
}

func TestPress_DebounceCollapsesRapidPresses(t *testing.T) {
	c := NewController(zap.NewNop(), testConfig())
	c.Observe(snapAt(domain.KindAudio, t0, nil))

	assert.True(t, c.Press(t0.Add(time.Second)))
	// Within the 950ms window: swallowed.
	assert.False(t, c.Press(t0.Add(time.Second+400*time.Millisecond)))
	assert.False(t, c.Press(t0.Add(time.Second+900*time.Millisecond)))

	d := c.Observe(snapAt(domain.KindAudio, t0.Add(2*time.Second), nil))
	assert.Equal(t, "minimal", d.Variant, "three rapid presses advance exactly once")

	// Past the window: accepted again.
	assert.True(t, c.Press(t0.Add(3*time.Second)))
	d = c.Observe(snapAt(domain.KindAudio, t0.Add(4*time.Second), nil))
	assert.Equal(t, "bare", d.Variant)
}

func TestPress_WhileIdleRaisesStatusOverlay(t *testing.T) {
	c := NewController(zap.NewNop(), testConfig())
	c.Observe(snapAt(domain.KindNone, t0, nil))

	require.True(t, c.Press(t0.Add(time.Second)))

	d := c.Observe(snapAt(domain.KindNone, t0.Add(2*time.Second), nil))
	require.True(t, d.Render)
	assert.Equal(t, CategoryStatus, d.Category)
	assert.Equal(t, "default", d.Variant)
	assert.True(t, d.ScreenOn)

	// Still inside the wake window.
	d = c.Observe(snapAt(domain.KindNone, t0.Add(20*time.Second), nil))
	assert.Equal(t, CategoryStatus, d.Category)

	// Window elapsed: dark again.
	d = c.Observe(snapAt(domain.KindNone, t0.Add(30*time.Second), nil))
	assert.Equal(t, CategoryIdle, d.Category)
	assert.False(t, d.ScreenOn)
}

func TestPress_DuringOverlayDismissesIt(t *testing.T) {
	c := NewController(zap.NewNop(), testConfig())
	c.Observe(snapAt(domain.KindNone, t0, nil))
	c.Press(t0.Add(time.Second))
	c.Observe(snapAt(domain.KindNone, t0.Add(2*time.Second), nil))

	c.Press(t0.Add(4 * time.Second))
	d := c.Observe(snapAt(domain.KindNone, t0.Add(5*time.Second), nil))
	assert.Equal(t, CategoryIdle, d.Category)
}

func TestObserve_PlaybackPreemptsOverlay(t *testing.T) {
	c := NewController(zap.NewNop(), testConfig())
	c.Observe(snapAt(domain.KindNone, t0, nil))
	c.Press(t0.Add(time.Second))
	c.Observe(snapAt(domain.KindNone, t0.Add(2*time.Second), nil))

	d := c.Observe(snapAt(domain.KindAudio, t0.Add(3*time.Second), nil))
	assert.Equal(t, CategoryAudio, d.Category)
	assert.True(t, d.Full)
}

func TestObserve_MatchSelectsVariantOnEntry(t *testing.T) {
	c := NewController(zap.NewNop(), testConfig())

	episode := map[string]string{"VideoPlayer.TVShowTitle": "The Wire"}
	d := c.Observe(snapAt(domain.KindVideo, t0, episode))
	assert.Equal(t, "tvshow", d.Variant, "match key resolves, variant auto-selected")

	// The heuristic runs only on entry; losing the key later does not
	// bounce the variant back.
	d = c.Observe(snapAt(domain.KindVideo, t0.Add(time.Second), nil))
	assert.Equal(t, "tvshow", d.Variant)

	// Re-entry without the key falls back to the configured initial.
	c.Observe(snapAt(domain.KindNone, t0.Add(2*time.Second), nil))
	d = c.Observe(snapAt(domain.KindVideo, t0.Add(3*time.Second), nil))
	assert.Equal(t, "movie", d.Variant)
}

func TestObserve_TransientSnapshotSkipsRender(t *testing.T) {
	c := NewController(zap.NewNop(), testConfig())
	c.Observe(snapAt(domain.KindAudio, t0, nil))

	snap := snapAt(domain.KindAudio, t0.Add(time.Second), nil)
	snap.Transient = true
	d := c.Observe(snap)
	assert.False(t, d.Render, "transient gap keeps the previous frame")
	assert.True(t, d.ScreenOn)
}

func TestObserve_DisabledCategoryIgnoresPlayback(t *testing.T) {
	cfg := testConfig()
	cfg.Video.Enabled = false
	c := NewController(zap.NewNop(), cfg)

	d := c.Observe(snapAt(domain.KindVideo, t0, nil))
	assert.Equal(t, CategoryIdle, d.Category)
}

func TestForceFull(t *testing.T) {
	c := NewController(zap.NewNop(), testConfig())
	c.Observe(snapAt(domain.KindAudio, t0, nil))

	c.ForceFull()
	d := c.Observe(snapAt(domain.KindAudio, t0.Add(time.Second), nil))
	assert.True(t, d.Full)

	d = c.Observe(snapAt(domain.KindAudio, t0.Add(2*time.Second), nil))
	assert.False(t, d.Full, "force applies to a single tick")
}
