// Package mode owns which screen the panel is showing: the category
// driven by playback state, the layout variant within the category,
// and the status overlay raised by presses while idle. All state lives
// in the Controller; the tick loop is its only caller, so transitions
// never race a render in progress.
package mode

import (
	"fmt"
	"time"

	"github.com/genricoloni/mediapanel/internal/config"
	"github.com/genricoloni/mediapanel/internal/domain"
	"go.uber.org/zap"
)

// Screen categories. Audio and video map from playback kinds; status
// and idle are panel-local.
const (
	CategoryAudio  = "audio"
	CategoryVideo  = "video"
	CategoryStatus = "status"
	CategoryIdle   = "idle"
)

// Decision tells the scheduler what this tick should show.
type Decision struct {
	// Category and Variant name the active layout
	Category string
	Variant  string
	// Layout is the resolved definition, nil when Render is false
	Layout *config.Layout
	// Full requests a complete repaint (mode change, variant change)
	Full bool
	// Render is false when there is nothing to draw this tick
	// (idle with no idle screen, or a transient snapshot gap)
	Render bool
	// ScreenOn is the desired backlight state
	ScreenOn bool
}

// Key is the renderer's static-tracking identity for the decision.
func (d Decision) Key() string {
	return d.Category + "/" + d.Variant
}

// Controller is the screen state machine.
type Controller struct {
	logger *zap.Logger
	cfg    *config.Config

	debounce   time.Duration
	statusWake time.Duration

	category   string
	variantIdx map[string]int

	statusUntil time.Time
	lastPress   time.Time
	hasPress    bool

	pendingAdvance bool
	pendingStatus  bool
	forceFull      bool

	now func() time.Time
}

// NewController creates the controller in the idle state.
func NewController(logger *zap.Logger, cfg *config.Config) *Controller {
	return &Controller{
		logger:     logger,
		cfg:        cfg,
		debounce:   time.Duration(cfg.DebounceMillis) * time.Millisecond,
		statusWake: time.Duration(cfg.StatusWakeSecs) * time.Second,
		category:   CategoryIdle,
		variantIdx: map[string]int{},
		now:        time.Now,
	}
}

// ForceFull makes the next decision request a complete repaint, used
// after the connect banner overwrote the canvas.
func (c *Controller) ForceFull() { c.forceFull = true }

// Press feeds one touch/keypress event. Presses inside the debounce
// window collapse into the first one. Returns whether the press was
// accepted.
func (c *Controller) Press(at time.Time) bool {
	if c.hasPress && at.Sub(c.lastPress) < c.debounce {
		c.logger.Debug("Press debounced")
		return false
	}
	c.lastPress = at
	c.hasPress = true

	switch c.category {
	case CategoryAudio, CategoryVideo:
		c.pendingAdvance = true
	case CategoryStatus:
		// A press while the overlay is up dismisses it early.
		c.statusUntil = at
	default:
		c.pendingStatus = true
	}
	return true
}

// Observe folds the fresh snapshot into the state machine and decides
// what to render. It must be called exactly once per tick, after any
// presses were fed in.
func (c *Controller) Observe(snap domain.Snapshot) Decision {
	now := snap.Taken
	if now.IsZero() {
		now = c.now()
	}

	target := c.targetCategory(snap, now)

	full := c.forceFull
	c.forceFull = false

	if target != c.category {
		c.enterCategory(target, snap)
		full = true
	}

	if c.pendingAdvance {
		c.pendingAdvance = false
		if target == CategoryAudio || target == CategoryVideo {
			c.advance(target)
			full = true
		}
	}

	return c.decide(target, snap, full)
}

// targetCategory maps playback state and overlay timers to a screen
// category.
func (c *Controller) targetCategory(snap domain.Snapshot, now time.Time) string {
	switch {
	case snap.Kind == domain.KindAudio && c.cfg.Audio.Enabled:
		c.pendingStatus = false
		return CategoryAudio
	case snap.Kind == domain.KindVideo && c.cfg.Video.Enabled:
		c.pendingStatus = false
		return CategoryVideo
	}

	// Nothing playable: a pending press raises the status overlay.
	if c.pendingStatus {
		c.pendingStatus = false
		if c.cfg.Status.Enabled {
			c.statusUntil = now.Add(c.statusWake)
		}
	}
	if c.cfg.Status.Enabled && now.Before(c.statusUntil) {
		return CategoryStatus
	}
	return CategoryIdle
}

// enterCategory resets the category to its initial variant, letting a
// content-driven match pick a better one. The heuristic runs only
// here, once per transition, never per tick.
func (c *Controller) enterCategory(target string, snap domain.Snapshot) {
	c.category = target
	cat := c.categoryConfig(target)
	if cat == nil || len(cat.Layouts) == 0 {
		return
	}

	idx := 0
	for i, name := range cat.Layouts {
		if name == cat.Initial {
			idx = i
			break
		}
	}
	for i, name := range cat.Layouts {
		layout := c.cfg.Layout(target, name)
		if layout != nil && layout.Match != "" && snap.Get(layout.Match) != "" {
			idx = i
			break
		}
	}
	c.variantIdx[target] = idx
	c.logger.Info("Screen category changed",
		zap.String("category", target),
		zap.String("variant", cat.Layouts[idx]))
}

// advance steps to the next variant in the category's cyclic order.
func (c *Controller) advance(target string) {
	cat := c.categoryConfig(target)
	if cat == nil || len(cat.Layouts) == 0 {
		return
	}
	idx := (c.variantIdx[target] + 1) % len(cat.Layouts)
	c.variantIdx[target] = idx
	c.logger.Info("Layout variant advanced",
		zap.String("category", target),
		zap.String("variant", cat.Layouts[idx]))
}

func (c *Controller) decide(target string, snap domain.Snapshot, full bool) Decision {
	switch target {
	case CategoryAudio, CategoryVideo:
		if snap.Transient {
			// Track-change hiccup: keep the previous frame.
			return Decision{Category: target, Variant: c.variantName(target), Render: false, ScreenOn: true}
		}
		return c.layoutDecision(target, full, true)
	case CategoryStatus:
		return c.layoutDecision(target, full, true)
	default:
		if c.cfg.Idle.Enabled && len(c.cfg.Idle.Layouts) > 0 {
			return c.layoutDecision(CategoryIdle, full, true)
		}
		return Decision{Category: CategoryIdle, Render: false, ScreenOn: false}
	}
}

func (c *Controller) layoutDecision(target string, full, screenOn bool) Decision {
	variant := c.variantName(target)
	layout := c.cfg.Layout(target, variant)
	if layout == nil {
		// Startup validation makes this unreachable; guard anyway.
		c.logger.Error("Layout missing at runtime",
			zap.String("category", target), zap.String("variant", variant))
		return Decision{Category: target, Render: false, ScreenOn: screenOn}
	}
	return Decision{
		Category: target,
		Variant:  variant,
		Layout:   layout,
		Full:     full,
		Render:   true,
		ScreenOn: screenOn,
	}
}

func (c *Controller) variantName(target string) string {
	cat := c.categoryConfig(target)
	if cat == nil || len(cat.Layouts) == 0 {
		return ""
	}
	idx := c.variantIdx[target]
	if idx < 0 || idx >= len(cat.Layouts) {
		idx = 0
	}
	return cat.Layouts[idx]
}

func (c *Controller) categoryConfig(target string) *config.Category {
	switch target {
	case CategoryAudio:
		return &c.cfg.Audio
	case CategoryVideo:
		return &c.cfg.Video
	case CategoryStatus:
		return &c.cfg.Status
	case CategoryIdle:
		return &c.cfg.Idle
	default:
		return nil
	}
}

// String describes the current state for logs.
func (c *Controller) String() string {
	return fmt.Sprintf("%s/%s", c.category, c.variantName(c.category))
}
