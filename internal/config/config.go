package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Defaults applied when the setup file leaves a knob unset
const (
	defaultTickMillis     = 1000
	defaultDebounceMillis = 950
	defaultStatusWakeSecs = 25
	defaultFontName       = "font_main"

	// palettePrefix marks color values that must be resolved through
	// the [colors] table; anything else passes through unchanged
	palettePrefix = "color_"
)

// Config is the full in-memory model of the setup file. It is built
// once at startup, validated, and treated as read-only afterwards.
type Config struct {
	// BaseURL is the player's web server, used for artwork downloads
	BaseURL string `toml:"base_url"`
	// RPCAddr is the player's raw TCP JSON-RPC endpoint (host:port)
	RPCAddr string `toml:"rpc_addr"`

	DisplayWidth  int `toml:"display_width"`
	DisplayHeight int `toml:"display_height"`

	// TickMillis is the polling cadence
	TickMillis int `toml:"tick_ms"`
	// DebounceMillis collapses rapid touch presses into one event
	DebounceMillis int `toml:"debounce_ms"`
	// StatusWakeSecs is how long the status overlay stays up after a
	// press while idle
	StatusWakeSecs int `toml:"status_wake_secs"`

	UseBacklight      bool `toml:"use_backlight"`
	BacklightPercent  int  `toml:"backlight_percent"`
	TouchGPIO         int  `toml:"touch_gpio"`

	Fonts  []FontSpec        `toml:"fonts"`
	Colors map[string]string `toml:"colors"`

	// Info lists user-extension labels requested on top of the
	// built-in key set for each tick
	Info InfoConfig `toml:"info"`

	Audio  Category `toml:"audio"`
	Video  Category `toml:"video"`
	Status Category `toml:"status"`
	Idle   Category `toml:"idle"`

	// Layouts maps category name -> layout name -> layout definition
	Layouts map[string]map[string]*Layout `toml:"layouts"`

	// Shared holds elements defined once and referenced by name from
	// several layouts
	Shared Shared `toml:"shared"`

	// DefaultImages are per-category fallbacks for missing artwork
	DefaultImages DefaultImages `toml:"default_images"`
}

// FontSpec names a TTF file at a fixed point size
type FontSpec struct {
	Name string `toml:"name"`
	Path string `toml:"path"`
	Size int    `toml:"size"`
}

// InfoConfig carries user extensions to the polled key set
type InfoConfig struct {
	ExtraKeys []string `toml:"extra_keys"`
}

// Category describes one screen family: whether it is enabled, the
// cyclic order of its layouts, and which one is active at startup.
type Category struct {
	Enabled bool     `toml:"enabled"`
	Layouts []string `toml:"layouts"`
	Initial string   `toml:"initial"`
}

// Shared holds reusable element definitions, keyed by name
type Shared struct {
	Fields map[string]*FieldSpec `toml:"fields"`
	Thumbs map[string]*ThumbSpec `toml:"thumbs"`
	Progs  map[string]*ProgSpec  `toml:"progs"`
}

// DefaultImages holds fallback artwork paths
type DefaultImages struct {
	Audio   string `toml:"audio"`
	Video   string `toml:"video"`
	Airplay string `toml:"airplay"`
	Status  string `toml:"status"`
}

// Layout is one named arrangement of display elements
type Layout struct {
	Background *BackgroundSpec `toml:"background"`
	Thumb      *ThumbSpec      `toml:"thumb"`
	Prog       *ProgSpec       `toml:"prog"`
	Fields     []*FieldSpec    `toml:"fields"`

	// Match names a snapshot key used by content-driven layout
	// auto-selection: on entering the category, the first layout
	// whose match key resolves non-empty wins
	Match string `toml:"match"`
}

// BackgroundSpec is either a solid fill or a static image
type BackgroundSpec struct {
	Fill  string `toml:"fill"`
	Image string `toml:"image"`
}

// ThumbSpec positions cover art
type ThumbSpec struct {
	Shared string `toml:"shared"`

	PosX   int `toml:"posx"`
	PosY   int `toml:"posy"`
	Width  int `toml:"width"`
	Height int `toml:"height"`
	// Size is a square shorthand for Width/Height
	Size int `toml:"size"`

	// Center places the image at the center of the whole display
	Center bool `toml:"center"`
	// CenterSM centers the image inside its box only when the fetched
	// image came back smaller than the box
	CenterSM bool `toml:"center_sm"`
	// Enlarge permits upscaling; by default small images stay small
	Enlarge bool `toml:"enlarge"`

	DisplayIf    *Condition `toml:"display_if"`
	DisplayIfNot *Condition `toml:"display_ifnot"`
}

// BoxWidth returns the effective box width, honoring the Size shorthand.
func (t *ThumbSpec) BoxWidth() int {
	if t.Width > 0 {
		return t.Width
	}
	return t.Size
}

// BoxHeight returns the effective box height, honoring the Size shorthand.
func (t *ThumbSpec) BoxHeight() int {
	if t.Height > 0 {
		return t.Height
	}
	return t.Size
}

// ProgSpec positions the playback progress bar
type ProgSpec struct {
	Shared string `toml:"shared"`

	PosX   int `toml:"posx"`
	PosY   int `toml:"posy"`
	Height int `toml:"height"`

	// Len is the fixed length for vertical bars
	Len int `toml:"len"`
	// ShortLen is used while the elapsed-time text is M:SS / MM:SS
	ShortLen int `toml:"short_len"`
	// LongLen takes over once the text widens to H:MM:SS
	LongLen int `toml:"long_len"`

	Vertical bool `toml:"vertical"`

	Color   string `toml:"color"`
	BGColor string `toml:"bgcolor"`
	// Marker, when set, draws a tip of this color at the fill edge
	Marker string `toml:"marker"`
}

// Condition is an equality gate against another resolved key/callback
type Condition struct {
	Key   string `toml:"key"`
	Value string `toml:"value"`
}

// FieldSpec is the atomic renderable unit: one text element plus its
// resolution and display rules. A spec carrying only Shared is a
// reference to an element under [shared.fields].
type FieldSpec struct {
	Shared string `toml:"shared"`

	Name string `toml:"name"`
	PosX int    `toml:"posx"`
	PosY int    `toml:"posy"`
	Font string `toml:"font"`
	Fill string `toml:"fill"`

	// Dynamic fields repaint every tick; static ones paint once per
	// layout activation
	Dynamic bool `toml:"dynamic"`

	Prefix string `toml:"prefix"`
	Suffix string `toml:"suffix"`

	// FormatStr templates one or more snapshot keys as {Key} tokens
	FormatStr string `toml:"format_str"`

	// Trunc hard-clips a single line at the right pixel boundary
	Trunc bool `toml:"trunc"`
	// Wrap breaks on word boundaries into at most MaxLines lines
	Wrap     bool `toml:"wrap"`
	MaxWidth int  `toml:"max_width"`
	MaxLines int  `toml:"max_lines"`

	// Exclude suppresses the field when its resolved value matches
	// one of these literals exactly
	Exclude []string `toml:"exclude"`

	DisplayIf    *Condition `toml:"display_if"`
	DisplayIfNot *Condition `toml:"display_ifnot"`

	// Label is an optional caption with independent position/style,
	// shown only when the parent field resolves non-empty
	Label string `toml:"label"`
	LPosX int    `toml:"lposx"`
	LPosY int    `toml:"lposy"`
	LFont string `toml:"lfont"`
	LFill string `toml:"lfill"`
}

// Error identifies the offending table/key of a setup-file problem.
// Any Error aborts startup; there is no partial loading.
type Error struct {
	Table string
	Key   string
	Msg   string
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("config: [%s] %s: %s", e.Table, e.Key, e.Msg)
	}
	return fmt.Sprintf("config: [%s]: %s", e.Table, e.Msg)
}

func errf(table, key, format string, args ...interface{}) *Error {
	return &Error{Table: table, Key: key, Msg: fmt.Sprintf(format, args...)}
}

// Load reads and decodes the setup file, applying defaults. The result
// still needs Validate before use.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.TickMillis <= 0 {
		c.TickMillis = defaultTickMillis
	}
	if c.DebounceMillis <= 0 {
		c.DebounceMillis = defaultDebounceMillis
	}
	if c.StatusWakeSecs <= 0 {
		c.StatusWakeSecs = defaultStatusWakeSecs
	}
	if c.BacklightPercent <= 0 || c.BacklightPercent > 100 {
		c.BacklightPercent = 100
	}
	if c.Colors == nil {
		c.Colors = map[string]string{}
	}
	if c.Layouts == nil {
		c.Layouts = map[string]map[string]*Layout{}
	}
}

// Layout returns the named layout of a category, or nil.
func (c *Config) Layout(category, name string) *Layout {
	group, ok := c.Layouts[category]
	if !ok {
		return nil
	}
	return group[name]
}
