package config

import (
	"fmt"
	"sort"
)

// Env supplies the name spaces a setup file may draw field names from:
// the snapshot keys that will be polled and the registered callback
// names. Both are known before load, which lets every resolution
// problem surface at startup instead of at render time.
type Env struct {
	Keys      map[string]bool
	Callbacks map[string]bool
}

// NewEnv builds an Env from plain slices.
func NewEnv(keys, callbacks []string) Env {
	env := Env{Keys: map[string]bool{}, Callbacks: map[string]bool{}}
	for _, k := range keys {
		env.Keys[k] = true
	}
	for _, cb := range callbacks {
		env.Callbacks[cb] = true
	}
	return env
}

// Validate checks the whole model and rewrites it in place: shared
// references are expanded, palette colors resolved, and font names
// checked. Any problem is fatal; the daemon never runs on a partially
// valid setup.
func (c *Config) Validate(env Env) error {
	if c.BaseURL == "" {
		return errf("", "base_url", "missing player web address")
	}
	if c.RPCAddr == "" {
		return errf("", "rpc_addr", "missing player JSON-RPC address")
	}
	if c.DisplayWidth <= 0 || c.DisplayHeight <= 0 {
		return errf("", "display_width", "display dimensions must be positive")
	}

	if err := c.checkFonts(); err != nil {
		return err
	}

	categories := []struct {
		name string
		cat  *Category
	}{
		{"audio", &c.Audio},
		{"video", &c.Video},
		{"status", &c.Status},
		{"idle", &c.Idle},
	}
	for _, entry := range categories {
		if err := c.checkCategory(entry.name, entry.cat); err != nil {
			return err
		}
	}

	// Status screens are the one family that must always exist: they
	// are reachable from every other state.
	if c.Status.Enabled && len(c.Status.Layouts) == 0 {
		return errf("status", "layouts", "at least one status layout is required")
	}

	for category, group := range c.Layouts {
		names := make([]string, 0, len(group))
		for name := range group {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if err := c.expandLayout(category, name, group[name], env); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *Config) checkFonts() error {
	seen := map[string]bool{}
	for _, f := range c.Fonts {
		if f.Name == "" || f.Path == "" {
			return errf("fonts", f.Name, "font entries need name and path")
		}
		if f.Size <= 0 {
			return errf("fonts", f.Name, "font size must be positive")
		}
		seen[f.Name] = true
	}
	if !seen[defaultFontName] {
		return errf("fonts", defaultFontName, "the default font must be defined")
	}
	return nil
}

func (c *Config) hasFont(name string) bool {
	for _, f := range c.Fonts {
		if f.Name == name {
			return true
		}
	}
	return false
}

func (c *Config) checkCategory(name string, cat *Category) error {
	if !cat.Enabled {
		return nil
	}
	if len(cat.Layouts) == 0 {
		return errf(name, "layouts", "enabled category has no layouts")
	}
	for _, layoutName := range cat.Layouts {
		if c.Layout(name, layoutName) == nil {
			return errf(name, layoutName, "layout is not defined under [layouts.%s]", name)
		}
	}
	if cat.Initial == "" {
		cat.Initial = cat.Layouts[0]
	}
	found := false
	for _, layoutName := range cat.Layouts {
		if layoutName == cat.Initial {
			found = true
			break
		}
	}
	if !found {
		return errf(name, "initial", "%q is not in the layout list", cat.Initial)
	}
	return nil
}

func (c *Config) expandLayout(category, name string, layout *Layout, env Env) error {
	table := fmt.Sprintf("layouts.%s.%s", category, name)

	if layout.Thumb != nil {
		thumb, err := c.resolveThumb(table, layout.Thumb, map[string]bool{})
		if err != nil {
			return err
		}
		layout.Thumb = thumb
		if layout.Thumb.BoxWidth() <= 0 || layout.Thumb.BoxHeight() <= 0 {
			return errf(table, "thumb", "thumbnail box needs size or width/height")
		}
	}
	if layout.Prog != nil {
		prog, err := c.resolveProg(table, layout.Prog, map[string]bool{})
		if err != nil {
			return err
		}
		layout.Prog = prog
		if err := c.fixupProg(table, layout.Prog); err != nil {
			return err
		}
	}
	if layout.Background != nil && layout.Background.Fill != "" {
		fill, err := c.resolveColor(table, "background.fill", layout.Background.Fill)
		if err != nil {
			return err
		}
		layout.Background.Fill = fill
	}

	expanded := make([]*FieldSpec, 0, len(layout.Fields))
	for i, field := range layout.Fields {
		spec, err := c.resolveField(table, field, map[string]bool{})
		if err != nil {
			return err
		}
		if err := c.fixupField(table, i, spec, env); err != nil {
			return err
		}
		expanded = append(expanded, spec)
	}
	layout.Fields = expanded
	return nil
}

// resolveField follows shared references until it reaches a concrete
// spec, rejecting cycles. The returned spec is a copy, so later color
// and font fixups never mutate the shared definition.
func (c *Config) resolveField(table string, field *FieldSpec, visited map[string]bool) (*FieldSpec, error) {
	if field.Shared == "" {
		clone := *field
		return &clone, nil
	}
	if !field.isPureReference() {
		return nil, errf(table, field.Shared, "shared reference must not carry other keys")
	}
	if visited[field.Shared] {
		return nil, errf("shared.fields", field.Shared, "cyclic shared reference")
	}
	visited[field.Shared] = true
	target, ok := c.Shared.Fields[field.Shared]
	if !ok {
		return nil, errf(table, field.Shared, "unknown shared field")
	}
	return c.resolveField("shared.fields", target, visited)
}

func (c *Config) resolveThumb(table string, thumb *ThumbSpec, visited map[string]bool) (*ThumbSpec, error) {
	if thumb.Shared == "" {
		clone := *thumb
		return &clone, nil
	}
	if visited[thumb.Shared] {
		return nil, errf("shared.thumbs", thumb.Shared, "cyclic shared reference")
	}
	visited[thumb.Shared] = true
	target, ok := c.Shared.Thumbs[thumb.Shared]
	if !ok {
		return nil, errf(table, thumb.Shared, "unknown shared thumbnail")
	}
	return c.resolveThumb("shared.thumbs", target, visited)
}

func (c *Config) resolveProg(table string, prog *ProgSpec, visited map[string]bool) (*ProgSpec, error) {
	if prog.Shared == "" {
		clone := *prog
		return &clone, nil
	}
	if visited[prog.Shared] {
		return nil, errf("shared.progs", prog.Shared, "cyclic shared reference")
	}
	visited[prog.Shared] = true
	target, ok := c.Shared.Progs[prog.Shared]
	if !ok {
		return nil, errf(table, prog.Shared, "unknown shared progress bar")
	}
	return c.resolveProg("shared.progs", target, visited)
}

// isPureReference reports whether the spec carries nothing besides the
// reference name itself.
func (f *FieldSpec) isPureReference() bool {
	return f.Name == "" && f.PosX == 0 && f.PosY == 0 &&
		f.Font == "" && f.Fill == "" && !f.Dynamic &&
		f.Prefix == "" && f.Suffix == "" && f.FormatStr == "" &&
		!f.Trunc && !f.Wrap && f.MaxWidth == 0 && f.MaxLines == 0 &&
		len(f.Exclude) == 0 && f.DisplayIf == nil && f.DisplayIfNot == nil &&
		f.Label == "" && f.LPosX == 0 && f.LPosY == 0 && f.LFont == "" && f.LFill == ""
}

func (c *Config) fixupField(table string, index int, field *FieldSpec, env Env) error {
	key := fmt.Sprintf("fields[%d]", index)

	if field.Name == "" {
		return errf(table, key, "field has no name")
	}

	// A name must mean exactly one thing: a polled key, a callback, or
	// an arbitrary label backed by format_str.
	isKey := env.Keys[field.Name]
	isCallback := env.Callbacks[field.Name]
	switch {
	case isKey && isCallback:
		return errf(table, field.Name, "ambiguous: both a snapshot key and a callback")
	case isKey && field.FormatStr != "":
		return errf(table, field.Name, "ambiguous: a snapshot key cannot carry format_str")
	case !isKey && !isCallback && field.FormatStr == "":
		return errf(table, field.Name, "matches neither a snapshot key nor a callback and has no format_str")
	}

	if field.Wrap && (field.MaxWidth <= 0 || field.MaxLines <= 0) {
		return errf(table, field.Name, "wrap requires max_width and max_lines")
	}

	if field.Font == "" {
		field.Font = defaultFontName
	}
	if !c.hasFont(field.Font) {
		return errf(table, field.Name, "unknown font %q", field.Font)
	}
	if field.Label != "" {
		if field.LFont == "" {
			field.LFont = field.Font
		}
		if !c.hasFont(field.LFont) {
			return errf(table, field.Name, "unknown label font %q", field.LFont)
		}
	}

	var err error
	if field.Fill, err = c.resolveColor(table, field.Name, field.Fill); err != nil {
		return err
	}
	if field.LFill, err = c.resolveColor(table, field.Name, field.LFill); err != nil {
		return err
	}
	return nil
}

func (c *Config) fixupProg(table string, prog *ProgSpec) error {
	if prog.Vertical {
		if prog.Len <= 0 {
			return errf(table, "prog", "vertical bar requires len")
		}
	} else if prog.ShortLen <= 0 || prog.LongLen <= 0 {
		return errf(table, "prog", "horizontal bar requires short_len and long_len")
	}
	if prog.Height <= 0 {
		return errf(table, "prog", "bar height must be positive")
	}

	var err error
	if prog.Color == "" {
		prog.Color = "color_progfg"
	}
	if prog.BGColor == "" {
		prog.BGColor = "color_progbg"
	}
	if prog.Color, err = c.resolveColor(table, "prog.color", prog.Color); err != nil {
		return err
	}
	if prog.BGColor, err = c.resolveColor(table, "prog.bgcolor", prog.BGColor); err != nil {
		return err
	}
	if prog.Marker != "" {
		if prog.Marker, err = c.resolveColor(table, "prog.marker", prog.Marker); err != nil {
			return err
		}
	}
	return nil
}

// resolveColor maps palette references ("color_*") through the
// [colors] table. Values not using the palette convention pass through
// untouched so plain hex or named colors keep working.
func (c *Config) resolveColor(table, key, value string) (string, error) {
	if value == "" || len(value) < len(palettePrefix) || value[:len(palettePrefix)] != palettePrefix {
		return value, nil
	}
	resolved, ok := c.Colors[value]
	if !ok {
		return "", errf(table, key, "palette color %q is not defined", value)
	}
	return resolved, nil
}
