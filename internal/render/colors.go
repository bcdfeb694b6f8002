package render

import (
	"image/color"
	"strconv"
	"strings"
)

// namedColors covers the web color names that setup files in the wild
// actually use. Palette references were already resolved at load, so a
// value reaching here is hex, a name, or garbage (rendered white).
var namedColors = map[string]color.RGBA{
	"black":       {0x00, 0x00, 0x00, 0xFF},
	"white":       {0xFF, 0xFF, 0xFF, 0xFF},
	"red":         {0xFF, 0x00, 0x00, 0xFF},
	"green":       {0x00, 0x80, 0x00, 0xFF},
	"blue":        {0x00, 0x00, 0xFF, 0xFF},
	"yellow":      {0xFF, 0xFF, 0x00, 0xFF},
	"orange":      {0xFF, 0xA5, 0x00, 0xFF},
	"grey":        {0x80, 0x80, 0x80, 0xFF},
	"gray":        {0x80, 0x80, 0x80, 0xFF},
	"dimgrey":     {0x69, 0x69, 0x69, 0xFF},
	"dimgray":     {0x69, 0x69, 0x69, 0xFF},
	"silver":      {0xC0, 0xC0, 0xC0, 0xFF},
	"springgreen": {0x00, 0xFF, 0x7F, 0xFF},
	"goldenrod":   {0xDA, 0xA5, 0x20, 0xFF},
	"cyan":        {0x00, 0xFF, 0xFF, 0xFF},
	"magenta":     {0xFF, 0x00, 0xFF, 0xFF},
}

// ParseColor turns a setup-file color value into an RGBA color.
// Accepts #RGB, #RRGGBB, #RRGGBBAA, and the named colors above.
// Unrecognized values default to white so a typo shows up on screen
// instead of vanishing.
func ParseColor(value string) color.RGBA {
	value = strings.TrimSpace(value)
	if value == "" {
		return namedColors["white"]
	}
	if value[0] == '#' {
		if c, ok := parseHex(value[1:]); ok {
			return c
		}
		return namedColors["white"]
	}
	if c, ok := namedColors[strings.ToLower(value)]; ok {
		return c
	}
	return namedColors["white"]
}

func parseHex(hex string) (color.RGBA, bool) {
	switch len(hex) {
	case 3:
		r, okR := hexNibble(hex[0])
		g, okG := hexNibble(hex[1])
		b, okB := hexNibble(hex[2])
		if !okR || !okG || !okB {
			return color.RGBA{}, false
		}
		return color.RGBA{r * 17, g * 17, b * 17, 0xFF}, true
	case 6, 8:
		n, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return color.RGBA{}, false
		}
		if len(hex) == 6 {
			return color.RGBA{uint8(n >> 16), uint8(n >> 8), uint8(n), 0xFF}, true
		}
		return color.RGBA{uint8(n >> 24), uint8(n >> 16), uint8(n >> 8), uint8(n)}, true
	default:
		return color.RGBA{}, false
	}
}

func hexNibble(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	default:
		return 0, false
	}
}
