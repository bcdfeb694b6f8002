package render

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  color.RGBA
	}{
		{"Named", "yellow", color.RGBA{0xFF, 0xFF, 0x00, 0xFF}},
		{"Named mixed case", "SpringGreen", color.RGBA{0x00, 0xFF, 0x7F, 0xFF}},
		{"Short hex", "#f0a", color.RGBA{0xFF, 0x00, 0xAA, 0xFF}},
		{"Full hex", "#3f51b5", color.RGBA{0x3F, 0x51, 0xB5, 0xFF}},
		{"Hex with alpha", "#3f51b580", color.RGBA{0x3F, 0x51, 0xB5, 0x80}},
		{"Whitespace trimmed", "  black ", color.RGBA{0x00, 0x00, 0x00, 0xFF}},
		{"Empty defaults white", "", color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}},
		{"Unknown name defaults white", "chartreuse-ish", color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}},
		{"Bad hex defaults white", "#zzz", color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}},
		{"Wrong hex length defaults white", "#12345", color.RGBA{0xFF, 0xFF, 0xFF, 0xFF}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseColor(tt.value))
		})
	}
}
