package render

import (
	"image"
	"image/color"
	"testing"

	"github.com/genricoloni/mediapanel/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func horizontalBar() *config.ProgSpec {
	return &config.ProgSpec{
		PosX: 10, PosY: 200, Height: 8,
		ShortLen: 180, LongLen: 150,
		Color: "springgreen", BGColor: "dimgrey",
	}
}

func TestFillWidth_MonotonicAndClamped(t *testing.T) {
	prog := horizontalBar()

	last := -1
	for _, p := range []float64{-0.5, 0, 0.1, 0.25, 0.5, 0.75, 1, 1.5} {
		w := FillWidth(prog, p, "01:23")
		require.GreaterOrEqual(t, w, last, "fill shrank at progress %v", p)
		require.GreaterOrEqual(t, w, 0, "fill out of range at progress %v", p)
		require.LessOrEqual(t, w, prog.ShortLen, "fill out of range at progress %v", p)
		last = w
	}

	assert.Zero(t, FillWidth(prog, -1, "01:23"), "negative progress should clamp to empty")
	assert.Equal(t, prog.ShortLen, FillWidth(prog, 2, "01:23"), "overshoot should clamp to full")
}

func TestBarLength_SwitchesOnElapsedForm(t *testing.T) {
	prog := horizontalBar()

	tests := []struct {
		elapsed string
		want    int
	}{
		{"0:42", 180},
		{"59:59", 180},
		{"1:00:00", 150},
		{"12:34:56", 150},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, barLength(prog, tt.elapsed), "barLength(%q)", tt.elapsed)
	}

	vertical := &config.ProgSpec{Vertical: true, Len: 120, Height: 8}
	assert.Equal(t, 120, barLength(vertical, "1:00:00"))
}

func TestBarRect_CoversBothLengths(t *testing.T) {
	prog := horizontalBar()
	rect := barRect(prog)

	assert.Equal(t, image.Pt(10, 200), rect.Min)
	assert.Greater(t, rect.Dx(), prog.ShortLen-1, "rect does not cover the longer variant")
}

func TestDrawProgress_Horizontal(t *testing.T) {
	prog := horizontalBar()
	canvas := image.NewRGBA(image.Rect(0, 0, 320, 240))

	drawProgress(canvas, prog, 0.5, "01:23")

	fg := ParseColor(prog.Color)
	bg := ParseColor(prog.BGColor)

	// Left half filled, right half still track.
	assert.Equal(t, fg, canvas.RGBAAt(prog.PosX+10, prog.PosY+4), "fill pixel")
	assert.Equal(t, bg, canvas.RGBAAt(prog.PosX+prog.ShortLen-10, prog.PosY+4), "track pixel")
	// Outside the bar stays untouched.
	assert.Equal(t, color.RGBA{}, canvas.RGBAAt(prog.PosX-2, prog.PosY+4), "pixel outside bar changed")
}

func TestDrawProgress_Vertical(t *testing.T) {
	prog := &config.ProgSpec{
		PosX: 300, PosY: 20, Height: 10, Len: 100, Vertical: true,
		Color: "springgreen", BGColor: "dimgrey",
	}
	canvas := image.NewRGBA(image.Rect(0, 0, 320, 240))

	drawProgress(canvas, prog, 0.25, "")

	fg := ParseColor(prog.Color)
	bg := ParseColor(prog.BGColor)

	// Fill grows from the bottom.
	assert.Equal(t, fg, canvas.RGBAAt(prog.PosX+5, prog.PosY+prog.Len-5), "bottom pixel")
	assert.Equal(t, bg, canvas.RGBAAt(prog.PosX+5, prog.PosY+5), "top pixel")
}

func TestDrawProgress_Marker(t *testing.T) {
	prog := horizontalBar()
	prog.Marker = "yellow"
	canvas := image.NewRGBA(image.Rect(0, 0, 320, 240))

	drawProgress(canvas, prog, 0.5, "01:23")

	fill := FillWidth(prog, 0.5, "01:23")
	assert.Equal(t, ParseColor("yellow"), canvas.RGBAAt(prog.PosX+fill-1, prog.PosY+4), "marker pixel")
}
