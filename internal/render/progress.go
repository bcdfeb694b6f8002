package render

import (
	"image"
	"image/draw"
	"strings"

	"github.com/genricoloni/mediapanel/internal/config"
)

// barLength picks the configured bar length for this tick. Horizontal
// bars widen once the elapsed-time text grows to H:MM:SS, so the bar
// never collides with the wider time display next to it.
func barLength(prog *config.ProgSpec, elapsedText string) int {
	if prog.Vertical {
		return prog.Len
	}
	if strings.Count(elapsedText, ":") == 2 {
		return prog.LongLen
	}
	return prog.ShortLen
}

// barRect is the full extent the bar can ever occupy, used to erase
// the previous frame's fill before repainting.
func barRect(prog *config.ProgSpec) image.Rectangle {
	if prog.Vertical {
		return image.Rect(prog.PosX, prog.PosY, prog.PosX+prog.Height+1, prog.PosY+prog.Len+1)
	}
	length := prog.LongLen
	if prog.ShortLen > length {
		length = prog.ShortLen
	}
	return image.Rect(prog.PosX, prog.PosY, prog.PosX+length+1, prog.PosY+prog.Height+1)
}

// drawProgress paints the bar background and fill onto dst. progress
// outside [0,1] is clamped; the fill grows left to right, or bottom to
// top for vertical bars.
func drawProgress(dst draw.Image, prog *config.ProgSpec, progress float64, elapsedText string) {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}

	bg := image.NewUniform(ParseColor(prog.BGColor))
	fg := image.NewUniform(ParseColor(prog.Color))
	length := barLength(prog, elapsedText)

	if prog.Vertical {
		track := image.Rect(prog.PosX, prog.PosY, prog.PosX+prog.Height, prog.PosY+length)
		draw.Draw(dst, track, bg, image.Point{}, draw.Src)
		fill := int(float64(length) * progress)
		filled := image.Rect(prog.PosX, prog.PosY+length-fill, prog.PosX+prog.Height, prog.PosY+length)
		draw.Draw(dst, filled, fg, image.Point{}, draw.Src)
		return
	}

	track := image.Rect(prog.PosX, prog.PosY, prog.PosX+length, prog.PosY+prog.Height)
	draw.Draw(dst, track, bg, image.Point{}, draw.Src)
	fill := int(float64(length) * progress)
	filled := image.Rect(prog.PosX, prog.PosY, prog.PosX+fill, prog.PosY+prog.Height)
	draw.Draw(dst, filled, fg, image.Point{}, draw.Src)

	if prog.Marker != "" && fill > 0 {
		marker := image.NewUniform(ParseColor(prog.Marker))
		tip := image.Rect(prog.PosX+fill-1, prog.PosY, prog.PosX+fill+1, prog.PosY+prog.Height)
		draw.Draw(dst, tip.Intersect(track), marker, image.Point{}, draw.Src)
	}
}

// FillWidth exposes the computed fill in pixels; the progress tests
// check monotonicity and clamping through it.
func FillWidth(prog *config.ProgSpec, progress float64, elapsedText string) int {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	return int(float64(barLength(prog, elapsedText)) * progress)
}
