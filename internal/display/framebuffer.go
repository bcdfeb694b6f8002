//go:build linux

package display

import (
	"fmt"
	"image"
	"image/color"

	fb "github.com/gonutz/framebuffer"
	"go.uber.org/zap"
)

// Framebuffer presents frames on a Linux framebuffer device, scaling
// the logical canvas to the device resolution with nearest-neighbor
// sampling.
type Framebuffer struct {
	logger *zap.Logger
	dev    *fb.Device
	width  int
	height int
}

// OpenFramebuffer opens the framebuffer device (e.g. /dev/fb0).
// width and height are the logical canvas dimensions.
func OpenFramebuffer(logger *zap.Logger, device string, width, height int) (*Framebuffer, error) {
	dev, err := fb.Open(device)
	if err != nil {
		return nil, fmt.Errorf("failed to open framebuffer %s: %w", device, err)
	}
	bounds := dev.Bounds()
	logger.Info("Framebuffer open",
		zap.String("device", device),
		zap.Int("width", bounds.Dx()),
		zap.Int("height", bounds.Dy()))
	return &Framebuffer{logger: logger, dev: dev, width: width, height: height}, nil
}

// Size returns the logical canvas dimensions.
func (f *Framebuffer) Size() (int, int) { return f.width, f.height }

// Present blits the frame to the device, nearest-neighbor scaled to
// fill the screen.
func (f *Framebuffer) Present(frame image.Image) error {
	bounds := f.dev.Bounds()
	fbWidth := bounds.Dx()
	fbHeight := bounds.Dy()
	src := frame.Bounds()
	for y := 0; y < fbHeight; y++ {
		sy := src.Min.Y + (y*src.Dy())/fbHeight
		for x := 0; x < fbWidth; x++ {
			sx := src.Min.X + (x*src.Dx())/fbWidth
			r, g, b, _ := frame.At(sx, sy).RGBA()
			f.dev.Set(bounds.Min.X+x, bounds.Min.Y+y,
				color.RGBA{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8), A: 0xFF})
		}
	}
	return nil
}

// Close releases the device.
func (f *Framebuffer) Close() error {
	f.dev.Close()
	return nil
}
