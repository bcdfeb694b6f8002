// Package display holds the frame sinks: the Linux framebuffer for
// real panels and a PNG writer for demo runs.
package display

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// FileSink writes each presented frame as a PNG, for running the panel
// without hardware. The frame is written atomically so a viewer
// watching the file never sees a half-written image.
type FileSink struct {
	logger *zap.Logger
	path   string
	width  int
	height int
}

// NewFileSink creates a sink writing frames to path.
func NewFileSink(logger *zap.Logger, path string, width, height int) *FileSink {
	return &FileSink{logger: logger, path: path, width: width, height: height}
}

// Size returns the logical canvas dimensions.
func (s *FileSink) Size() (int, int) { return s.width, s.height }

// Present writes the frame to the configured path.
func (s *FileSink) Present(frame image.Image) error {
	tmp := s.path + ".tmp.png"
	if err := imaging.Save(frame, tmp, imaging.PNGCompressionLevel(png.BestSpeed)); err != nil {
		return fmt.Errorf("failed to save frame: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to move frame into place: %w", err)
	}
	s.logger.Debug("Frame written", zap.String("path", filepath.Base(s.path)))
	return nil
}

// Close is a no-op for the file sink.
func (s *FileSink) Close() error { return nil }
