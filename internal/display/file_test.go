package display

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFileSink_PresentWritesFrame(t *testing.T) {
	path := filepath.Join(t.TempDir(), "panel.png")
	sink := NewFileSink(zap.NewNop(), path, 320, 240)

	w, h := sink.Size()
	assert.Equal(t, 320, w)
	assert.Equal(t, 240, h)

	frame := imaging.New(320, 240, color.NRGBA{R: 10, G: 20, B: 30, A: 255})
	require.NoError(t, sink.Present(frame))

	written, err := imaging.Open(path)
	require.NoError(t, err, "reading frame back")
	assert.Equal(t, 320, written.Bounds().Dx())
	assert.Equal(t, 240, written.Bounds().Dy())

	// No temp file left behind.
	_, err = os.Stat(path + ".tmp.png")
	assert.True(t, os.IsNotExist(err), "temporary frame file was not renamed away")

	// Presenting again overwrites cleanly.
	require.NoError(t, sink.Present(frame))
	require.NoError(t, sink.Close())
}
