package artwork

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/genricoloni/mediapanel/internal/config"
	"github.com/genricoloni/mediapanel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeQuerier struct {
	urlCalls int
	urlErr   error
}

func (f *fakeQuerier) Ping(context.Context) error { return nil }
func (f *fakeQuerier) ActivePlayer(context.Context) (domain.PlayerKind, error) {
	return domain.KindAudio, nil
}
func (f *fakeQuerier) InfoLabels(context.Context, []string) (map[string]string, error) {
	return nil, nil
}
func (f *fakeQuerier) ArtworkURL(ctx context.Context, path string) (string, error) {
	f.urlCalls++
	return "http://player/" + path, f.urlErr
}
func (f *fakeQuerier) Close() error { return nil }

type fakeFetcher struct {
	calls int
	data  []byte
	err   error
}

func (f *fakeFetcher) Fetch(context.Context, string) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, imaging.Encode(&buf, img, imaging.PNG))
	return buf.Bytes()
}

func TestCover_FetchScaleAndCache(t *testing.T) {
	querier := &fakeQuerier{}
	fetcher := &fakeFetcher{data: pngBytes(t, 400, 200)}
	cache := NewCache(zap.NewNop(), querier, fetcher, config.DefaultImages{})
	ctx := context.Background()

	img, err := cache.Cover(ctx, "image://cover1", domain.KindAudio, 140, 140, false)
	require.NoError(t, err)
	// 400x200 fit into 140x140 keeps the aspect ratio.
	assert.Equal(t, 140, img.Bounds().Dx())
	assert.Equal(t, 70, img.Bounds().Dy())

	// Same path again: served from cache, no new fetch.
	_, err = cache.Cover(ctx, "image://cover1", domain.KindAudio, 140, 140, false)
	require.NoError(t, err)
	assert.Equal(t, 1, fetcher.calls)

	// New path invalidates implicitly.
	_, err = cache.Cover(ctx, "image://cover2", domain.KindAudio, 140, 140, false)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)

	// Explicit invalidation forces a refetch of a known path.
	cache.Invalidate()
	_, err = cache.Cover(ctx, "image://cover2", domain.KindAudio, 140, 140, false)
	require.NoError(t, err)
	assert.Equal(t, 3, fetcher.calls)
}

func TestCover_PlaceholderAndEmptySkipFetch(t *testing.T) {
	fetcher := &fakeFetcher{}
	cache := NewCache(zap.NewNop(), &fakeQuerier{}, fetcher, config.DefaultImages{})

	for _, path := range []string{"", "DefaultAlbumCover.png"} {
		img, err := cache.Cover(context.Background(), path, domain.KindAudio, 100, 100, false)
		assert.NoError(t, err, "cover(%q)", path)
		assert.Nil(t, img, "cover(%q) should fall back to nil without defaults", path)
	}
	assert.Zero(t, fetcher.calls)
}

func TestCover_FetchFailureFallsBack(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}
	cache := NewCache(zap.NewNop(), &fakeQuerier{}, fetcher, config.DefaultImages{})

	img, err := cache.Cover(context.Background(), "image://x", domain.KindAudio, 100, 100, false)
	require.Error(t, err)
	assert.Nil(t, img, "no default configured, image should be nil")

	// The failure must not be cached as a success.
	fetcher.err = nil
	fetcher.data = pngBytes(t, 50, 50)
	_, err = cache.Cover(context.Background(), "image://x", domain.KindAudio, 100, 100, false)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.calls)
}

func TestScale(t *testing.T) {
	tests := []struct {
		name    string
		w, h    int
		boxW    int
		boxH    int
		enlarge bool
		wantW   int
		wantH   int
	}{
		{"Downscale keeps aspect", 400, 200, 100, 100, false, 100, 50},
		{"Small stays small", 60, 60, 100, 100, false, 60, 60},
		{"Small enlarged to box", 50, 50, 100, 100, true, 100, 100},
		{"Enlarge binds on height", 50, 100, 200, 200, true, 100, 200},
		{"Exact fit untouched", 100, 100, 100, 100, false, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := imaging.New(tt.w, tt.h, color.NRGBA{A: 255})
			got := Scale(src, tt.boxW, tt.boxH, tt.enlarge)
			assert.Equal(t, tt.wantW, got.Bounds().Dx())
			assert.Equal(t, tt.wantH, got.Bounds().Dy())
		})
	}
}

func TestScale_DegenerateInput(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 0, 0))
	got := Scale(src, 100, 100, true)
	assert.Equal(t, image.Image(src), got, "degenerate image should pass through")
}
