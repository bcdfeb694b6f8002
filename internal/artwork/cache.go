package artwork

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/genricoloni/mediapanel/internal/config"
	"github.com/genricoloni/mediapanel/internal/domain"
	"go.uber.org/zap"
)

// placeholderCover is the artwork value the player reports when a
// track has no real cover; it is never worth fetching.
const placeholderCover = "DefaultAlbumCover.png"

// Cache turns player artwork paths into panel-sized images. Any given
// cover is fetched and scaled once; subsequent ticks reuse the result
// until the path changes or the cache is invalidated on a mode switch.
type Cache struct {
	logger  *zap.Logger
	querier domain.Querier
	fetcher domain.Fetcher

	defaults config.DefaultImages

	mu        sync.Mutex
	lastPath  string
	lastThumb image.Image
}

// NewCache creates the artwork cache.
func NewCache(logger *zap.Logger, querier domain.Querier, fetcher domain.Fetcher, defaults config.DefaultImages) *Cache {
	return &Cache{
		logger:   logger,
		querier:  querier,
		fetcher:  fetcher,
		defaults: defaults,
	}
}

// Invalidate drops the cached cover so the next Cover call refetches.
// Called on layout/mode switches, where the box geometry may change.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	c.lastPath = ""
	c.lastThumb = nil
	c.mu.Unlock()
}

// Cover resolves the artwork for coverPath, scaled into boxW x boxH.
// Images larger than the box are scaled down preserving aspect ratio;
// smaller ones stay as-is unless enlarge is set. On any failure the
// per-category default image is returned along with the error, so the
// renderer always has something to paint.
func (c *Cache) Cover(ctx context.Context, coverPath string, kind domain.PlayerKind, boxW, boxH int, enlarge bool) (image.Image, error) {
	if coverPath == "" || coverPath == placeholderCover {
		return c.defaultFor(kind), nil
	}

	c.mu.Lock()
	if coverPath == c.lastPath && c.lastThumb != nil {
		thumb := c.lastThumb
		c.mu.Unlock()
		return thumb, nil
	}
	c.mu.Unlock()

	thumb, err := c.retrieve(ctx, coverPath, boxW, boxH, enlarge)
	if err != nil {
		c.logger.Warn("Artwork retrieval failed, using default",
			zap.String("path", coverPath), zap.Error(err))
		return c.defaultFor(kind), err
	}

	c.mu.Lock()
	c.lastPath = coverPath
	c.lastThumb = thumb
	c.mu.Unlock()
	return thumb, nil
}

func (c *Cache) retrieve(ctx context.Context, coverPath string, boxW, boxH int, enlarge bool) (image.Image, error) {
	url, err := c.querier.ArtworkURL(ctx, coverPath)
	if err != nil {
		return nil, fmt.Errorf("resolving artwork url: %w", err)
	}
	data, err := c.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetching artwork: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding artwork: %w", err)
	}
	return Scale(img, boxW, boxH, enlarge), nil
}

// Scale fits img into the box. Oversized images shrink preserving
// aspect ratio; undersized ones are only blown up when enlarge is set.
func Scale(img image.Image, boxW, boxH int, enlarge bool) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	if w <= 0 || h <= 0 || boxW <= 0 || boxH <= 0 {
		return img
	}
	if w > boxW || h > boxH {
		return imaging.Fit(img, boxW, boxH, imaging.Lanczos)
	}
	if !enlarge {
		return img
	}
	// Upscale to the box edge that binds first.
	scaleW := float64(boxW) / float64(w)
	scaleH := float64(boxH) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	return imaging.Resize(img, int(float64(w)*scale), int(float64(h)*scale), imaging.Lanczos)
}

// defaultFor loads the per-category fallback image, or nil when none
// is configured (the renderer then simply leaves the box empty).
func (c *Cache) defaultFor(kind domain.PlayerKind) image.Image {
	var path string
	switch kind {
	case domain.KindVideo:
		path = c.defaults.Video
	case domain.KindAudio:
		path = c.defaults.Audio
	default:
		path = c.defaults.Status
	}
	if path == "" {
		return nil
	}
	img, err := imaging.Open(path)
	if err != nil {
		c.logger.Warn("Default image unavailable", zap.String("path", path), zap.Error(err))
		return nil
	}
	return img
}
