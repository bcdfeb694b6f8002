package render

import (
	"context"
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
	"github.com/genricoloni/mediapanel/internal/artwork"
	"github.com/genricoloni/mediapanel/internal/config"
	"github.com/genricoloni/mediapanel/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Renderer owns the long-lived canvas and knows how to paint a layout
// for a snapshot. Static elements are painted once per layout
// activation; every further tick only repaints the progress bar and
// the fields marked dynamic, erasing against a base copy of the frame
// so stale pixels never linger.
type Renderer struct {
	logger   *zap.Logger
	fonts    *Fonts
	resolver *Resolver
	art      *artwork.Cache

	width  int
	height int

	canvas *image.RGBA
	base   *image.RGBA

	activeKey    string
	lastDynRects map[int]image.Rectangle
	lastBarRect  image.Rectangle
}

// NewRenderer creates a renderer for the configured panel size.
func NewRenderer(logger *zap.Logger, cfg *config.Config, fonts *Fonts, resolver *Resolver, art *artwork.Cache) *Renderer {
	return &Renderer{
		logger:       logger,
		fonts:        fonts,
		resolver:     resolver,
		art:          art,
		width:        cfg.DisplayWidth,
		height:       cfg.DisplayHeight,
		canvas:       image.NewRGBA(image.Rect(0, 0, cfg.DisplayWidth, cfg.DisplayHeight)),
		base:         image.NewRGBA(image.Rect(0, 0, cfg.DisplayWidth, cfg.DisplayHeight)),
		lastDynRects: map[int]image.Rectangle{},
	}
}

// Frame returns the current canvas contents.
func (r *Renderer) Frame() image.Image { return r.canvas }

// Render paints the layout for this tick and returns the frame. key
// identifies the (category, variant) pair; when it changes, or when
// force is set, everything repaints and statics are re-marked.
func (r *Renderer) Render(ctx context.Context, key string, layout *config.Layout, snap domain.Snapshot, force bool) image.Image {
	full := force || key != r.activeKey
	if full {
		if key != r.activeKey {
			r.art.Invalidate()
		}
		r.activeKey = key
		r.lastDynRects = map[int]image.Rectangle{}
		r.renderFull(ctx, layout, snap)
		return r.canvas
	}
	r.renderIncremental(layout, snap)
	return r.canvas
}

func (r *Renderer) renderFull(ctx context.Context, layout *config.Layout, snap domain.Snapshot) {
	r.paintBackground(layout)
	r.paintThumb(ctx, layout, snap)

	// Statics first, then a base copy for later erasing, then the
	// per-tick elements on top.
	for _, field := range layout.Fields {
		if field.Dynamic {
			continue
		}
		if inst, ok := r.resolver.Resolve(field, snap); ok {
			r.drawInstruction(inst)
		}
	}
	copy(r.base.Pix, r.canvas.Pix)

	r.lastBarRect = image.Rectangle{}
	if layout.Prog != nil {
		r.lastBarRect = barRect(layout.Prog)
		if snap.Progress >= 0 {
			drawProgress(r.canvas, layout.Prog, snap.Progress, r.elapsedText(snap))
		}
	}
	for i, field := range layout.Fields {
		if !field.Dynamic {
			continue
		}
		if inst, ok := r.resolver.Resolve(field, snap); ok {
			r.lastDynRects[i] = r.instructionRect(inst)
			r.drawInstruction(inst)
		}
	}
}

func (r *Renderer) renderIncremental(layout *config.Layout, snap domain.Snapshot) {
	// The bar region is erased every tick so that a fill painted while
	// progress was known does not outlive a snapshot where it is not.
	if layout.Prog != nil {
		r.erase(r.lastBarRect)
		if snap.Progress >= 0 {
			drawProgress(r.canvas, layout.Prog, snap.Progress, r.elapsedText(snap))
		}
	}
	for i, field := range layout.Fields {
		if !field.Dynamic {
			continue
		}
		if rect, ok := r.lastDynRects[i]; ok {
			r.erase(rect)
			delete(r.lastDynRects, i)
		}
		if inst, ok := r.resolver.Resolve(field, snap); ok {
			r.lastDynRects[i] = r.instructionRect(inst)
			r.drawInstruction(inst)
		}
	}
}

// RenderMessage clears the canvas and paints a single line, used for
// the connect-phase banner.
func (r *Renderer) RenderMessage(text string) image.Image {
	draw.Draw(r.canvas, r.canvas.Bounds(), image.NewUniform(namedColors["black"]), image.Point{}, draw.Src)
	r.activeKey = ""
	face := r.fonts.Default()
	drawer := &font.Drawer{
		Dst:  r.canvas,
		Src:  image.NewUniform(namedColors["white"]),
		Face: face,
		Dot:  fixed.P(5, 5+face.Metrics().Ascent.Ceil()),
	}
	drawer.DrawString(text)
	return r.canvas
}

func (r *Renderer) paintBackground(layout *config.Layout) {
	fill := namedColors["black"]
	if layout.Background != nil && layout.Background.Fill != "" {
		fill = ParseColor(layout.Background.Fill)
	}
	draw.Draw(r.canvas, r.canvas.Bounds(), image.NewUniform(fill), image.Point{}, draw.Src)

	if layout.Background != nil && layout.Background.Image != "" {
		img, err := imaging.Open(layout.Background.Image)
		if err != nil {
			r.logger.Warn("Background image unavailable",
				zap.String("path", layout.Background.Image), zap.Error(err))
			return
		}
		draw.Draw(r.canvas, r.canvas.Bounds(), img, img.Bounds().Min, draw.Over)
	}
}

func (r *Renderer) paintThumb(ctx context.Context, layout *config.Layout, snap domain.Snapshot) {
	thumb := layout.Thumb
	if thumb == nil {
		return
	}
	if !r.resolver.conditionsPass(thumb.DisplayIf, thumb.DisplayIfNot, snap) {
		return
	}

	cover := ""
	switch snap.Kind {
	case domain.KindAudio:
		cover = snap.Get("MusicPlayer.Cover")
	case domain.KindVideo:
		cover = snap.Get("VideoPlayer.Cover")
	}
	// A stale snapshot has no usable cover path; Cover falls back to
	// the category default, which doubles as the disconnected visual.
	img, err := r.art.Cover(ctx, cover, snap.Kind, thumb.BoxWidth(), thumb.BoxHeight(), thumb.Enlarge)
	if err != nil {
		r.logger.Debug("Using fallback artwork", zap.Error(err))
	}
	if img == nil {
		return
	}

	bounds := img.Bounds()
	x, y := thumb.PosX, thumb.PosY
	switch {
	case thumb.Center:
		x = (r.width - bounds.Dx()) / 2
		y = (r.height - bounds.Dy()) / 2
	case thumb.CenterSM && (bounds.Dx() < thumb.BoxWidth() || bounds.Dy() < thumb.BoxHeight()):
		if bounds.Dx() < thumb.BoxWidth() {
			x += (thumb.BoxWidth() - bounds.Dx()) / 2
		}
		if bounds.Dy() < thumb.BoxHeight() {
			y += (thumb.BoxHeight() - bounds.Dy()) / 2
		}
	}
	target := image.Rect(x, y, x+bounds.Dx(), y+bounds.Dy())
	draw.Draw(r.canvas, target, img, bounds.Min, draw.Over)
}

func (r *Renderer) elapsedText(snap domain.Snapshot) string {
	switch snap.Kind {
	case domain.KindVideo:
		return snap.Get("VideoPlayer.Time")
	default:
		return snap.Get("MusicPlayer.Time")
	}
}

// erase restores a region from the base frame (background, thumbnail
// and static fields as painted at activation).
func (r *Renderer) erase(rect image.Rectangle) {
	rect = rect.Intersect(r.canvas.Bounds())
	if rect.Empty() {
		return
	}
	draw.Draw(r.canvas, rect, r.base, rect.Min, draw.Src)
}

func (r *Renderer) drawInstruction(inst Instruction) {
	r.drawLines(inst)
	if inst.Label != nil {
		r.drawLines(*inst.Label)
	}
}

func (r *Renderer) drawLines(inst Instruction) {
	ascent := inst.Face.Metrics().Ascent.Ceil()
	for i, line := range inst.Lines {
		drawer := &font.Drawer{
			Dst:  r.canvas,
			Src:  image.NewUniform(inst.Fill),
			Face: inst.Face,
			Dot:  fixed.P(inst.X, inst.Y+ascent+i*inst.LineStep),
		}
		drawer.DrawString(line)
	}
}

func (r *Renderer) instructionRect(inst Instruction) image.Rectangle {
	w := 0
	for _, line := range inst.Lines {
		if lw := textWidth(inst.Face, line); lw > w {
			w = lw
		}
	}
	rect := image.Rect(inst.X, inst.Y, inst.X+w+1, inst.Y+inst.LineStep*len(inst.Lines)+1)
	if inst.Label != nil {
		rect = rect.Union(r.instructionRect(*inst.Label))
	}
	return rect
}
