package render

import (
	"image/color"
	"regexp"

	"github.com/genricoloni/mediapanel/internal/config"
	"github.com/genricoloni/mediapanel/internal/domain"
	"github.com/genricoloni/mediapanel/internal/snapshot"
	"golang.org/x/image/font"
)

// templateToken matches {Key} substitution points in format_str values.
var templateToken = regexp.MustCompile(`\{([^{}]+)\}`)

// Instruction is a ready-to-paint text element: resolved lines, pixel
// position, face and fill. A nil Label means the field has no caption
// or its caption was suppressed along with it.
type Instruction struct {
	Lines    []string
	X, Y     int
	Face     font.Face
	Fill     color.RGBA
	LineStep int
	Dynamic  bool
	Label    *Instruction
}

// Resolver turns field specs plus a snapshot into render instructions,
// applying the whole suppression pipeline: display conditions, empty
// checks, exclusion lists, prefix/suffix, truncation and wrapping.
type Resolver struct {
	fonts        *Fonts
	callbacks    *snapshot.Registry
	displayWidth int
}

// NewResolver creates a resolver bound to the loaded fonts and the
// callback registry.
func NewResolver(fonts *Fonts, callbacks *snapshot.Registry, displayWidth int) *Resolver {
	return &Resolver{fonts: fonts, callbacks: callbacks, displayWidth: displayWidth}
}

// Resolve evaluates one field against the snapshot. The second return
// is false when the field (and therefore its label) must not render.
func (r *Resolver) Resolve(field *config.FieldSpec, snap domain.Snapshot) (Instruction, bool) {
	if !r.conditionsPass(field.DisplayIf, field.DisplayIfNot, snap) {
		return Instruction{}, false
	}

	raw, fromTemplate := r.rawValue(field, snap)

	// A field whose only content source came up empty has nothing to
	// show; format_str fields keep going because the template itself
	// may carry literal text.
	if raw == "" && !fromTemplate {
		return Instruction{}, false
	}
	for _, excluded := range field.Exclude {
		if raw == excluded {
			return Instruction{}, false
		}
	}

	text := field.Prefix + raw + field.Suffix

	face := r.fonts.Face(field.Font)
	var lines []string
	switch {
	case field.Wrap:
		lines = wrapText(face, text, field.MaxWidth, field.MaxLines)
	case field.Trunc:
		boundary := field.MaxWidth
		if boundary <= 0 {
			boundary = r.displayWidth - field.PosX
		}
		lines = []string{hardClip(face, text, boundary)}
	default:
		lines = []string{text}
	}

	inst := Instruction{
		Lines:    lines,
		X:        field.PosX,
		Y:        field.PosY,
		Face:     face,
		Fill:     ParseColor(field.Fill),
		LineStep: lineHeight(face),
		Dynamic:  field.Dynamic,
	}

	if field.Label != "" {
		labelFace := r.fonts.Face(field.LFont)
		inst.Label = &Instruction{
			Lines:    []string{field.Label},
			X:        field.LPosX,
			Y:        field.LPosY,
			Face:     labelFace,
			Fill:     ParseColor(field.LFill),
			LineStep: lineHeight(labelFace),
			Dynamic:  field.Dynamic,
		}
	}
	return inst, true
}

// ResolveKey evaluates a bare key-or-callback name the way display
// conditions see it: callbacks win, then snapshot lookup.
func (r *Resolver) ResolveKey(name string, snap domain.Snapshot) string {
	if cb, ok := r.callbacks.Lookup(name); ok {
		return cb(snap)
	}
	return snap.Get(name)
}

func (r *Resolver) conditionsPass(ifCond, ifNotCond *config.Condition, snap domain.Snapshot) bool {
	if ifCond != nil && r.ResolveKey(ifCond.Key, snap) != ifCond.Value {
		return false
	}
	if ifNotCond != nil && r.ResolveKey(ifNotCond.Key, snap) == ifNotCond.Value {
		return false
	}
	return true
}

// rawValue produces the field's pre-decoration text. The bool reports
// whether it came from a format_str template.
func (r *Resolver) rawValue(field *config.FieldSpec, snap domain.Snapshot) (string, bool) {
	if cb, ok := r.callbacks.Lookup(field.Name); ok {
		return cb(snap), false
	}
	if field.FormatStr == "" {
		return snap.Get(field.Name), false
	}
	expanded := templateToken.ReplaceAllStringFunc(field.FormatStr, func(token string) string {
		key := token[1 : len(token)-1]
		return r.ResolveKey(key, snap)
	})
	return expanded, true
}
