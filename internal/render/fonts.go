package render

import (
	"fmt"
	"os"

	"github.com/genricoloni/mediapanel/internal/config"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
)

// Fonts holds every TTF face named by the setup file, parsed once at
// startup. Lookup failures cannot happen after config validation, but
// Face still falls back to the default face rather than panicking.
type Fonts struct {
	faces       map[string]font.Face
	defaultFace font.Face
}

// LoadFonts parses all configured font files. A font that cannot be
// loaded is a fatal startup error, matching the no-partial-config rule.
func LoadFonts(specs []config.FontSpec) (*Fonts, error) {
	fonts := &Fonts{faces: map[string]font.Face{}}
	for _, spec := range specs {
		data, err := os.ReadFile(spec.Path)
		if err != nil {
			return nil, fmt.Errorf("font %s: %w", spec.Name, err)
		}
		parsed, err := truetype.Parse(data)
		if err != nil {
			return nil, fmt.Errorf("font %s: parsing %s: %w", spec.Name, spec.Path, err)
		}
		face := truetype.NewFace(parsed, &truetype.Options{
			Size:    float64(spec.Size),
			Hinting: font.HintingFull,
		})
		fonts.faces[spec.Name] = face
		if spec.Name == "font_main" {
			fonts.defaultFace = face
		}
	}
	if fonts.defaultFace == nil {
		return nil, fmt.Errorf("font font_main: not defined")
	}
	return fonts, nil
}

// NewFontsFromFaces builds a registry from ready-made faces; tests use
// this to avoid needing TTF files on disk.
func NewFontsFromFaces(faces map[string]font.Face, def font.Face) *Fonts {
	return &Fonts{faces: faces, defaultFace: def}
}

// Face returns the named face, or the default face for unknown names.
func (f *Fonts) Face(name string) font.Face {
	if face, ok := f.faces[name]; ok {
		return face
	}
	return f.defaultFace
}

// Default returns the font_main face.
func (f *Fonts) Default() font.Face {
	return f.defaultFace
}
