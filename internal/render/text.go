package render

import (
	"strings"

	"golang.org/x/image/font"
)

// textWidth measures the advance of s in pixels.
func textWidth(face font.Face, s string) int {
	return font.MeasureString(face, s).Ceil()
}

// lineHeight is the vertical step between wrapped lines.
func lineHeight(face font.Face) int {
	metrics := face.Metrics()
	return (metrics.Ascent + metrics.Descent).Ceil()
}

// hardClip cuts s at the rightmost rune that still fits maxWidth
// pixels. No ellipsis is appended; the clip edge is the boundary.
func hardClip(face font.Face, s string, maxWidth int) string {
	if maxWidth <= 0 || textWidth(face, s) <= maxWidth {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		if textWidth(face, string(runes)) <= maxWidth {
			break
		}
	}
	return string(runes)
}

// wrapText breaks s on word boundaries into at most maxLines lines of
// at most maxWidth pixels each. Words are taken greedily; whatever
// does not fit the final line is clipped away without a marker.
func wrapText(face font.Face, s string, maxWidth, maxLines int) []string {
	if maxLines <= 0 {
		maxLines = 1
	}
	if textWidth(face, s) <= maxWidth {
		return []string{s}
	}
	if maxLines == 1 {
		return []string{hardClip(face, s, maxWidth)}
	}

	words := strings.Split(s, " ")
	lines := make([]string, 0, maxLines)
	i := 0
	for i < len(words) && len(lines) < maxLines-1 {
		line := ""
		for i < len(words) {
			candidate := line
			if candidate != "" {
				candidate += " "
			}
			candidate += words[i]
			if textWidth(face, candidate) > maxWidth && line != "" {
				break
			}
			line = candidate
			i++
			// A single word wider than the line still occupies it alone.
			if textWidth(face, line) > maxWidth {
				break
			}
		}
		lines = append(lines, line)
	}
	if i < len(words) {
		lines = append(lines, hardClip(face, strings.Join(words[i:], " "), maxWidth))
	}
	return lines
}
