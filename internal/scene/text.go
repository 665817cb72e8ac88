package scene

import (
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

// PointsPerLine converts font size to scene units: a line of 72pt text is
// one scene unit tall.
const PointsPerLine = 72.0

// GlyphFace is the bitmap face used for both layout metrics and raster
// output, so measured boxes match drawn text.
var GlyphFace = basicfont.Face7x13

// GlyphLineHeight is the face's line height in face pixels.
const GlyphLineHeight = 13

// TextExtent returns the width and height of text in scene units.
// Lines are separated by '\n'.
func TextExtent(text string, fontSize float64) (float64, float64) {
	lines := strings.Split(text, "\n")
	widest := 0
	for _, line := range lines {
		if w := font.MeasureString(GlyphFace, line).Ceil(); w > widest {
			widest = w
		}
	}
	k := FaceScale(fontSize)
	return float64(widest) * k, float64(GlyphLineHeight*len(lines)) * k
}

// FaceScale is the number of scene units per face pixel at fontSize.
func FaceScale(fontSize float64) float64 {
	return fontSize / PointsPerLine / GlyphLineHeight
}
