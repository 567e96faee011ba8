package draw

import (
	"image"
	"image/color"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// DefaultFace is the fixed 7x13 pixel font from x/image.
var DefaultFace font.Face = basicfont.Face7x13

// Text draws s with the baseline of its first glyph at dot and returns the dot after the
// last glyph. A nil face uses [DefaultFace].
func Text(dst Image, dot image.Point, face font.Face, s string, c color.Color) image.Point {
	if face == nil {
		face = DefaultFace
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
		Dot:  fixed.P(dot.X, dot.Y),
	}
	d.DrawString(s)
	return image.Pt(d.Dot.X.Round(), d.Dot.Y.Round())
}

// TextLine draws s inside the 8 row page, with the font ascent aligned to the top of the page.
func TextLine(dst Image, x, page int, face font.Face, s string, c color.Color) image.Point {
	if face == nil {
		face = DefaultFace
	}
	top := dst.Bounds().Min.Y + page*8
	return Text(dst, image.Pt(x, top+face.Metrics().Ascent.Ceil()), face, s, c)
}

// TextWidth returns the advance of s in pixels.
func TextWidth(face font.Face, s string) int {
	if face == nil {
		face = DefaultFace
	}
	return font.MeasureString(face, s).Ceil()
}

// TrueType parses a TrueType font and returns a face of size points.
//
// Hinting is enabled, which keeps small sizes legible once thresholded to one bit.
func TrueType(ttf []byte, size float64) (font.Face, error) {
	f, err := truetype.Parse(ttf)
	if err != nil {
		return nil, err
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	}), nil
}
