// Package draw contains drawing primitives for pixel surfaces.
//
// Everything in here works on a plain [image/draw.Image], so the primitives paint on the OLED
// driver, on a bare pixel buffer or on a standard library image alike. The destination color
// model decides how colors are reduced (a monochrome surface thresholds them).
package draw

import (
	"image"
	"image/draw"
)

// Drawer is an alias for [image/draw.Drawer].
type Drawer = draw.Drawer

// Image is an alias for [image/draw.Image].
type Image = draw.Image

// Op is an alias for image/draw.Op
type Op = draw.Op

const (
	// Over specifies ``(src in mask) over dst''.
	Over Op = iota

	// Src specifies ``src in mask''.
	Src
)

// Draw calls [DrawMask] with a nil mask.
func Draw(dst Image, r image.Rectangle, src image.Image, sp image.Point, op Op) {
	DrawMask(dst, r, src, sp, nil, image.Point{}, op)
}

// DrawMask aligns r.Min in dst with sp in src and mp in mask and then replaces the rectangle r
// in dst with the result of a Porter-Duff composition. A nil mask is treated as opaque.
func DrawMask(dst Image, r image.Rectangle, src image.Image, sp image.Point, mask image.Image, mp image.Point, op Op) {
	draw.DrawMask(dst, r, src, sp, mask, mp, op)
}

// Bitmap copies src onto dst with the top left corner of src at pt.
//
// Every source pixel replaces the destination pixel, converted by the destination color model;
// on a monochrome surface this thresholds the image by luminance.
func Bitmap(dst Image, pt image.Point, src image.Image) {
	b := src.Bounds()
	r := image.Rectangle{Min: pt, Max: pt.Add(b.Size())}
	Draw(dst, r, src, b.Min, Src)
}
