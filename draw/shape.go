package draw

import (
	"image"
	"image/color"
)

// Line draws a line between two points.
func Line(dst Image, a, b image.Point, c color.Color) {
	bresenham(dst, a.X, a.Y, b.X, b.Y, c)
}

// HorizontalLine draws a line between (x,y) and (x+w-1,y).
func HorizontalLine(dst Image, x, y, w int, c color.Color) {
	for i := 0; i < w; i++ {
		dst.Set(x+i, y, c)
	}
}

// VerticalLine draws a line between (x,y) and (x,y+h-1).
func VerticalLine(dst Image, x, y, h int, c color.Color) {
	for i := 0; i < h; i++ {
		dst.Set(x, y+i, c)
	}
}

// HorizontalRule draws a full width line through the middle of the 8 row page.
func HorizontalRule(dst Image, page int, c color.Color) {
	b := dst.Bounds()
	HorizontalLine(dst, b.Min.X, b.Min.Y+page*8+3, b.Dx(), c)
}

// Rectangle draws the outline of rect. Max is exclusive, as with [image.Rectangle].
func Rectangle(dst Image, rect image.Rectangle, c color.Color) {
	if rect.Empty() {
		return
	}
	w, h := rect.Dx(), rect.Dy()
	HorizontalLine(dst, rect.Min.X, rect.Min.Y, w, c)
	HorizontalLine(dst, rect.Min.X, rect.Max.Y-1, w, c)
	VerticalLine(dst, rect.Min.X, rect.Min.Y, h, c)
	VerticalLine(dst, rect.Max.X-1, rect.Min.Y, h, c)
}

// RoundedRectangle draws a rectangle with radius pixels rounded corners.
func RoundedRectangle(dst Image, rect image.Rectangle, radius int, c color.Color) {
	var (
		r = radius
		x = rect.Min.X
		y = rect.Min.Y
		w = rect.Dx()
		h = rect.Dy()
	)
	HorizontalLine(dst, x+r, y, w-2*r, c)
	HorizontalLine(dst, x+r, y+h-1, w-2*r, c)
	VerticalLine(dst, x, y+r, h-2*r, c)
	VerticalLine(dst, x+w-1, y+r, h-2*r, c)
	left, right := x+r, x+w-r-1
	top, bottom := y+r, y+h-r-1
	octant(r, func(dx, dy int) {
		dst.Set(left-dx, top-dy, c)
		dst.Set(left-dy, top-dx, c)
		dst.Set(right+dx, top-dy, c)
		dst.Set(right+dy, top-dx, c)
		dst.Set(right+dx, bottom+dy, c)
		dst.Set(right+dy, bottom+dx, c)
		dst.Set(left-dx, bottom+dy, c)
		dst.Set(left-dy, bottom+dx, c)
	})
}

// Box draws a filled rectangle.
func Box(dst Image, rect image.Rectangle, c color.Color) {
	h := rect.Dy()
	for x := rect.Min.X; x < rect.Max.X; x++ {
		VerticalLine(dst, x, rect.Min.Y, h, c)
	}
}

// RoundedBox draws a filled rectangle with radius pixels rounded corners.
func RoundedBox(dst Image, rect image.Rectangle, radius int, c color.Color) {
	var (
		r = radius
		x = rect.Min.X
		y = rect.Min.Y
		w = rect.Dx()
		h = rect.Dy()
	)
	Box(dst, image.Rect(x+r, y, x+w-r, y+h), c)
	Box(dst, image.Rect(x, y+r, x+r, y+h-r), c)
	Box(dst, image.Rect(x+w-r, y+r, x+w, y+h-r), c)
	left, right := x+r, x+w-r-1
	top, bottom := y+r, y+h-r-1
	octant(r, func(dx, dy int) {
		HorizontalLine(dst, left-dx, top-dy, dx, c)
		HorizontalLine(dst, left-dy, top-dx, dy, c)
		HorizontalLine(dst, right+1, top-dy, dx, c)
		HorizontalLine(dst, right+1, top-dx, dy, c)
		HorizontalLine(dst, left-dx, bottom+dy, dx, c)
		HorizontalLine(dst, left-dy, bottom+dx, dy, c)
		HorizontalLine(dst, right+1, bottom+dy, dx, c)
		HorizontalLine(dst, right+1, bottom+dx, dy, c)
	})
}

// Circle draws the outline of a circle around center.
func Circle(dst Image, center image.Point, radius int, c color.Color) {
	octant(radius, func(dx, dy int) {
		for _, p := range [...]image.Point{
			{dx, dy}, {dy, dx}, {-dx, dy}, {-dy, dx},
			{dx, -dy}, {dy, -dx}, {-dx, -dy}, {-dy, -dx},
		} {
			dst.Set(center.X+p.X, center.Y+p.Y, c)
		}
	})
}

// octant walks one octant of a midpoint circle and calls plot for every step.
func octant(radius int, plot func(dx, dy int)) {
	var (
		f  = 1 - radius
		dx = 0
		dy = radius
	)
	for dx <= dy {
		plot(dx, dy)
		dx++
		if f < 0 {
			f += 2*dx + 1
		} else {
			dy--
			f += 2*(dx-dy) + 1
		}
	}
}

// bresenham plots a line between (x1,y1) and (x2,y2), both ends included.
func bresenham(dst Image, x1, y1, x2, y2 int, c color.Color) {
	dx, sx := abs(x2-x1), 1
	if x1 > x2 {
		sx = -1
	}
	dy, sy := -abs(y2-y1), 1
	if y1 > y2 {
		sy = -1
	}
	e := dx + dy
	for {
		dst.Set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x1 += sx
		}
		if e2 <= dx {
			e += dx
			y1 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
