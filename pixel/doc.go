// Package pixel implements the 1-bit color model and the page-packed pixel buffer used by
// SSD1306 class OLED controllers.
//
// The types are compatible with Go's native [color.Color] and [image.Image] / [draw.Image]
// interfaces, so the standard library and the draw package can paint on them directly.
package pixel
