package oled

import (
	"image/color"
	"testing"

	"tinygo.org/x/tinyfont"
)

func TestDisplayer(t *testing.T) {
	d, bus := newTestDisplay(t, nil)
	d.ClearDisplay()
	v := d.Displayer()

	if x, y := v.Size(); x != 128 || y != 64 {
		t.Fatalf("expected size 128x64, got %dx%d", x, y)
	}

	v.SetPixel(3, 4, color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	if !d.Pixel(3, 4) {
		t.Error("expected white to light the pixel")
	}
	v.SetPixel(3, 4, color.RGBA{A: 0xff})
	if d.Pixel(3, 4) {
		t.Error("expected black to clear the pixel")
	}

	tinyfont.WriteLine(v, &tinyfont.Picopixel, 0, 10, "Hi", color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff})
	var lit int
	for y := 0; y < 64; y++ {
		for x := 0; x < 128; x++ {
			if d.Pixel(x, y) {
				if y > 12 || x > 20 {
					t.Fatalf("(%d,%d): expected text to stay near the origin", x, y)
				}
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("expected text to light some pixels")
	}
	if len(bus.Ops) != 0 {
		t.Fatalf("expected no bus traffic before Display, got %d transactions", len(bus.Ops))
	}

	if err := v.Display(); err != nil {
		t.Fatal(err)
	}
	if n := len(bus.Ops); n != 8*(3+128) {
		t.Fatalf("expected a full flush, got %d transactions", n)
	}
}
