package oled

import (
	"image/color"

	"tinygo.org/x/drivers"

	"github.com/BeatGlow/oled/pixel"
)

// Displayer adapts the driver to the TinyGo [drivers.Displayer] interface, so tinyfont and
// the other TinyGo graphics packages can paint on it.
type Displayer struct {
	d *SSD1306
}

// Displayer returns the TinyGo view of the driver.
func (d *SSD1306) Displayer() Displayer {
	return Displayer{d: d}
}

func (v Displayer) Size() (x, y int16) {
	r := v.d.Bounds()
	return int16(r.Dx()), int16(r.Dy())
}

func (v Displayer) SetPixel(x, y int16, c color.RGBA) {
	v.d.SetPixel(int(x), int(y), pixel.IsOn(c))
}

func (v Displayer) Display() error {
	return v.d.Display()
}

var _ drivers.Displayer = Displayer{}
