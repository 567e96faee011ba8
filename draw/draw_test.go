package draw_test

import (
	"image"
	"image/color"
	"testing"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/BeatGlow/oled/draw"
	"github.com/BeatGlow/oled/pixel"
)

func lit(i *pixel.MonoVerticalLSBImage) (n int) {
	r := i.Bounds()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if i.Bit(x, y) {
				n++
			}
		}
	}
	return
}

func TestLine(t *testing.T) {
	tests := []struct {
		name string
		a, b image.Point
		want int
	}{
		{"point", image.Pt(3, 3), image.Pt(3, 3), 1},
		{"horizontal", image.Pt(0, 0), image.Pt(9, 0), 10},
		{"horizontal reversed", image.Pt(9, 2), image.Pt(0, 2), 10},
		{"vertical", image.Pt(1, 0), image.Pt(1, 15), 16},
		{"diagonal", image.Pt(0, 0), image.Pt(7, 7), 8},
		{"wide", image.Pt(0, 0), image.Pt(20, 5), 21},
		{"tall", image.Pt(2, 15), image.Pt(5, 0), 16},
	}
	for _, test := range tests {
		t.Run(test.name, func(it *testing.T) {
			i := pixel.NewMonoVerticalLSBImage(32, 16)
			draw.Line(i, test.a, test.b, pixel.On)
			if v := lit(i); v != test.want {
				it.Errorf("expected %d lit pixels, got %d", test.want, v)
			}
			if !i.Bit(test.a.X, test.a.Y) || !i.Bit(test.b.X, test.b.Y) {
				it.Errorf("expected both ends %s and %s to be lit", test.a, test.b)
			}
		})
	}
}

func TestRectangle(t *testing.T) {
	i := pixel.NewMonoVerticalLSBImage(32, 16)
	draw.Rectangle(i, image.Rect(2, 3, 12, 8), pixel.On)
	if v := lit(i); v != 26 {
		t.Fatalf("expected 26 lit pixels, got %d", v)
	}
	for _, p := range []image.Point{{2, 3}, {11, 3}, {2, 7}, {11, 7}} {
		if !i.Bit(p.X, p.Y) {
			t.Errorf("expected corner %s to be lit", p)
		}
	}
	for _, p := range []image.Point{{12, 3}, {2, 8}, {5, 5}} {
		if i.Bit(p.X, p.Y) {
			t.Errorf("expected %s to be off", p)
		}
	}
}

func TestBox(t *testing.T) {
	i := pixel.NewMonoVerticalLSBImage(32, 16)
	draw.Box(i, image.Rect(4, 2, 10, 12), pixel.On)
	if v := lit(i); v != 60 {
		t.Fatalf("expected 60 lit pixels, got %d", v)
	}
	draw.Box(i, image.Rect(5, 3, 9, 11), pixel.Off)
	if v := lit(i); v != 28 {
		t.Fatalf("expected 28 lit pixels after clearing the inside, got %d", v)
	}
}

func TestCircle(t *testing.T) {
	i := pixel.NewMonoVerticalLSBImage(32, 32)
	c := image.Pt(16, 16)
	draw.Circle(i, c, 10, pixel.On)
	for _, p := range []image.Point{{26, 16}, {6, 16}, {16, 6}, {16, 26}} {
		if !i.Bit(p.X, p.Y) {
			t.Errorf("expected %s to be lit", p)
		}
	}
	if i.Bit(c.X, c.Y) {
		t.Error("expected center to be off")
	}
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			if i.Bit(x, y) != i.Bit(32-x, y) && x > 0 {
				t.Fatalf("circle is not symmetric at (%d,%d)", x, y)
			}
		}
	}
}

func TestRoundedShapes(t *testing.T) {
	rect := image.Rect(2, 2, 30, 14)

	i := pixel.NewMonoVerticalLSBImage(32, 16)
	draw.RoundedRectangle(i, rect, 4, pixel.On)
	if i.Bit(2, 2) {
		t.Error("rounded rectangle: expected corner to be off")
	}
	if !i.Bit(16, 2) || !i.Bit(16, 13) || !i.Bit(2, 8) || !i.Bit(29, 8) {
		t.Error("rounded rectangle: expected edge midpoints to be lit")
	}
	if i.Bit(16, 8) {
		t.Error("rounded rectangle: expected inside to be off")
	}

	i.Clear()
	draw.RoundedBox(i, rect, 4, pixel.On)
	if i.Bit(2, 2) || i.Bit(29, 13) {
		t.Error("rounded box: expected corners to be off")
	}
	if !i.Bit(16, 8) || !i.Bit(2, 8) || !i.Bit(16, 2) {
		t.Error("rounded box: expected inside to be lit")
	}
	if v, max := lit(i), rect.Dx()*rect.Dy(); v >= max {
		t.Errorf("rounded box: expected less than %d lit pixels, got %d", max, v)
	}
	if i.Bit(30, 8) || i.Bit(16, 14) {
		t.Error("rounded box: drawn outside of its rectangle")
	}
}

func TestHorizontalRule(t *testing.T) {
	i := pixel.NewMonoVerticalLSBImage(128, 64)
	draw.HorizontalRule(i, 2, pixel.On)
	if v := lit(i); v != 128 {
		t.Fatalf("expected 128 lit pixels, got %d", v)
	}
	for x := 0; x < 128; x++ {
		if !i.Bit(x, 19) {
			t.Fatalf("expected (%d,19) to be lit", x)
		}
	}
}

func TestBitmap(t *testing.T) {
	dc := gg.NewContext(16, 16)
	dc.SetRGB(0, 0, 0)
	dc.Clear()
	dc.SetRGB(1, 1, 1)
	dc.DrawRectangle(4, 4, 8, 8)
	dc.Fill()

	i := pixel.NewMonoVerticalLSBImage(32, 16)
	i.Fill(pixel.On)
	draw.Bitmap(i, image.Pt(10, 0), dc.Image())

	for _, p := range []image.Point{{16, 6}, {20, 10}, {15, 5}} {
		if !i.Bit(p.X, p.Y) {
			t.Errorf("expected %s to be lit", p)
		}
	}
	for _, p := range []image.Point{{11, 1}, {24, 14}, {10, 0}} {
		if i.Bit(p.X, p.Y) {
			t.Errorf("expected %s to be replaced by the black background", p)
		}
	}
	for _, p := range []image.Point{{9, 8}, {26, 8}} {
		if !i.Bit(p.X, p.Y) {
			t.Errorf("expected %s outside the bitmap to be untouched", p)
		}
	}
}

func TestText(t *testing.T) {
	i := pixel.NewMonoVerticalLSBImage(64, 16)
	dot := draw.Text(i, image.Pt(0, 12), nil, "Hi", color.White)
	if dot.X != 14 || dot.Y != 12 {
		t.Errorf("expected dot at (14,12), got %s", dot)
	}
	if v := draw.TextWidth(nil, "Hi"); v != 14 {
		t.Errorf("expected width 14, got %d", v)
	}
	if lit(i) == 0 {
		t.Fatal("expected text to light some pixels")
	}
	for y := 0; y < 16; y++ {
		for x := 14; x < 64; x++ {
			if i.Bit(x, y) {
				t.Fatalf("expected (%d,%d) right of the text to be off", x, y)
			}
		}
	}
}

func TestTrueType(t *testing.T) {
	face, err := draw.TrueType(goregular.TTF, 12)
	if err != nil {
		t.Fatal(err)
	}
	i := pixel.NewMonoVerticalLSBImage(128, 32)
	draw.TextLine(i, 0, 1, face, "periph", pixel.On)
	if lit(i) == 0 {
		t.Fatal("expected text to light some pixels")
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 128; x++ {
			if i.Bit(x, y) {
				t.Fatalf("expected page 0 to stay empty, (%d,%d) is lit", x, y)
			}
		}
	}

	if _, err = draw.TrueType([]byte("not a font"), 12); err == nil {
		t.Fatal("expected an error parsing garbage")
	}
}
