package emulator

import (
	"bytes"
	"image"
	"image/color"
	"io"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"

	"github.com/BeatGlow/oled/pixel"
)

// TerminalOpts are the options for a terminal preview.
type TerminalOpts struct {
	// W is the output; stdout with ANSI translation when nil.
	W io.Writer

	// Palette used for the blocks, ansi256.Default when nil.
	Palette *ansi256.Palette

	// On and Off are the lit and dark pixel colors.
	On, Off color.NRGBA

	// Home moves the cursor to the top left corner before every frame.
	Home bool
}

// Terminal renders a monochrome image to a terminal using ANSI color codes.
type Terminal struct {
	w       io.Writer
	palette ansi256.Palette
	on      string
	off     string
	home    bool
	buf     bytes.Buffer
}

// NewTerminal returns a terminal preview.
func NewTerminal(opts *TerminalOpts) *Terminal {
	o := TerminalOpts{}
	if opts != nil {
		o = *opts
	}
	if o.W == nil {
		o.W = colorable.NewColorableStdout()
	}
	p := o.Palette
	if p == nil {
		p = ansi256.Default
	}
	if o.On == (color.NRGBA{}) {
		o.On = color.NRGBA{R: 0x80, G: 0xd0, B: 0xff, A: 0xff}
	}
	if o.Off == (color.NRGBA{}) {
		o.Off = color.NRGBA{A: 0xff}
	}
	t := &Terminal{
		w:       o.W,
		palette: *p,
		home:    o.Home,
	}
	t.on = t.palette.Block(o.On)
	t.off = t.palette.Block(o.Off)
	return t
}

func (t *Terminal) String() string {
	return "Terminal"
}

// Render writes one block per pixel, one line per row.
func (t *Terminal) Render(img image.Image) error {
	t.buf.Reset()
	if t.home {
		_, _ = t.buf.WriteString("\033[H")
	}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if pixel.IsOn(img.At(x, y)) {
				_, _ = t.buf.WriteString(t.on)
			} else {
				_, _ = t.buf.WriteString(t.off)
			}
		}
		_, _ = t.buf.WriteString("\033[0m\n")
	}
	_, err := t.buf.WriteTo(t.w)
	return err
}

// RenderController renders what the emulated panel currently shows.
func (t *Terminal) RenderController(c *Controller) error {
	return t.Render(c.Frame())
}

// Halt resets the terminal colors.
func (t *Terminal) Halt() error {
	_, err := io.WriteString(t.w, "\033[0m")
	return err
}
