// Package oled drives monochrome 128x64 OLED panels built on the SSD1306 controller over I²C.
//
// The driver keeps a local framebuffer that mirrors the controller display RAM. Drawing only
// touches that buffer; nothing reaches the panel until [SSD1306.Display] streams the whole
// buffer over the bus. The driver is a [draw.Image], so the primitives of the draw package
// and the standard library image packages paint on it directly.
//
// Bus failures never abort a sequence: every transaction is attempted, failures are reported
// to [Config.OnError] and summarised in the returned *[BusError].
package oled

import (
	"errors"
	"fmt"
	"os"

	"github.com/BeatGlow/oled/draw"
)

var debug bool

func init() {
	debug = os.Getenv("OLED_DEBUG") != ""
}

// Errors
var (
	ErrBounds   = errors.New("oled: out of display bounds")
	ErrGeometry = errors.New("oled: unsupported display geometry")
	ErrBus      = errors.New("oled: bus transaction failed")
	ErrPin      = errors.New("oled: invalid GPIO pin")
)

// BusError reports the failed transactions of one operation. The operation itself ran to
// completion.
type BusError struct {
	// Op is the driver operation, such as "display" or "init".
	Op string

	// Failed is the number of command or data writes that failed.
	Failed int

	// Err is the first transport error.
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("oled: %s: %d bus write(s) failed: %v", e.Op, e.Failed, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

func (e *BusError) Is(target error) bool {
	return target == ErrBus
}

// Surface is a monochrome pixel surface.
type Surface interface {
	draw.Image

	// SetPixel lights or clears the pixel at (x, y).
	SetPixel(x, y int, on bool)

	// Pixel reports whether the pixel at (x, y) is lit.
	Pixel(x, y int) bool
}

// AddressingMode is the controller memory addressing mode.
type AddressingMode uint8

// Supported addressing modes, the values are the mode selector bytes on the wire.
const (
	// HorizontalAddressing auto-advances the cursor over the columns and wraps to the next page.
	HorizontalAddressing AddressingMode = 0x00

	// PageAddressing keeps the cursor on its page; it is moved with explicit commands.
	PageAddressing AddressingMode = 0x02
)

func (m AddressingMode) String() string {
	switch m {
	case HorizontalAddressing:
		return "horizontal"
	case PageAddressing:
		return "page"
	default:
		return fmt.Sprintf("AddressingMode(%#02x)", uint8(m))
	}
}

// Config is the display configuration.
//
// Supported sizes are 128x64, 128x32, 96x16, 64x48 and 64x32.
type Config struct {
	// Width of the display in pixels. Zero means 128.
	Width int

	// Height of the display in pixels. Zero means 64.
	Height int

	// OnError is called for every failed bus write. Nil ignores failures.
	OnError func(error)
}

// DefaultConfig is the 128x64 panel.
var DefaultConfig = Config{
	Width:  128,
	Height: 64,
}

func (c *Config) panel() (panel, error) {
	w, h := c.Width, c.Height
	if w == 0 {
		w = DefaultConfig.Width
	}
	if h == 0 {
		h = DefaultConfig.Height
	}
	p, ok := lookupPanel(w, h)
	if !ok {
		return panel{}, fmt.Errorf("%w %dx%d", ErrGeometry, w, h)
	}
	return p, nil
}
