// Package emulator implements an in-process SSD1306 controller that sits on an I²C bus.
//
// The [Controller] decodes the command and data transactions the driver sends, keeps the
// display RAM and the addressing state, and renders the panel to a terminal with
// [Terminal]. It is a drop-in [i2c.BusCloser], which makes it useful both for tests that
// need more than a trace and for developing without hardware.
package emulator

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/oled/pixel"
)

// Errors.
var (
	ErrNack    = errors.New("emulator: no device at address")
	ErrControl = errors.New("emulator: invalid control byte")
)

// Addressing modes, as selected by the 0x20 command.
const (
	HorizontalMode = 0x00
	VerticalMode   = 0x01
	PageMode       = 0x02
)

// Opts are the emulated controller options.
type Opts struct {
	// W and H are the panel size, 128x64 when zero.
	W, H int

	// Addr is the 7-bit bus address, 0x3c when zero.
	Addr uint16
}

// Stats counts the traffic seen by the controller.
type Stats struct {
	Transactions int
	Commands     int
	Data         int
}

// Controller is an emulated SSD1306.
type Controller struct {
	mu   sync.Mutex
	addr uint16
	ram  *pixel.MonoVerticalLSBImage

	mode        byte
	col, page   int
	pageModeCol int
	colStart    int
	colEnd      int
	pageStart   int
	pageEnd     int
	on          bool
	inverted    bool
	entireOn    bool
	chargePump  bool
	scrolling   bool
	contrast    byte
	multiplex   int
	pending     []byte
	stats       Stats
}

// New returns a controller in its power on reset state.
func New(opts *Opts) *Controller {
	o := Opts{}
	if opts != nil {
		o = *opts
	}
	if o.W == 0 {
		o.W = 128
	}
	if o.H == 0 {
		o.H = 64
	}
	if o.Addr == 0 {
		o.Addr = 0x3c
	}

	c := &Controller{
		addr: o.Addr,
		ram:  pixel.NewMonoVerticalLSBImage(o.W, o.H),
	}
	c.reset()
	return c
}

func (c *Controller) reset() {
	c.mode = PageMode
	c.col, c.page, c.pageModeCol = 0, 0, 0
	c.colStart, c.colEnd = 0, c.ram.Stride-1
	c.pageStart, c.pageEnd = 0, c.ram.Pages()-1
	c.on, c.inverted, c.entireOn, c.chargePump, c.scrolling = false, false, false, false, false
	c.contrast = 0x7f
	c.multiplex = c.ram.Rect.Dy() - 1
	c.pending = nil
}

func (c *Controller) String() string {
	return fmt.Sprintf("SSD1306 emulator %dx%d@%#02x", c.ram.Rect.Dx(), c.ram.Rect.Dy(), c.addr)
}

// SetSpeed implements i2c.Bus, any speed is accepted.
func (c *Controller) SetSpeed(physic.Frequency) error {
	return nil
}

// Close implements io.Closer.
func (c *Controller) Close() error {
	return nil
}

// Tx implements i2c.Bus.
//
// Reads return the status byte; bit 6 is set while the panel is off.
func (c *Controller) Tx(addr uint16, w, r []byte) error {
	if addr != c.addr {
		return fmt.Errorf("%w %#02x", ErrNack, addr)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.Transactions++
	for i := 0; i < len(w); {
		control := w[i]
		i++
		if control&0x3f != 0 {
			return fmt.Errorf("%w %#02x at offset %d", ErrControl, control, i-1)
		}
		isData := control&0x40 != 0
		if control&0x80 != 0 {
			// Continuation: one byte, then another control byte.
			if i < len(w) {
				c.write(isData, w[i])
				i++
			}
			continue
		}
		for ; i < len(w); i++ {
			c.write(isData, w[i])
		}
	}

	if len(r) > 0 {
		var status byte
		if !c.on {
			status |= 0x40
		}
		for i := range r {
			r[i] = status
		}
	}
	return nil
}

func (c *Controller) write(isData bool, b byte) {
	if isData {
		c.stats.Data++
		c.data(b)
		return
	}
	c.stats.Commands++
	if c.pending != nil {
		c.pending = append(c.pending, b)
		if len(c.pending) > argCount(c.pending[0]) {
			c.exec(c.pending[0], c.pending[1:])
			c.pending = nil
		}
		return
	}
	if argCount(b) > 0 {
		c.pending = []byte{b}
		return
	}
	c.exec(b, nil)
}

// argCount is the number of argument bytes following a command byte.
func argCount(cmd byte) int {
	switch cmd {
	case 0x20, 0x81, 0x8D, 0xA8, 0xD3, 0xD5, 0xD9, 0xDA, 0xDB:
		return 1
	case 0x21, 0x22, 0xA3:
		return 2
	case 0x29, 0x2A:
		return 5
	case 0x26, 0x27:
		return 6
	}
	return 0
}

func (c *Controller) exec(cmd byte, args []byte) {
	switch {
	case cmd <= 0x0F:
		c.pageModeCol = c.pageModeCol&0xF0 | int(cmd&0x0F)
		if c.mode == PageMode {
			c.col = c.pageModeCol
		}
	case cmd <= 0x1F:
		c.pageModeCol = int(cmd&0x0F)<<4 | c.pageModeCol&0x0F
		if c.mode == PageMode {
			c.col = c.pageModeCol
		}
	case cmd == 0x20:
		if mode := args[0] & 0x03; mode != 0x03 {
			c.mode = mode
		}
	case cmd == 0x21:
		c.colStart, c.colEnd = c.clampCol(int(args[0]&0x7f)), c.clampCol(int(args[1]&0x7f))
		c.col = c.colStart
	case cmd == 0x22:
		c.pageStart, c.pageEnd = c.clampPage(int(args[0]&0x07)), c.clampPage(int(args[1]&0x07))
		c.page = c.pageStart
	case cmd == 0x26, cmd == 0x27, cmd == 0x29, cmd == 0x2A:
		// Scroll setup, the emulator does not animate it.
	case cmd == 0x2E:
		c.scrolling = false
	case cmd == 0x2F:
		c.scrolling = true
	case cmd >= 0x40 && cmd <= 0x7F:
		// Display start line, not modelled.
	case cmd == 0x81:
		c.contrast = args[0]
	case cmd == 0x8D:
		c.chargePump = args[0]&0x04 != 0
	case cmd == 0xA4, cmd == 0xA5:
		c.entireOn = cmd == 0xA5
	case cmd == 0xA6, cmd == 0xA7:
		c.inverted = cmd == 0xA7
	case cmd == 0xA8:
		c.multiplex = int(args[0] & 0x3f)
	case cmd == 0xAE, cmd == 0xAF:
		c.on = cmd == 0xAF
	case cmd >= 0xB0 && cmd <= 0xB7:
		if p := int(cmd & 0x07); c.mode == PageMode && p < c.ram.Pages() {
			c.page = p
		}
	}
}

func (c *Controller) clampCol(v int) int {
	if v >= c.ram.Stride {
		return c.ram.Stride - 1
	}
	return v
}

func (c *Controller) clampPage(v int) int {
	if n := c.ram.Pages(); v >= n {
		return n - 1
	}
	return v
}

func (c *Controller) data(b byte) {
	if c.col < c.ram.Stride && c.page < c.ram.Pages() {
		c.ram.Pix[c.page*c.ram.Stride+c.col] = b
	}

	switch c.mode {
	case PageMode:
		if c.col++; c.col >= c.ram.Stride {
			c.col = c.pageModeCol
		}
	case HorizontalMode:
		if c.col++; c.col > c.colEnd {
			c.col = c.colStart
			if c.page++; c.page > c.pageEnd {
				c.page = c.pageStart
			}
		}
	case VerticalMode:
		if c.page++; c.page > c.pageEnd {
			c.page = c.pageStart
			if c.col++; c.col > c.colEnd {
				c.col = c.colStart
			}
		}
	}
}

// RAM returns a copy of the display RAM.
func (c *Controller) RAM() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]byte(nil), c.ram.Pix...)
}

// Pixel reports whether the display RAM bit for (x, y) is set.
func (c *Controller) Pixel(x, y int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ram.Bit(x, y)
}

// Frame returns what the panel shows: the display RAM with power, entire display on,
// inversion and the multiplex ratio applied.
func (c *Controller) Frame() *pixel.MonoVerticalLSBImage {
	c.mu.Lock()
	defer c.mu.Unlock()

	img := pixel.NewMonoVerticalLSBImage(c.ram.Rect.Dx(), c.ram.Rect.Dy())
	if !c.on {
		return img
	}
	switch {
	case c.entireOn:
		img.Fill(pixel.On)
	default:
		copy(img.Pix, c.ram.Pix)
	}
	if c.inverted {
		for i := range img.Pix {
			img.Pix[i] = ^img.Pix[i]
		}
	}
	// Rows past the multiplex ratio are not driven.
	for y := c.multiplex + 1; y < img.Rect.Dy(); y++ {
		for x := 0; x < img.Stride; x++ {
			img.SetBit(x, y, false)
		}
	}
	return img
}

// Bounds is the panel size.
func (c *Controller) Bounds() image.Rectangle {
	return c.ram.Rect
}

// On reports whether the panel is powered on.
func (c *Controller) On() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.on
}

// Inverted reports whether the panel shows inverted pixels.
func (c *Controller) Inverted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inverted
}

// Mode is the current addressing mode.
func (c *Controller) Mode() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// Contrast is the current contrast level.
func (c *Controller) Contrast() byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.contrast
}

// ChargePump reports whether the charge pump regulator is enabled.
func (c *Controller) ChargePump() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chargePump
}

// Scrolling reports whether horizontal scrolling is active.
func (c *Controller) Scrolling() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scrolling
}

// Cursor is the RAM write pointer.
func (c *Controller) Cursor() (col, page int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.col, c.page
}

// Stats returns the traffic counters.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stats
}

var _ i2c.BusCloser = (*Controller)(nil)
