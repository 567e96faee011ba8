package oled

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"sync"
	"time"

	"github.com/BeatGlow/oled/pixel"
)

// resetPulse is how long the RES pin is held low by Init.
const resetPulse = 10 * time.Millisecond

// SSD1306 is a SSD1306 OLED display.
//
// All methods are safe for concurrent use; drawing and flushing are serialized.
type SSD1306 struct {
	mu      sync.Mutex
	c       Conn
	fb      *pixel.MonoVerticalLSBImage
	panel   panel
	mode    AddressingMode
	halted  bool
	onError func(error)
}

// New returns a driver talking to the controller on conn. It sends nothing; call Init to
// power up the panel. A nil config uses [DefaultConfig].
func New(conn Conn, config *Config) (*SSD1306, error) {
	if config == nil {
		config = &DefaultConfig
	}
	p, err := config.panel()
	if err != nil {
		return nil, err
	}

	d := &SSD1306{
		c:       conn,
		fb:      pixel.NewMonoVerticalLSBImage(p.width, p.height),
		panel:   p,
		mode:    HorizontalAddressing,
		halted:  true,
		onError: config.OnError,
	}
	copy(d.fb.Pix, splash[:])
	return d, nil
}

func (d *SSD1306) String() string {
	bounds := d.Bounds()
	return fmt.Sprintf("SSD1306 OLED %dx%d", bounds.Dx(), bounds.Dy())
}

// Close powers the panel off and closes the connection.
func (d *SSD1306) Close() error {
	d.mu.Lock()
	halted := d.halted
	d.mu.Unlock()

	var err error
	if !halted {
		err = d.SetPowerOff()
	}
	if cerr := d.c.Close(); err == nil {
		err = cerr
	}
	return err
}

// Init pulses the reset pin, if any, sends the power up sequence and turns the panel on.
// The controller is left in horizontal addressing mode.
func (d *SSD1306) Init() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	t := d.begin("init")
	t.check(pulseReset(d.c, resetPulse))
	t.sendCommand(initSequence(d.panel)...)
	d.mode = HorizontalAddressing
	t.sendCommand(setDisplayOn)
	d.halted = false
	if debug {
		log.Printf("oled: %s initialized on %s", d, d.c)
	}
	return t.err()
}

// Bounds implements image.Image. Min is always {0, 0}.
func (d *SSD1306) Bounds() image.Rectangle {
	return d.fb.Rect
}

// ColorModel implements image.Image, it is [pixel.MonoModel].
func (d *SSD1306) ColorModel() color.Model {
	return pixel.MonoModel
}

// At implements image.Image.
func (d *SSD1306) At(x, y int) color.Color {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fb.At(x, y)
}

// Set implements draw.Image, colors are thresholded by luminance.
func (d *SSD1306) Set(x, y int, c color.Color) {
	d.SetPixel(x, y, pixel.IsOn(c))
}

// SetPixel lights or clears one pixel of the framebuffer. It causes no bus traffic.
//
// Points outside the display are ignored.
func (d *SSD1306) SetPixel(x, y int, on bool) {
	d.mu.Lock()
	d.fb.SetBit(x, y, on)
	d.mu.Unlock()
}

// Pixel reports whether the framebuffer pixel at (x, y) is lit.
func (d *SSD1306) Pixel(x, y int) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fb.Bit(x, y)
}

// Buffer returns a copy of the framebuffer in display RAM layout.
func (d *SSD1306) Buffer() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]byte(nil), d.fb.Pix...)
}

// ClearDisplay clears the framebuffer. The panel is unchanged until the next Display.
func (d *SSD1306) ClearDisplay() {
	d.mu.Lock()
	d.fb.Clear()
	d.mu.Unlock()
}

// Display streams the whole framebuffer to the controller, page by page.
//
// In page addressing mode the cursor is positioned before every 8 column cell. In
// horizontal addressing mode the controller advances on its own and the cursor is only
// positioned at the start of every page. Panels smaller than the 128x64 display RAM also
// get their column and page ranges set first, so the controller wraps at the panel edge.
func (d *SSD1306) Display() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	var (
		t     = d.begin("display")
		width = d.fb.Stride
		pages = d.fb.Pages()
		cell  = 8
	)
	if d.mode == HorizontalAddressing {
		cell = width
		if d.panel.windowed() {
			t.sendCommand(
				setColumnRange, byte(d.panel.colStart), byte(d.panel.colStart+width-1),
				setPageRange, 0x00, byte(pages-1),
			)
		}
	}
	for page := 0; page < pages; page++ {
		row := d.fb.Pix[page*width : (page+1)*width]
		for col := 0; col < width; col += cell {
			t.setCursorXY(col/8, page)
			t.sendData(row[col : col+cell]...)
		}
	}
	if debug {
		log.Printf("oled: flushed %d bytes in %s addressing mode", len(d.fb.Pix), d.mode)
	}
	return t.err()
}

// AddressingMode is the mode last sent to the controller.
func (d *SSD1306) AddressingMode() AddressingMode {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.mode
}

// SetPageMode switches the controller to page addressing.
func (d *SSD1306) SetPageMode() error {
	return d.setMode(PageAddressing)
}

// SetHorizontalMode switches the controller to horizontal addressing.
func (d *SSD1306) SetHorizontalMode() error {
	return d.setMode(HorizontalAddressing)
}

func (d *SSD1306) setMode(mode AddressingMode) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	t := d.begin("set " + mode.String() + " mode")
	d.mode = mode
	t.sendCommand(setMemoryMode, byte(mode))
	if debug {
		log.Printf("oled: %s addressing mode", mode)
	}
	return t.err()
}

// SetPowerOn turns the panel on. Display RAM and addressing mode are kept.
func (d *SSD1306) SetPowerOn() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	t := d.begin("power on")
	t.sendCommand(setDisplayOn)
	d.halted = false
	return t.err()
}

// SetPowerOff turns the panel off. Display RAM and addressing mode are kept.
func (d *SSD1306) SetPowerOff() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	t := d.begin("power off")
	t.sendCommand(setDisplayOff)
	d.halted = true
	return t.err()
}

// SetContrast adjusts the contrast level.
func (d *SSD1306) SetContrast(level uint8) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	t := d.begin("set contrast")
	t.sendCommand(setContrast, level)
	return t.err()
}

// Invert the display (black on white vs white on black).
func (d *SSD1306) Invert(blackOnWhite bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	t := d.begin("invert")
	if blackOnWhite {
		t.sendCommand(setInvertDisplay)
	} else {
		t.sendCommand(setNormalDisplay)
	}
	return t.err()
}

// StopScroll stops any scrolling previously set on the controller.
func (d *SSD1306) StopScroll() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	t := d.begin("stop scroll")
	t.sendCommand(deactivateScroll)
	return t.err()
}

// tx runs the bus writes of one operation and keeps going when they fail.
type tx struct {
	d      *SSD1306
	op     string
	failed int
	first  error
}

func (d *SSD1306) begin(op string) *tx {
	return &tx{d: d, op: op}
}

func (t *tx) check(err error) {
	if err == nil {
		return
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		for _, err := range joined.Unwrap() {
			t.check(err)
		}
		return
	}
	t.failed++
	if t.first == nil {
		t.first = err
	}
	if t.d.onError != nil {
		t.d.onError(fmt.Errorf("oled: %s: %w", t.op, err))
	}
}

func (t *tx) sendCommand(cmnds ...byte) {
	t.check(t.d.c.Command(cmnds...))
}

func (t *tx) sendData(data ...byte) {
	t.check(t.d.c.Data(data...))
}

// setCursorXY moves the write cursor to the 8 pixel wide column unit on the page.
func (t *tx) setCursorXY(column, page int) {
	x := byte(t.d.panel.colStart + 8*column)
	t.sendCommand(
		setLowColumn|(x&0x0F),
		setHighColumn|((x>>4)&0x0F),
		setPageAddr|byte(page),
	)
}

func (t *tx) err() error {
	if t.failed == 0 {
		return nil
	}
	return &BusError{Op: t.op, Failed: t.failed, Err: t.first}
}

var _ Surface = (*SSD1306)(nil)
