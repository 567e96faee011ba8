package oled

// I²C control bytes. Co=1 means a single byte follows before the next control byte.
const (
	controlCommand = 0x80
	controlData    = 0x40
)

// DefaultAddress is the 7-bit peripheral address of the panel.
const DefaultAddress = 0x3c

// SSD1306 commands.
const (
	setLowColumn          = 0x00
	setHighColumn         = 0x10
	setMemoryMode         = 0x20
	setColumnRange        = 0x21
	setPageRange          = 0x22
	deactivateScroll      = 0x2E
	setStartLine          = 0x40
	setContrast           = 0x81
	setChargePump         = 0x8D
	setSegmentRemap       = 0xA1
	setDisplayAllOnResume = 0xA4
	setNormalDisplay      = 0xA6
	setInvertDisplay      = 0xA7
	setMultiplexRatio     = 0xA8
	setDisplayOff         = 0xAE
	setDisplayOn          = 0xAF
	setPageAddr           = 0xB0
	setComScanDec         = 0xC8
	setDisplayOffset      = 0xD3
	setDisplayClockDiv    = 0xD5
	setPrecharge          = 0xD9
	setComPins            = 0xDA
	setVComDetect         = 0xDB
)

// panel is the controller setup for one supported panel size. The display RAM is always 128
// columns by 8 pages; narrower panels are wired to a window of it starting at colStart.
type panel struct {
	width, height int
	clockDiv      byte
	comPins       byte
	colStart      int
}

var panels = []panel{
	{width: 64, height: 32, clockDiv: 0x80, comPins: 0x12, colStart: 32},
	{width: 64, height: 48, clockDiv: 0x80, comPins: 0x12, colStart: 32},
	{width: 96, height: 16, clockDiv: 0x60, comPins: 0x02},
	{width: 128, height: 32, clockDiv: 0x80, comPins: 0x02},
	{width: 128, height: 64, clockDiv: 0x80, comPins: 0x12},
}

func lookupPanel(w, h int) (panel, bool) {
	for _, p := range panels {
		if p.width == w && p.height == h {
			return p, true
		}
	}
	return panel{}, false
}

func (p panel) pages() int {
	return p.height / 8
}

// windowed reports whether the panel covers less than the whole display RAM, in which case
// horizontal addressing needs explicit column and page ranges to wrap at the panel edge.
func (p panel) windowed() bool {
	return p.width != 128 || p.height != 64
}

// initSequence is the power up command sequence for the panel. For 128x64 it is exactly the
// 29 byte vector the panel is known to work with.
func initSequence(p panel) []byte {
	return []byte{
		setDisplayOff,
		setNormalDisplay,
		setDisplayOff,
		setDisplayClockDiv, p.clockDiv,
		setMultiplexRatio, byte(p.height - 1),
		setDisplayOffset, 0x00,
		setStartLine | 0x00,
		setChargePump, 0x14,
		setMemoryMode, byte(HorizontalAddressing),
		setSegmentRemap,
		setComScanDec,
		setComPins, p.comPins,
		setContrast, 0xCF,
		setPrecharge, 0xF1,
		setVComDetect, 0x40,
		setDisplayAllOnResume,
		setNormalDisplay,
		deactivateScroll,
		setMemoryMode, byte(HorizontalAddressing),
	}
}

// splash is the diagonal pattern the framebuffer starts with.
var splash = [...]byte{
	0x80, 0x80, 0xC0, 0xC0, 0xE0, 0xE0, 0xF0, 0xF0,
	0xF8, 0xF8, 0xFC, 0xFC, 0xFE, 0xFE, 0xFF, 0xFF,
}
