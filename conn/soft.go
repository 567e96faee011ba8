package conn

import (
	"fmt"
	"sync"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultSoftSpeed is the clock used by [OpenSoftI2C].
const DefaultSoftSpeed = 100 * physic.KiloHertz

// stretchLimit bounds how many half periods a peripheral may hold SCL low.
const stretchLimit = 1000

// SoftI2C is a write-only I²C master that bit-bangs two GPIO pins.
//
// Lines are driven as open drain: a pin is either pulled low as an output or released as an
// input with the pull-up enabled. The peripheral may stretch the clock.
type SoftI2C struct {
	mu         sync.Mutex
	scl, sda   gpio.PinIO
	halfPeriod time.Duration
}

// OpenSoftI2C looks up the SDA and SCL pins by name or number in the GPIO registry and binds a
// software I²C bus on them to addr.
func OpenSoftI2C(sda, scl string, addr uint8, f physic.Frequency) (*I2C, error) {
	sdaPin := gpioreg.ByName(sda)
	if sdaPin == nil {
		return nil, fmt.Errorf("%w: SDA %q", ErrPin, sda)
	}
	sclPin := gpioreg.ByName(scl)
	if sclPin == nil {
		return nil, fmt.Errorf("%w: SCL %q", ErrPin, scl)
	}
	if f == 0 {
		f = DefaultSoftSpeed
	}
	bus, err := NewSoftI2C(sclPin, sdaPin, f)
	if err != nil {
		return nil, err
	}

	c := NewI2C(bus, addr)
	c.owned = true
	return c, nil
}

// NewSoftI2C returns an idle bus on the pins. A zero frequency runs as fast as the pins toggle.
func NewSoftI2C(scl, sda gpio.PinIO, f physic.Frequency) (*SoftI2C, error) {
	if scl == nil || scl == gpio.INVALID || sda == nil || sda == gpio.INVALID {
		return nil, ErrPin
	}
	b := &SoftI2C{scl: scl, sda: sda}
	if err := b.SetSpeed(f); err != nil {
		return nil, err
	}
	if err := b.run(b.releaseSDA, b.releaseSCL); err != nil {
		return nil, err
	}
	return b, nil
}

func (b *SoftI2C) String() string {
	return fmt.Sprintf("SoftI2C(SCL=%s, SDA=%s)", b.scl, b.sda)
}

// SCL implements i2c.Pins.
func (b *SoftI2C) SCL() gpio.PinIO {
	return b.scl
}

// SDA implements i2c.Pins.
func (b *SoftI2C) SDA() gpio.PinIO {
	return b.sda
}

// SetSpeed implements i2c.Bus.
func (b *SoftI2C) SetSpeed(f physic.Frequency) error {
	if f < 0 {
		return fmt.Errorf("conn: invalid frequency %s", f)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	if f == 0 {
		b.halfPeriod = 0
	} else {
		b.halfPeriod = f.Period() / 2
	}
	return nil
}

// Close releases both lines.
func (b *SoftI2C) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.run(b.releaseSDA, b.releaseSCL)
}

// Tx implements i2c.Bus. Reads are not supported.
func (b *SoftI2C) Tx(addr uint16, w, r []byte) error {
	if addr > 0x7f {
		return fmt.Errorf("%w: %#x", ErrAddr, addr)
	}
	if len(r) != 0 {
		return fmt.Errorf("%w: read on software I²C", ErrNotSupported)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	err := b.start()
	if err == nil {
		if err = b.writeByte(byte(addr) << 1); err != nil {
			err = fmt.Errorf("%w: address %#02x", err, addr)
		}
	}
	for i := 0; err == nil && i < len(w); i++ {
		if err = b.writeByte(w[i]); err != nil {
			err = fmt.Errorf("%w: address %#02x byte %d", err, addr, i)
		}
	}
	if serr := b.stop(); err == nil {
		err = serr
	}
	return err
}

func (b *SoftI2C) start() error {
	return b.run(
		b.releaseSDA, b.delay,
		b.releaseSCL, b.delay,
		b.lowSDA, b.delay,
		b.lowSCL,
	)
}

func (b *SoftI2C) stop() error {
	return b.run(
		b.lowSDA, b.delay,
		b.releaseSCL, b.delay,
		b.releaseSDA, b.delay,
	)
}

func (b *SoftI2C) writeByte(v byte) error {
	for i := 7; i >= 0; i-- {
		set := b.lowSDA
		if v&(1<<uint(i)) != 0 {
			set = b.releaseSDA
		}
		if err := b.run(set, b.delay, b.releaseSCL, b.delay, b.lowSCL); err != nil {
			return err
		}
	}

	// Acknowledge slot: the peripheral pulls SDA low.
	var nack bool
	if err := b.run(b.releaseSDA, b.delay, b.releaseSCL, b.delay, func() error {
		nack = b.sda.Read() == gpio.High
		return nil
	}, b.lowSCL); err != nil {
		return err
	}
	if nack {
		return ErrNack
	}
	return nil
}

func (b *SoftI2C) run(steps ...func() error) error {
	for _, step := range steps {
		if err := step(); err != nil {
			return err
		}
	}
	return nil
}

func (b *SoftI2C) delay() error {
	if b.halfPeriod > 0 {
		time.Sleep(b.halfPeriod)
	}
	return nil
}

func (b *SoftI2C) lowSDA() error {
	return b.sda.Out(gpio.Low)
}

func (b *SoftI2C) releaseSDA() error {
	return b.sda.In(gpio.PullUp, gpio.NoEdge)
}

func (b *SoftI2C) lowSCL() error {
	return b.scl.Out(gpio.Low)
}

// releaseSCL lets SCL go high and waits for a stretching peripheral to let go.
func (b *SoftI2C) releaseSCL() error {
	if err := b.scl.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return err
	}
	for i := 0; b.scl.Read() == gpio.Low; i++ {
		if i == stretchLimit {
			return ErrStretch
		}
		if b.halfPeriod > 0 {
			time.Sleep(b.halfPeriod)
		} else {
			time.Sleep(time.Microsecond)
		}
	}
	return nil
}

var (
	_ i2c.Bus  = (*SoftI2C)(nil)
	_ i2c.Pins = (*SoftI2C)(nil)
)
