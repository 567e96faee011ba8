//go:build linux

package conn

import (
	"fmt"

	"github.com/davecheney/i2c"
	periphi2c "periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// DefaultDevice is the i2c-dev adapter used by [OpenDev] for a negative device number. It is
// the header bus of a Raspberry Pi.
const DefaultDevice = 1

// devBus talks to /dev/i2c-N through the kernel i2c-dev interface. The peripheral address is
// fixed when the device file is opened.
type devBus struct {
	c      *i2c.I2C
	device int
	addr   uint8
}

// OpenDev opens /dev/i2c-<device> for the peripheral at addr, bypassing the periph.io host
// drivers.
func OpenDev(device int, addr uint8) (*I2C, error) {
	if device < 0 {
		device = DefaultDevice
	}
	if addr > 0x7f {
		return nil, fmt.Errorf("%w: %#x", ErrAddr, addr)
	}
	c, err := i2c.New(addr, device)
	if err != nil {
		return nil, err
	}

	bus := &devBus{c: c, device: device, addr: addr}
	conn := NewI2C(bus, addr)
	conn.owned = true
	return conn, nil
}

func (b *devBus) String() string {
	return fmt.Sprintf("/dev/i2c-%d", b.device)
}

func (b *devBus) Close() error {
	return b.c.Close()
}

// SetSpeed is not supported, the adapter clock is set by the kernel.
func (b *devBus) SetSpeed(physic.Frequency) error {
	return fmt.Errorf("%w: i2c-dev bus speed", ErrNotSupported)
}

func (b *devBus) Tx(addr uint16, w, r []byte) error {
	if addr != uint16(b.addr) {
		return fmt.Errorf("%w: %s is bound to %#02x, not %#02x", ErrAddr, b, b.addr, addr)
	}
	if len(w) > 0 {
		if _, err := b.c.Write(w); err != nil {
			return err
		}
	}
	if len(r) > 0 {
		if _, err := b.c.Read(r); err != nil {
			return err
		}
	}
	return nil
}

var _ periphi2c.BusCloser = (*devBus)(nil)
