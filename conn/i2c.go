// Package conn contains the two-wire bus transports used by the OLED driver.
//
// Every transport is a periph.io [i2c.Bus]; [I2C] binds one of them to a peripheral address.
// Buses come from the periph.io registry ([OpenI2C]), from two GPIO pins driven in software
// ([OpenSoftI2C]) or from the Linux i2c-dev interface ([OpenDev]). Any other i2c.Bus, such as
// a test recorder or the controller emulator, can be bound with [NewI2C].
package conn

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
)

// Errors.
var (
	ErrNack         = errors.New("conn: no acknowledge from peripheral")
	ErrPin          = errors.New("conn: invalid GPIO pin")
	ErrAddr         = errors.New("conn: invalid 7-bit address")
	ErrNotSupported = errors.New("conn: not supported")
	ErrStretch      = errors.New("conn: SCL held low by peripheral")
)

// I2C is a peripheral on an I²C bus.
type I2C struct {
	bus   i2c.Bus
	dev   *i2c.Dev
	owned bool
}

// OpenI2C opens an I²C bus from the periph.io registry, use -1 for the first available bus.
//
// The host drivers must be loaded first, see periph.io/x/host/v3.
func OpenI2C(device int, addr uint8) (*I2C, error) {
	var (
		bus i2c.BusCloser
		err error
	)
	if device < 0 {
		bus, err = i2creg.Open("")
	} else {
		bus, err = i2creg.Open(strconv.FormatInt(int64(device), 10))
	}
	if err != nil {
		return nil, err
	}

	c := NewI2C(bus, addr)
	c.owned = true
	return c, nil
}

// NewI2C binds an already opened bus to addr. Closing the returned I2C leaves the bus open.
func NewI2C(bus i2c.Bus, addr uint8) *I2C {
	return &I2C{
		bus: bus,
		dev: &i2c.Dev{Bus: bus, Addr: uint16(addr)},
	}
}

func (c *I2C) String() string {
	return fmt.Sprintf("I²C bus %s addr %#02x", c.bus, c.dev.Addr)
}

// Bus is the underlying bus.
func (c *I2C) Bus() i2c.Bus {
	return c.bus
}

// Addr is the peripheral address.
func (c *I2C) Addr() uint16 {
	return c.dev.Addr
}

// Close closes the bus if it was opened by this package.
func (c *I2C) Close() error {
	if !c.owned {
		return nil
	}
	if closer, ok := c.bus.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}

// SetSpeed changes the bus clock.
func (c *I2C) SetSpeed(f physic.Frequency) error {
	return c.bus.SetSpeed(f)
}

// Tx runs one transaction, framed by a start and a stop condition.
func (c *I2C) Tx(w, r []byte) error {
	return c.dev.Tx(w, r)
}

func (c *I2C) Write(p []byte) (int, error) {
	return len(p), c.dev.Tx(p, nil)
}
