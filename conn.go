package oled

import (
	"errors"
	"fmt"
	"time"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"

	"github.com/BeatGlow/oled/conn"
)

// Conn is the connection interface for communicating with hardware.
type Conn interface {
	String() string

	// Close the connection.
	Close() error

	// Reset sets the reset pin to the provided level.
	Reset(gpio.Level) error

	// Command sends command bytes, in order. A failed write does not stop the rest; the
	// failures are returned joined with errors.Join.
	Command(...byte) error

	// Data sends display RAM bytes, in order, with the same failure handling as Command.
	Data(...byte) error
}

// I2CConfig describes the I²C bus configuration.
type I2CConfig struct {
	// Device is the I²C bus number, use -1 to use the first available bus.
	Device int

	// Addr is the I²C address.
	Addr uint8

	// SDA and SCL name the GPIO pins of a software I²C bus. When both are set the bus is
	// bit-banged on those pins instead of using the hardware bus.
	SDA, SCL string

	// Speed is the bus clock, zero keeps the bus default.
	Speed physic.Frequency

	// DevFS opens /dev/i2c-<Device> through the kernel i2c-dev interface instead of the
	// periph.io host drivers.
	DevFS bool

	// Batch packs every command or data run of the driver into a single transaction.
	// The default sends one byte per transaction.
	Batch bool

	// Reset pin, optional.
	Reset gpio.PinOut
}

// DefaultI2CConfig are the default configuration values.
var DefaultI2CConfig = I2CConfig{
	Device: -1,
	Addr:   DefaultAddress,
}

type i2cConn struct {
	*conn.I2C
	reset gpio.PinOut
	batch bool
}

// OpenI2C opens the bus described by config. A nil config uses [DefaultI2CConfig].
func OpenI2C(config *I2CConfig) (Conn, error) {
	if config == nil {
		config = &DefaultI2CConfig
	}
	local := *config
	config = &local
	if config.Addr == 0 {
		config.Addr = DefaultAddress
	}
	if (config.SDA == "") != (config.SCL == "") {
		return nil, fmt.Errorf("%w: both SDA and SCL are required, got SDA=%q SCL=%q", ErrPin, config.SDA, config.SCL)
	}

	var (
		bus *conn.I2C
		err error
	)
	switch {
	case config.SDA != "":
		bus, err = conn.OpenSoftI2C(config.SDA, config.SCL, config.Addr, config.Speed)
	case config.DevFS:
		bus, err = conn.OpenDev(config.Device, config.Addr)
	default:
		bus, err = conn.OpenI2C(config.Device, config.Addr)
		if err == nil && config.Speed > 0 {
			if err = bus.SetSpeed(config.Speed); err != nil {
				_ = bus.Close()
			}
		}
	}
	if err != nil {
		return nil, err
	}

	return &i2cConn{
		I2C:   bus,
		reset: config.Reset,
		batch: config.Batch,
	}, nil
}

// NewI2C returns a connection to the peripheral at config.Addr on an already opened bus.
// Bus selection fields of config are ignored; closing the connection leaves bus open.
func NewI2C(bus i2c.Bus, config *I2CConfig) Conn {
	if config == nil {
		config = &DefaultI2CConfig
	}
	addr := config.Addr
	if addr == 0 {
		addr = DefaultAddress
	}
	return &i2cConn{
		I2C:   conn.NewI2C(bus, addr),
		reset: config.Reset,
		batch: config.Batch,
	}
}

// Command sends every byte in its own transaction, [0x80, b]. In batch mode the bytes share
// one transaction as [0x80, b0, 0x80, b1, ...].
func (c *i2cConn) Command(cmnds ...byte) error {
	if c.batch {
		if len(cmnds) == 0 {
			return nil
		}
		buf := make([]byte, 0, 2*len(cmnds))
		for _, b := range cmnds {
			buf = append(buf, controlCommand, b)
		}
		return c.I2C.Tx(buf, nil)
	}
	return c.each(controlCommand, cmnds)
}

// Data sends every byte in its own transaction, [0x40, b]. In batch mode the bytes share one
// transaction as [0x40, b0, b1, ...].
func (c *i2cConn) Data(data ...byte) error {
	if c.batch {
		if len(data) == 0 {
			return nil
		}
		return c.I2C.Tx(append([]byte{controlData}, data...), nil)
	}
	return c.each(controlData, data)
}

// each keeps going after a failed transaction; the failures are joined, one per transaction.
func (c *i2cConn) each(control byte, p []byte) error {
	var errs []error
	for _, b := range p {
		if err := c.I2C.Tx([]byte{control, b}, nil); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *i2cConn) Reset(level gpio.Level) error {
	if !c.hasReset() {
		return nil
	}
	return c.reset.Out(level)
}

func (c *i2cConn) hasReset() bool {
	return c.reset != nil && c.reset != gpio.INVALID
}

// sleep is replaced by tests.
var sleep = time.Sleep

// pulseReset holds the reset pin low for d and releases it. Connections that report having
// no reset pin are left alone.
func pulseReset(c Conn, d time.Duration) error {
	if r, ok := c.(interface{ hasReset() bool }); ok && !r.hasReset() {
		return nil
	}
	if err := c.Reset(gpio.Low); err != nil {
		return err
	}
	sleep(d)
	return c.Reset(gpio.High)
}
