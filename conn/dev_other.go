//go:build !linux

package conn

import "fmt"

// DefaultDevice is the i2c-dev adapter used by [OpenDev] for a negative device number.
const DefaultDevice = 1

// OpenDev is only available on Linux.
func OpenDev(device int, addr uint8) (*I2C, error) {
	return nil, fmt.Errorf("%w: i2c-dev on this platform", ErrNotSupported)
}
