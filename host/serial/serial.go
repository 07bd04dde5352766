// Package serial opens the firmware's debug UART from the host.
package serial

import (
	"io"
)

// Port is an open serial port.
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyUSB0", "COM3")
	Device string

	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultBaud matches the firmware debug UART.
const DefaultBaud = 115200

// DefaultConfig returns the debug UART settings for device.
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        DefaultBaud,
		ReadTimeout: 0,
	}
}
