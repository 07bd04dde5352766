//go:build rp2040

package main

import (
	"errors"
	"machine"

	"accelfw/core"
)

var errInvalidPin = errors.New("invalid GPIO pin")

// RPGPIODriver implements core.GPIODriver; GPIO numbers map directly to
// machine.Pin.
type RPGPIODriver struct {
	configuredPins map[core.GPIOPin]machine.Pin
}

// NewRPGPIODriver creates a new RP2040 GPIO driver
func NewRPGPIODriver() *RPGPIODriver {
	return &RPGPIODriver{
		configuredPins: make(map[core.GPIOPin]machine.Pin),
	}
}

// ConfigureOutput configures a pin as a digital output
func (d *RPGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	if _, exists := d.configuredPins[pin]; exists {
		return nil
	}
	if pin > 29 {
		return errInvalidPin
	}
	p := machine.Pin(pin)
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	d.configuredPins[pin] = p
	return nil
}

// SetPin sets the pin to high (true) or low (false)
func (d *RPGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	p, exists := d.configuredPins[pin]
	if !exists {
		if err := d.ConfigureOutput(pin); err != nil {
			return err
		}
		p = d.configuredPins[pin]
	}
	p.Set(value)
	return nil
}
