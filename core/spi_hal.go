package core

// SPIBusID identifies a hardware SPI bus configuration
type SPIBusID uint8

// SPIMode represents SPI clock polarity and phase (0-3)
// Mode 0: CPOL=0, CPHA=0 (clock idle low, sample on rising edge)
// Mode 1: CPOL=0, CPHA=1 (clock idle low, sample on falling edge)
// Mode 2: CPOL=1, CPHA=0 (clock idle high, sample on falling edge)
// Mode 3: CPOL=1, CPHA=1 (clock idle high, sample on rising edge)
type SPIMode uint8

// SPIConfig holds the configuration for an SPI bus
type SPIConfig struct {
	BusID SPIBusID
	Mode  SPIMode
	Rate  uint32 // Hz
}

// SPIDriver is the abstract SPI interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type SPIDriver interface {
	// ConfigureBus sets up a hardware SPI bus and returns an opaque handle.
	ConfigureBus(config SPIConfig) (interface{}, error)

	// Transfer clocks txData out while filling rxData; both have the same
	// length. busHandle is the value returned by ConfigureBus.
	Transfer(busHandle interface{}, txData []byte, rxData []byte) error
}

var spiDriver SPIDriver

// SetSPIDriver is called by target-specific code to register its hardware SPI driver
func SetSPIDriver(d SPIDriver) {
	spiDriver = d
}

// MustSPI returns the configured hardware SPI driver or panics if missing
func MustSPI() SPIDriver {
	if spiDriver == nil {
		panic("SPI driver not configured")
	}
	return spiDriver
}
