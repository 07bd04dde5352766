// M25P16 bring-up: SPI bus and chip-select setup, power-up, identification.
// Reading, programming and erasing are left to callers holding the bus.
package core

import (
	"time"

	"tinygo.org/x/drivers"
)

// FlashConfig describes how the flash chip is wired.
type FlashConfig struct {
	Bus     SPIBusID
	Mode    SPIMode // 0 or 3
	Rate    uint32  // Hz, at most fC
	CSPin   GPIOPin
	PowerUp time.Duration // wait before the first instruction
}

// DefaultFlashConfig returns the PmodSF wiring used by the firmware targets.
func DefaultFlashConfig() FlashConfig {
	return FlashConfig{
		Bus:     2, // spi0c on the rp2040 target
		Mode:    0,
		Rate:    10000000,
		CSPin:   17,
		PowerUp: M25P16_POWER_UP_MS * time.Millisecond,
	}
}

// FlashBus is a configured hardware SPI bus. It satisfies drivers.SPI and
// never touches chip select; the M25P16 frames its own instructions.
type FlashBus struct {
	spi    SPIDriver
	handle interface{}
	cs     GPIOPin

	scratch [8]byte
}

var _ drivers.SPI = (*FlashBus)(nil)

// InitializeSPI configures the hardware SPI bus and chip-select pin for the
// flash. Chip select is left deasserted (high).
func InitializeSPI(cfg FlashConfig) (*FlashBus, error) {
	if cfg.Mode != 0 && cfg.Mode != 3 {
		return nil, initErr("spi", ErrFlashMode)
	}
	if cfg.Rate == 0 || cfg.Rate > M25P16_MAX_CLOCK {
		return nil, initErr("spi", ErrFlashRate)
	}

	spi, gpio := MustSPI(), MustGPIO()
	handle, err := spi.ConfigureBus(SPIConfig{BusID: cfg.Bus, Mode: cfg.Mode, Rate: cfg.Rate})
	if err != nil {
		return nil, initErr("spi", err)
	}
	if err := gpio.ConfigureOutput(cfg.CSPin); err != nil {
		return nil, initErr("cs", err)
	}
	if err := gpio.SetPin(cfg.CSPin, true); err != nil {
		return nil, initErr("cs", err)
	}

	return &FlashBus{spi: spi, handle: handle, cs: cfg.CSPin}, nil
}

// CS returns the chip-select pin configured with the bus.
func (b *FlashBus) CS() GPIOPin {
	return b.cs
}

// Tx clocks w out while reading into r. Either may be nil; when both are
// set they must be the same length.
func (b *FlashBus) Tx(w, r []byte) error {
	switch {
	case w == nil && r == nil:
		return nil
	case w == nil:
		for i := range r {
			r[i] = 0
		}
		return b.spi.Transfer(b.handle, r, r)
	case r == nil:
		r = make([]byte, len(w))
	case len(w) != len(r):
		return ErrBufferLength
	}
	return b.spi.Transfer(b.handle, w, r)
}

// Transfer clocks a single byte.
func (b *FlashBus) Transfer(w byte) (byte, error) {
	b.scratch[0] = w
	if err := b.spi.Transfer(b.handle, b.scratch[:1], b.scratch[1:2]); err != nil {
		return 0, err
	}
	return b.scratch[1], nil
}

// JEDECID is the RDID response.
type JEDECID struct {
	Manufacturer byte
	MemoryType   byte
	Capacity     byte
}

// Uint32 packs the identification as 0x00MMTTCC.
func (id JEDECID) Uint32() uint32 {
	return uint32(id.Manufacturer)<<16 | uint32(id.MemoryType)<<8 | uint32(id.Capacity)
}

func (id JEDECID) String() string {
	return hex8(id.Manufacturer) + hex8(id.MemoryType) + hex8(id.Capacity)
}

// IsM25P16 reports whether id matches the ST M25P16.
func (id JEDECID) IsM25P16() bool {
	return id.Manufacturer == M25P16_MANUFACTURER_ST &&
		id.MemoryType == M25P16_MEMORY_TYPE &&
		id.Capacity == M25P16_CAPACITY_CODE
}

// M25P16 is an identified flash chip on any drivers.SPI bus, with chip
// select driven through the GPIO HAL.
type M25P16 struct {
	spi  drivers.SPI
	gpio GPIODriver
	cs   GPIOPin

	ID        JEDECID
	Signature byte
	Status    byte
}

// InitializeM25P16 waits out the power-up time, wakes the chip from deep
// power-down, checks its identification, and leaves it write-disabled.
func InitializeM25P16(spi drivers.SPI, gpio GPIODriver, cs GPIOPin, powerUp time.Duration) (*M25P16, error) {
	if powerUp > 0 {
		time.Sleep(powerUp)
	}

	f := &M25P16{spi: spi, gpio: gpio, cs: cs}
	sig, err := f.ReleasePowerDown()
	if err != nil {
		return nil, initErr("res", err)
	}
	f.Signature = sig

	id, err := f.ReadID()
	if err != nil {
		return nil, initErr("rdid", err)
	}
	f.ID = id
	if !id.IsM25P16() {
		return nil, initErr("rdid", ErrFlashIdentity)
	}

	if err := f.WriteDisable(); err != nil {
		return nil, initErr("wrdi", err)
	}

	status, err := f.ReadStatus()
	if err != nil {
		return nil, initErr("rdsr", err)
	}
	f.Status = status
	if status&M25P16_SR_WIP != 0 {
		return nil, initErr("rdsr", ErrFlashBusy)
	}

	RecordTaskEvent(EvtFlashReady, id.Uint32(), uint32(status))
	DebugPrintln("flash: M25P16 id=" + id.String() + " sr=" + hex8(status))
	return f, nil
}

// command frames one instruction: chip select low, tx clocked out while rx
// fills, chip select high. rx may be nil.
func (f *M25P16) command(tx, rx []byte) error {
	if err := f.gpio.SetPin(f.cs, false); err != nil {
		return err
	}
	err := f.spi.Tx(tx, rx)
	if csErr := f.gpio.SetPin(f.cs, true); csErr != nil && err == nil {
		err = csErr
	}
	return err
}

// ReleasePowerDown sends RES and returns the electronic signature.
func (f *M25P16) ReleasePowerDown() (byte, error) {
	tx := []byte{M25P16_RES, 0, 0, 0, 0}
	rx := make([]byte, len(tx))
	if err := f.command(tx, rx); err != nil {
		return 0, err
	}
	return rx[4], nil
}

// DeepPowerDown sends DP. Only RES wakes the chip afterwards.
func (f *M25P16) DeepPowerDown() error {
	return f.command([]byte{M25P16_DP}, nil)
}

// ReadID sends RDID.
func (f *M25P16) ReadID() (JEDECID, error) {
	tx := []byte{M25P16_RDID, 0, 0, 0}
	rx := make([]byte, len(tx))
	if err := f.command(tx, rx); err != nil {
		return JEDECID{}, err
	}
	return JEDECID{Manufacturer: rx[1], MemoryType: rx[2], Capacity: rx[3]}, nil
}

// ReadStatus sends RDSR.
func (f *M25P16) ReadStatus() (byte, error) {
	tx := []byte{M25P16_RDSR, 0}
	rx := make([]byte, len(tx))
	if err := f.command(tx, rx); err != nil {
		return 0, err
	}
	return rx[1], nil
}

// WriteDisable sends WRDI.
func (f *M25P16) WriteDisable() error {
	return f.command([]byte{M25P16_WRDI}, nil)
}

// Bus returns the underlying SPI bus.
func (f *M25P16) Bus() drivers.SPI {
	return f.spi
}
