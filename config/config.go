package config

import (
	"encoding/json"
	"os"
	"time"

	"accelfw/core"
)

// Config is the firmware and simulator configuration.
type Config struct {
	Sampler SamplerConfig `json:"sampler"`
	Flash   FlashConfig   `json:"flash"`

	// ReportIntervalUS is the foreground delta report period.
	ReportIntervalUS uint32 `json:"report_interval_us"`
	Debug            bool   `json:"debug"`
}

// SamplerConfig mirrors core.SamplerConfig with JSON names. Fields absent
// from the JSON keep the legacy values; set RateHz to derive ADCS and SAMC
// instead.
type SamplerConfig struct {
	PeripheralClock uint32  `json:"peripheral_clock"`
	ADCS            uint8   `json:"adcs"`
	SAMC            uint8   `json:"samc"`
	RateHz          uint32  `json:"rate_hz"`
	Channels        []uint8 `json:"channels"`
	Priority        uint8   `json:"priority"`
	SubPriority     uint8   `json:"sub_priority"`
}

// FlashConfig mirrors core.FlashConfig with JSON names. Fields absent from
// the JSON keep the defaults.
type FlashConfig struct {
	Bus       uint8  `json:"bus"`
	Mode      uint8  `json:"mode"`
	RateHz    uint32 `json:"rate_hz"`
	CSPin     uint32 `json:"cs_pin"`
	PowerUpMS uint32 `json:"power_up_ms"`
}

// LoadConfig parses a JSON configuration over the defaults. An explicit 0
// is kept where 0 is a valid setting (ADCS, SPI bus, chip-select pin).
func LoadConfig(jsonData []byte) (*Config, error) {
	cfg := DefaultConfig()
	if err := json.Unmarshal(jsonData, cfg); err != nil {
		return nil, err
	}
	applyDefaults(cfg)
	return cfg, nil
}

// LoadFile reads and parses a configuration file.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return LoadConfig(data)
}

// DefaultConfig returns the accelerometer settings as shipped.
func DefaultConfig() *Config {
	return &Config{
		Sampler: SamplerConfig{
			PeripheralClock: core.LegacyPeripheralClock,
			ADCS:            core.LegacyADCS,
			SAMC:            core.LegacySAMC,
			Channels:        []uint8{2, 3, 4},
			Priority:        1,
		},
		Flash: FlashConfig{
			Bus:       2,
			RateHz:    10000000,
			CSPin:     17,
			PowerUpMS: core.M25P16_POWER_UP_MS,
		},
		ReportIntervalUS: 500000,
	}
}

// applyDefaults restores settings that were explicitly zeroed but have no
// meaningful zero value.
func applyDefaults(cfg *Config) {
	s := &cfg.Sampler
	if s.PeripheralClock == 0 {
		s.PeripheralClock = core.LegacyPeripheralClock
	}
	if len(s.Channels) == 0 {
		s.Channels = []uint8{2, 3, 4}
	}
	if s.Priority == 0 {
		s.Priority = 1
	}

	if cfg.Flash.RateHz == 0 {
		cfg.Flash.RateHz = 10000000
	}
	if cfg.ReportIntervalUS == 0 {
		cfg.ReportIntervalUS = 500000
	}
}

// SamplerConfig converts to the core sampler configuration.
func (c *Config) SamplerConfig() core.SamplerConfig {
	sc := core.DefaultSamplerConfig()
	sc.Scan.PeripheralClock = c.Sampler.PeripheralClock
	sc.Scan.ConversionClockDivisor = c.Sampler.ADCS
	sc.Scan.AcquisitionTime = c.Sampler.SAMC
	sc.Scan.Channels = make([]core.ADCChannelID, len(c.Sampler.Channels))
	for i, ch := range c.Sampler.Channels {
		sc.Scan.Channels[i] = core.ADCChannelID(ch)
	}
	sc.Interrupt = core.InterruptConfig{
		Priority:    c.Sampler.Priority,
		SubPriority: c.Sampler.SubPriority,
	}
	sc.RateHz = c.Sampler.RateHz
	return sc
}

// FlashConfig converts to the core flash configuration.
func (c *Config) FlashConfig() core.FlashConfig {
	return core.FlashConfig{
		Bus:     core.SPIBusID(c.Flash.Bus),
		Mode:    core.SPIMode(c.Flash.Mode),
		Rate:    c.Flash.RateHz,
		CSPin:   core.GPIOPin(c.Flash.CSPin),
		PowerUp: time.Duration(c.Flash.PowerUpMS) * time.Millisecond,
	}
}
