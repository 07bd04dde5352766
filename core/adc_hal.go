package core

// ADCChannelID identifies an analog input (AN0, AN1, ...).
type ADCChannelID uint8

// ADCValue is a raw conversion result as read from the result buffer.
type ADCValue uint16

// ADCFormat selects how conversion results are presented in the result buffer.
type ADCFormat uint8

const (
	FormatInteger16       ADCFormat = iota // unsigned integer, right justified
	FormatSignedInteger16                  // signed integer
	FormatFractional16                     // unsigned fractional, left justified
	FormatSignedFractional16
)

// ADCTrigger selects what ends sampling and starts a conversion.
type ADCTrigger uint8

const (
	TriggerManual ADCTrigger = iota
	TriggerAuto              // internal counter ends sampling (auto-convert)
	TriggerTimer
)

// ADCClockSource selects the conversion clock.
type ADCClockSource uint8

const (
	ClockPeripheral ADCClockSource = iota // derived from the peripheral bus clock
	ClockInternalRC
)

// ADCVoltageRef selects the reference pair.
type ADCVoltageRef uint8

const (
	VrefAVddAVss ADCVoltageRef = iota
	VrefExtPlusAVss
	VrefAVddExtMinus
	VrefExtPlusExtMinus
)

// MaxScanChannels is the number of analog inputs a scan mask can address.
const MaxScanChannels = 16

// ScanConfig carries every option the scan-mode ADC front end recognizes.
type ScanConfig struct {
	Format      ADCFormat
	AutoSample  bool // restart sampling as soon as a conversion completes
	Trigger     ADCTrigger
	ClockSource ADCClockSource
	VoltageRef  ADCVoltageRef

	// SamplesPerInterrupt is the number of conversions per interrupt group.
	SamplesPerInterrupt uint8
	Scan                bool
	Channels            []ADCChannelID // scanned inputs, in result-buffer order

	// ConversionClockDivisor is ADCS: TAD = 2 * TPB * (ADCS + 1).
	ConversionClockDivisor uint8
	// AcquisitionTime is SAMC, in TAD units.
	AcquisitionTime uint8
	// PeripheralClock is the bus clock feeding the converter, in Hz.
	PeripheralClock uint32
}

// ScanMask returns a bitmask with one bit set per scanned channel.
func (c ScanConfig) ScanMask() uint32 {
	var mask uint32
	for _, ch := range c.Channels {
		mask |= 1 << ch
	}
	return mask
}

// SkipMask is the complement of ScanMask over the addressable inputs.
func (c ScanConfig) SkipMask() uint32 {
	return ^c.ScanMask() & (1<<MaxScanChannels - 1)
}

// Validate checks option combinations the sampler depends on.
func (c ScanConfig) Validate() error {
	if c.PeripheralClock == 0 {
		return ErrNoPeripheralClock
	}
	if c.SamplesPerInterrupt == 0 || c.SamplesPerInterrupt > MaxResultSlots {
		return ErrSamplesPerInterrupt
	}
	if len(c.Channels) == 0 {
		return ErrNoChannels
	}
	for _, ch := range c.Channels {
		if ch >= MaxScanChannels {
			return ErrChannelRange
		}
	}
	if c.Scan && len(c.Channels) != int(c.SamplesPerInterrupt) {
		return ErrScanGroupMismatch
	}
	if c.AcquisitionTime < MinAcquisitionTAD || c.AcquisitionTime > MaxAcquisitionTAD {
		return ErrAcquisitionTime
	}
	if c.InterruptRate() == 0 {
		return ErrRateUnreachable
	}
	return nil
}

// ConversionRate returns conversions per second for this configuration.
func (c ScanConfig) ConversionRate() uint32 {
	return ConversionRate(c.PeripheralClock, c.ConversionClockDivisor, c.AcquisitionTime)
}

// InterruptRate returns interrupt groups per second.
func (c ScanConfig) InterruptRate() uint32 {
	if c.SamplesPerInterrupt == 0 {
		return 0
	}
	return c.ConversionRate() / uint32(c.SamplesPerInterrupt)
}

// InterruptConfig sets the priority pair of the conversion-complete interrupt.
type InterruptConfig struct {
	Priority    uint8 // 1 (lowest enabled) .. 7
	SubPriority uint8 // 0 .. 3
}

// MaxResultSlots is the depth of the conversion result buffer.
const MaxResultSlots = 16

// ScanADCDriver is the abstract scan-mode ADC that core code uses.
// Platform-specific implementations handle the registers.
type ScanADCDriver interface {
	// Configure applies cfg without starting conversions.
	Configure(cfg ScanConfig) error

	// ReadResult returns the most recent result held in buffer slot.
	// Called from interrupt context.
	ReadResult(slot int) ADCValue

	// ConfigureInterrupt enables the conversion-complete interrupt and
	// attaches handler to it.
	ConfigureInterrupt(cfg InterruptConfig, handler func()) error

	// ClearInterruptFlag acknowledges the pending interrupt.
	// Called from interrupt context.
	ClearInterruptFlag()

	// Enable turns the converter on.
	Enable() error

	// StartAutoSample sets the auto-sample bit so conversions free-run.
	StartAutoSample() error

	// Disable stops conversions and masks the interrupt.
	Disable() error
}

// Global singleton used by target main loops.
var adcDriver ScanADCDriver

// SetADCDriver is called by target-specific code to register its driver.
func SetADCDriver(d ScanADCDriver) {
	adcDriver = d
}

// MustADC returns the configured driver or panics if missing.
func MustADC() ScanADCDriver {
	if adcDriver == nil {
		panic("ADC driver not configured")
	}
	return adcDriver
}
