// Accelerometer sampling: scan-mode ADC setup and the conversion-complete
// interrupt handler that timestamps every other interrupt group.
package core

import "sync/atomic"

// ScanGroupSize is the number of channels converted per interrupt (x, y, z).
const ScanGroupSize = 3

// SamplerConfig holds everything Init needs to bring up sampling.
type SamplerConfig struct {
	Scan      ScanConfig
	Interrupt InterruptConfig

	// RateHz, when nonzero, replaces the ADCS/SAMC divisors in Scan with
	// ones computed for this conversion rate at Scan.PeripheralClock.
	RateHz uint32
}

// DefaultSamplerConfig returns the accelerometer settings: AN2..AN4 scanned
// with integer results, auto-sample and auto-convert, 3 results per
// interrupt, priority 1 sub-priority 0.
func DefaultSamplerConfig() SamplerConfig {
	return SamplerConfig{
		Scan: ScanConfig{
			Format:                 FormatInteger16,
			AutoSample:             true,
			Trigger:                TriggerAuto,
			ClockSource:            ClockPeripheral,
			VoltageRef:             VrefAVddAVss,
			SamplesPerInterrupt:    ScanGroupSize,
			Scan:                   true,
			Channels:               []ADCChannelID{2, 3, 4},
			ConversionClockDivisor: LegacyADCS,
			AcquisitionTime:        LegacySAMC,
			PeripheralClock:        LegacyPeripheralClock,
		},
		Interrupt: InterruptConfig{Priority: 1, SubPriority: 0},
	}
}

// mailbox layout: bit 32 marks a full slot, low 32 bits carry the delta
const mailboxFull = uint64(1) << 32

// Sampler owns the sampling state shared between the conversion-complete
// interrupt and the foreground loop.
type Sampler struct {
	adc   ScanADCDriver
	clock CycleCounter

	adcVal  uint16
	running atomic.Bool

	// stamp is the alternation flag: 0 while waiting for the first
	// timestamp of a pair, otherwise the first timestamp itself.
	stamp atomic.Int32
	diff  atomic.Int32

	// samples is written by the interrupt; read it under a critical section.
	samples [ScanGroupSize]ADCValue

	firings atomic.Uint32
	pairs   atomic.Uint32
	mailbox atomic.Uint64
}

// NewSampler creates a sampler bound to a scan ADC and a cycle counter.
func NewSampler(adc ScanADCDriver, clock CycleCounter) *Sampler {
	return &Sampler{adc: adc, clock: clock}
}

// Init configures the converter to scan the accelerometer channels and arms
// the conversion-complete interrupt. From the moment it returns nil,
// HandleInterrupt may run at any time. Calling Init on a running sampler is a
// no-op.
func (s *Sampler) Init(cfg SamplerConfig) error {
	if s.running.Load() {
		return nil
	}
	s.adcVal = 0

	scan := cfg.Scan
	if cfg.RateHz != 0 {
		adcs, samc, err := TimingFor(scan.PeripheralClock, cfg.RateHz)
		if err != nil {
			return initErr("timing", err)
		}
		scan.ConversionClockDivisor = adcs
		scan.AcquisitionTime = samc
	}
	if err := scan.Validate(); err != nil {
		return initErr("config", err)
	}
	if cfg.Interrupt.Priority == 0 || cfg.Interrupt.Priority > 7 || cfg.Interrupt.SubPriority > 3 {
		return initErr("interrupt", ErrInterruptPriority)
	}

	if err := s.adc.Configure(scan); err != nil {
		return initErr("config", err)
	}

	s.stamp.Store(0)
	if err := s.adc.ConfigureInterrupt(cfg.Interrupt, s.HandleInterrupt); err != nil {
		return s.disarm("interrupt", err)
	}
	if err := s.adc.Enable(); err != nil {
		return s.disarm("enable", err)
	}
	if err := s.adc.StartAutoSample(); err != nil {
		return s.disarm("autosample", err)
	}

	s.running.Store(true)
	RecordTaskEvent(EvtSamplerInit, 0, scan.InterruptRate())
	return nil
}

// disarm undoes a partial Init so no handler is left attached.
func (s *Sampler) disarm(step string, err error) error {
	_ = s.adc.Disable()
	s.stamp.Store(0)
	return initErr(step, err)
}

// HandleInterrupt services one completed scan group. It reads the three
// results, timestamps the group, and on every second call publishes the
// cycle delta since the previous call. The interrupt flag is cleared on
// every path.
func (s *Sampler) HandleInterrupt() {
	s.samples[0] = s.adc.ReadResult(0)
	s.samples[1] = s.adc.ReadResult(1)
	s.samples[2] = s.adc.ReadResult(2)
	s.firings.Add(1)

	if first := s.stamp.Load(); first == 0 {
		now := int32(s.clock.Cycles())
		s.stamp.Store(now)
		RecordEvent(EvtFirstStamp, uint32(now), 0)
	} else {
		// Plain signed subtraction: a counter that reads lower than the
		// first stamp yields a negative delta.
		delta := int32(s.clock.Cycles()) - first
		s.diff.Store(delta)
		s.stamp.Store(0)
		s.pairs.Add(1)
		s.mailbox.Store(mailboxFull | uint64(uint32(delta)))
		RecordEvent(EvtDelta, uint32(first), uint32(delta))
	}

	s.adc.ClearInterruptFlag()
}

// Stop disables the converter and its interrupt. The last delta stays
// readable.
func (s *Sampler) Stop() error {
	if !s.running.Load() {
		return ErrNotRunning
	}
	if err := s.adc.Disable(); err != nil {
		return err
	}
	s.running.Store(false)
	s.stamp.Store(0)
	RecordTaskEvent(EvtSamplerStop, s.firings.Load(), s.pairs.Load())
	return nil
}

// Running reports whether Init has armed sampling and Stop has not run since.
func (s *Sampler) Running() bool {
	return s.running.Load()
}

// Diff returns the most recent cycle delta. Zero until the first pair
// completes.
func (s *Sampler) Diff() int32 {
	return s.diff.Load()
}

// Stamp returns the alternation flag: the pending first timestamp, or 0.
func (s *Sampler) Stamp() int32 {
	return s.stamp.Load()
}

// TakeDelta empties the single-slot mailbox. ok is false when no delta
// arrived since the last call; a delta not taken before the next one is
// overwritten.
func (s *Sampler) TakeDelta() (delta int32, ok bool) {
	v := s.mailbox.Swap(0)
	if v&mailboxFull == 0 {
		return 0, false
	}
	return int32(uint32(v)), true
}

// Samples returns the results captured by the last interrupt, in
// result-buffer order.
func (s *Sampler) Samples() [ScanGroupSize]ADCValue {
	state := disableInterrupts()
	out := s.samples
	restoreInterrupts(state)
	return out
}

// ADCValue returns the sample mirror, which only Init touches.
func (s *Sampler) ADCValue() uint16 {
	return s.adcVal
}

// Firings returns the number of interrupts serviced.
func (s *Sampler) Firings() uint32 {
	return s.firings.Load()
}

// Pairs returns the number of deltas computed.
func (s *Sampler) Pairs() uint32 {
	return s.pairs.Load()
}
