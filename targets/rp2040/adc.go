//go:build rp2040

package main

import (
	"device/rp"
	"errors"
	"machine"
	"runtime/interrupt"

	"accelfw/core"
)

// RP2040 ADC: 48 MHz clock, 96 cycles per conversion, 5 inputs
// (ADC0-ADC3 on GPIO26-29, input 4 is the temperature sensor).
const (
	adcClockHz       = 48000000
	adcCyclesPerConv = 96
	adcInputs        = 5
	adcFIFODepth     = 4
	adcMaxDivInt     = 0xffff
)

var (
	errADCFormat    = errors.New("rp2040 ADC: only integer results")
	errADCVref      = errors.New("rp2040 ADC: only the ADC_AVDD reference")
	errADCClock     = errors.New("rp2040 ADC: only the peripheral clock")
	errADCTrigger   = errors.New("rp2040 ADC: only free-running auto conversion")
	errADCChannel   = errors.New("rp2040 ADC: channels must be ascending and below 5")
	errADCGroup     = errors.New("rp2040 ADC: scan group exceeds FIFO depth")
	errADCTooFast   = errors.New("rp2040 ADC: rate above 500 ksps")
	errADCTooSlow   = errors.New("rp2040 ADC: rate below the 16-bit divider range")
	errADCNotArmed  = errors.New("rp2040 ADC: interrupt not configured")
	errADCNotConfig = errors.New("rp2040 ADC: not configured")
)

// scanADC is the driver the FIFO vector services.
var scanADC *RPScanADC

// RPScanADC implements core.ScanADCDriver with the RP2040 round-robin
// sampler and its FIFO-threshold interrupt. The FIFO interrupt is
// level-sensitive; clearing it means draining the FIFO.
type RPScanADC struct {
	cfg        core.ScanConfig
	configured bool
	group      int

	results [adcFIFODepth]core.ADCValue
	handler func()
	irq     interrupt.Interrupt
	armed   bool
}

// NewRPScanADC constructs the driver but does not touch the hardware.
func NewRPScanADC() *RPScanADC {
	return &RPScanADC{}
}

func (d *RPScanADC) Configure(cfg core.ScanConfig) error {
	switch {
	case cfg.Format != core.FormatInteger16:
		return errADCFormat
	case cfg.VoltageRef != core.VrefAVddAVss:
		return errADCVref
	case cfg.ClockSource != core.ClockPeripheral:
		return errADCClock
	case cfg.Trigger != core.TriggerAuto || !cfg.AutoSample:
		return errADCTrigger
	case int(cfg.SamplesPerInterrupt) > adcFIFODepth:
		return errADCGroup
	}
	for i, ch := range cfg.Channels {
		if ch >= adcInputs || (i > 0 && ch <= cfg.Channels[i-1]) {
			return errADCChannel
		}
	}

	// The PIC-style divisors define the conversion rate; reproduce it with
	// the RP2040 clock divider.
	div, err := adcDivider(cfg.ConversionRate())
	if err != nil {
		return err
	}

	machine.InitADC()
	for _, ch := range cfg.Channels {
		if ch < 4 {
			pin := machine.ADC{Pin: machine.ADC0 + machine.Pin(ch)}
			pin.Configure(machine.ADCConfig{})
		} else {
			rp.ADC.CS.SetBits(rp.ADC_CS_TS_EN)
		}
	}

	rp.ADC.DIV.Set(((div - 1) << rp.ADC_DIV_INT_Pos) & rp.ADC_DIV_INT_Msk)
	rp.ADC.FCS.Set(rp.ADC_FCS_EN |
		(uint32(cfg.SamplesPerInterrupt)<<rp.ADC_FCS_THRESH_Pos)&rp.ADC_FCS_THRESH_Msk)
	rp.ADC.CS.ReplaceBits(cfg.ScanMask()<<rp.ADC_CS_RROBIN_Pos, rp.ADC_CS_RROBIN_Msk, 0)
	rp.ADC.CS.ReplaceBits(uint32(cfg.Channels[0])<<rp.ADC_CS_AINSEL_Pos, rp.ADC_CS_AINSEL_Msk, 0)

	d.cfg = cfg
	d.group = int(cfg.SamplesPerInterrupt)
	d.configured = true
	return nil
}

// adcDivider returns the clock cycles per conversion for rate. DIV.INT
// holds one less than that.
func adcDivider(rate uint32) (uint32, error) {
	if rate == 0 {
		return 0, core.ErrRateUnreachable
	}
	div := uint32(adcClockHz / rate)
	if div < adcCyclesPerConv {
		return 0, errADCTooFast
	}
	if div-1 > adcMaxDivInt {
		return 0, errADCTooSlow
	}
	return div, nil
}

// ReadResult returns a result latched on interrupt entry.
func (d *RPScanADC) ReadResult(slot int) core.ADCValue {
	if slot < 0 || slot >= len(d.results) {
		return 0
	}
	return d.results[slot]
}

// nvicPriority maps 1 (lowest) .. 7 (highest) onto the two priority bits
// implemented by the Cortex-M0+. Sub-priorities have no equivalent.
func nvicPriority(p uint8) uint8 {
	return ((7 - p) >> 1) << 6
}

func (d *RPScanADC) ConfigureInterrupt(cfg core.InterruptConfig, handler func()) error {
	if !d.configured {
		return errADCNotConfig
	}
	d.handler = handler
	scanADC = d

	d.irq = interrupt.New(rp.IRQ_ADC_IRQ_FIFO, adcFIFOHandler)
	d.irq.SetPriority(nvicPriority(cfg.Priority))
	rp.ADC.INTE.SetBits(rp.ADC_INTE_FIFO)
	d.irq.Enable()
	d.armed = true
	return nil
}

// adcFIFOHandler latches one scan group from the FIFO, then runs the core
// handler.
func adcFIFOHandler(interrupt.Interrupt) {
	d := scanADC
	if d == nil {
		return
	}
	for i := 0; i < d.group; i++ {
		d.results[i] = core.ADCValue(rp.ADC.FIFO.Get() & rp.ADC_FIFO_VAL_Msk)
	}
	if d.handler != nil {
		d.handler()
	}
}

// ClearInterruptFlag drops anything left in the FIFO below the threshold
// and clears the sticky overflow/underflow bits.
func (d *RPScanADC) ClearInterruptFlag() {
	level := (rp.ADC.FCS.Get() & rp.ADC_FCS_LEVEL_Msk) >> rp.ADC_FCS_LEVEL_Pos
	if rp.ADC.FCS.HasBits(rp.ADC_FCS_OVER) {
		// Group alignment is lost after an overflow; start over.
		for ; level > 0; level-- {
			rp.ADC.FIFO.Get()
		}
	}
	rp.ADC.FCS.SetBits(rp.ADC_FCS_OVER | rp.ADC_FCS_UNDER)
}

func (d *RPScanADC) Enable() error {
	if !d.configured {
		return errADCNotConfig
	}
	rp.ADC.CS.SetBits(rp.ADC_CS_EN)
	for !rp.ADC.CS.HasBits(rp.ADC_CS_READY) {
	}
	return nil
}

func (d *RPScanADC) StartAutoSample() error {
	if !d.armed {
		return errADCNotArmed
	}
	rp.ADC.CS.SetBits(rp.ADC_CS_START_MANY)
	return nil
}

func (d *RPScanADC) Disable() error {
	rp.ADC.CS.ClearBits(rp.ADC_CS_START_MANY)
	rp.ADC.INTE.ClearBits(rp.ADC_INTE_FIFO)
	if d.armed {
		d.irq.Disable()
		d.armed = false
	}
	for !rp.ADC.FCS.HasBits(rp.ADC_FCS_EMPTY) {
		rp.ADC.FIFO.Get()
	}
	rp.ADC.CS.ClearBits(rp.ADC_CS_EN)
	scanADC = nil
	return nil
}
