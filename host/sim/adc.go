// Package sim provides hosted stand-ins for the scan ADC and cycle counter
// so the sampling core runs without hardware. The conversion-complete
// interrupt is a dedicated goroutine paced by a ticker.
package sim

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"accelfw/core"
)

// Source produces the conversion result for channel ch in scan group n.
type Source func(ch core.ADCChannelID, n uint32) core.ADCValue

// SineSource returns 10-bit readings swinging around mid-scale, one phase
// per channel, with the given period in scan groups.
func SineSource(period uint32) Source {
	return func(ch core.ADCChannelID, n uint32) core.ADCValue {
		phase := 2 * math.Pi * (float64(n%period)/float64(period) + float64(ch)/3)
		return core.ADCValue(512 + 200*math.Sin(phase))
	}
}

// ADC simulates a scan-mode converter.
type ADC struct {
	mu sync.Mutex

	source  Source
	cfg     core.ScanConfig
	irq     core.InterruptConfig
	handler func()
	enabled bool

	results [core.MaxResultSlots]core.ADCValue
	group   atomic.Uint32
	pending atomic.Bool

	clears  atomic.Uint32
	storms  atomic.Uint32
	running bool
	stop    chan struct{}
	done    chan struct{}
}

// NewADC creates a simulated converter fed by src.
func NewADC(src Source) *ADC {
	if src == nil {
		src = SineSource(64)
	}
	return &ADC{source: src}
}

func (a *ADC) Configure(cfg core.ScanConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Format != core.FormatInteger16 {
		return errors.New("sim: only integer format supported")
	}
	a.mu.Lock()
	a.cfg = cfg
	a.mu.Unlock()
	return nil
}

func (a *ADC) ReadResult(slot int) core.ADCValue {
	if slot < 0 || slot >= len(a.results) {
		return 0
	}
	return a.results[slot]
}

func (a *ADC) ConfigureInterrupt(cfg core.InterruptConfig, handler func()) error {
	if handler == nil {
		return errors.New("sim: nil interrupt handler")
	}
	a.mu.Lock()
	a.irq = cfg
	a.handler = handler
	a.mu.Unlock()
	return nil
}

func (a *ADC) ClearInterruptFlag() {
	a.pending.Store(false)
	a.clears.Add(1)
}

func (a *ADC) Enable() error {
	a.mu.Lock()
	a.enabled = true
	a.mu.Unlock()
	return nil
}

// StartAutoSample starts the interrupt goroutine at the configured
// interrupt rate.
func (a *ADC) StartAutoSample() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.enabled {
		return errors.New("sim: ADC not enabled")
	}
	if a.running {
		return nil
	}
	rate := a.cfg.InterruptRate()
	if rate == 0 {
		return core.ErrRateUnreachable
	}
	a.running = true
	a.stop = make(chan struct{})
	a.done = make(chan struct{})
	go a.run(time.Second/time.Duration(rate), a.stop, a.done)
	return nil
}

// Disable stops the interrupt goroutine and waits for it to exit.
func (a *ADC) Disable() error {
	a.mu.Lock()
	running, stop, done := a.running, a.stop, a.done
	a.running = false
	a.enabled = false
	a.mu.Unlock()

	if running {
		close(stop)
		<-done
	}
	return nil
}

func (a *ADC) run(period time.Duration, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			a.Fire()
		}
	}
}

// Fire converts one scan group and raises the interrupt synchronously.
// Nothing happens while the converter is disabled or has no handler.
func (a *ADC) Fire() {
	a.mu.Lock()
	cfg, handler, enabled := a.cfg, a.handler, a.enabled
	a.mu.Unlock()
	if handler == nil || !enabled {
		return
	}

	core.RaiseInterrupt(func() {
		n := a.group.Add(1) - 1
		for i, ch := range cfg.Channels {
			a.results[i] = a.source(ch, n)
		}
		a.pending.Store(true)
		handler()
	})

	// An uncleared flag would re-enter the vector immediately on hardware.
	if a.pending.Load() {
		a.storms.Add(1)
	}
}

// Clears returns how many times the interrupt flag was cleared.
func (a *ADC) Clears() uint32 {
	return a.clears.Load()
}

// Storms returns how many interrupts returned with the flag still set.
func (a *ADC) Storms() uint32 {
	return a.storms.Load()
}

// Groups returns the number of scan groups converted.
func (a *ADC) Groups() uint32 {
	return a.group.Load()
}
