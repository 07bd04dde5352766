package core

import (
	"errors"
	"testing"
)

// mockScanADC records what the sampler asks of the converter and serves
// scripted conversion results.
type mockScanADC struct {
	cfg           ScanConfig
	irq           InterruptConfig
	handler       func()
	enabled       bool
	sampling      bool
	clears        int
	calls         []string
	results       [3]ADCValue
	configErr     error
	irqErr        error
	enableErr     error
	autosampleErr error
}

func (m *mockScanADC) Configure(cfg ScanConfig) error {
	m.calls = append(m.calls, "configure")
	if m.configErr != nil {
		return m.configErr
	}
	m.cfg = cfg
	return nil
}

func (m *mockScanADC) ReadResult(slot int) ADCValue {
	return m.results[slot]
}

func (m *mockScanADC) ConfigureInterrupt(cfg InterruptConfig, handler func()) error {
	m.calls = append(m.calls, "interrupt")
	m.irq = cfg
	m.handler = handler
	return m.irqErr
}

func (m *mockScanADC) ClearInterruptFlag() {
	m.clears++
}

func (m *mockScanADC) Enable() error {
	m.calls = append(m.calls, "enable")
	if m.enableErr != nil {
		return m.enableErr
	}
	m.enabled = true
	return nil
}

func (m *mockScanADC) StartAutoSample() error {
	m.calls = append(m.calls, "autosample")
	if m.autosampleErr != nil {
		return m.autosampleErr
	}
	m.sampling = true
	return nil
}

func (m *mockScanADC) Disable() error {
	m.calls = append(m.calls, "disable")
	m.handler = nil
	m.enabled = false
	m.sampling = false
	return nil
}

// seqCounter returns one scripted reading per call.
type seqCounter struct {
	seq  []uint32
	next int
}

func (c *seqCounter) Cycles() uint32 {
	v := c.seq[c.next]
	c.next++
	return v
}

func (c *seqCounter) Frequency() uint32 { return 40000000 }

func newTestSampler(t *testing.T, seq ...uint32) (*Sampler, *mockScanADC, *seqCounter) {
	t.Helper()
	adc := &mockScanADC{}
	clock := &seqCounter{seq: seq}
	s := NewSampler(adc, clock)
	if err := s.Init(DefaultSamplerConfig()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	return s, adc, clock
}

func TestHandleInterruptCounterScenario(t *testing.T) {
	s, adc, _ := newTestSampler(t, 100, 250, 400, 620)

	steps := []struct {
		stamp   int32
		diff    int32
		delta   bool
		wantOut int32
	}{
		{stamp: 100, diff: 0},
		{stamp: 0, diff: 150, delta: true, wantOut: 150},
		{stamp: 400, diff: 150},
		{stamp: 0, diff: 220, delta: true, wantOut: 220},
	}

	for i, step := range steps {
		adc.handler()

		if got := s.Stamp(); got != step.stamp {
			t.Errorf("invocation %d: stamp = %d, want %d", i+1, got, step.stamp)
		}
		if got := s.Diff(); got != step.diff {
			t.Errorf("invocation %d: diff = %d, want %d", i+1, got, step.diff)
		}
		delta, ok := s.TakeDelta()
		if ok != step.delta {
			t.Errorf("invocation %d: delta published = %v, want %v", i+1, ok, step.delta)
		}
		if ok && delta != step.wantOut {
			t.Errorf("invocation %d: published delta = %d, want %d", i+1, delta, step.wantOut)
		}
	}

	if s.Firings() != 4 || s.Pairs() != 2 {
		t.Errorf("firings/pairs = %d/%d, want 4/2", s.Firings(), s.Pairs())
	}
}

func TestDeltaOnEveryEvenInvocation(t *testing.T) {
	seqs := map[string][]uint32{
		"steady":    {10, 20, 30, 40, 50, 60},
		"uneven":    {7, 1000, 1003, 99999, 100000, 100001, 250000, 250100},
		"large":     {0x7fff0000, 0x7fff1000, 0x7fff2000, 0x7fff4000},
		"odd count": {5, 9, 13, 17, 21},
	}

	for name, seq := range seqs {
		t.Run(name, func(t *testing.T) {
			s, adc, _ := newTestSampler(t, seq...)
			for i := range seq {
				adc.handler()
				if i%2 == 0 {
					if s.Stamp() != int32(seq[i]) {
						t.Errorf("invocation %d: stamp = %d, want %d", i+1, s.Stamp(), seq[i])
					}
					if _, ok := s.TakeDelta(); ok {
						t.Errorf("invocation %d: unexpected delta", i+1)
					}
					continue
				}
				want := int32(seq[i]) - int32(seq[i-1])
				if s.Stamp() != 0 {
					t.Errorf("invocation %d: stamp = %d, want 0", i+1, s.Stamp())
				}
				if got, ok := s.TakeDelta(); !ok || got != want {
					t.Errorf("invocation %d: delta = %d (%v), want %d", i+1, got, ok, want)
				}
			}
		})
	}
}

func TestClearFlagOncePerInvocation(t *testing.T) {
	_, adc, _ := newTestSampler(t, 100, 250, 400)

	for i := 1; i <= 3; i++ {
		adc.handler()
		if adc.clears != i {
			t.Fatalf("after invocation %d: clears = %d, want %d", i, adc.clears, i)
		}
	}
}

func TestSamplesPassThrough(t *testing.T) {
	s, adc, _ := newTestSampler(t, 1, 2, 3)

	inputs := [][3]ADCValue{
		{512, 300, 1023},
		{0, 0, 0},
		{1, 2, 3},
	}
	for _, in := range inputs {
		adc.results = in
		adc.handler()
		if got := s.Samples(); got != in {
			t.Errorf("Samples() = %v, want %v", got, in)
		}
	}
}

func TestNegativeDeltaWhenCounterStepsBack(t *testing.T) {
	s, adc, _ := newTestSampler(t, 400, 100)

	adc.handler()
	adc.handler()
	if s.Diff() != -300 {
		t.Errorf("diff = %d, want -300", s.Diff())
	}
}

func TestCounterWrapAcrossSignBoundary(t *testing.T) {
	// 32-bit two's complement subtraction absorbs a full wrap.
	s, adc, _ := newTestSampler(t, 0xfffffff0, 0x10)

	adc.handler()
	adc.handler()
	if s.Diff() != 0x20 {
		t.Errorf("diff = %d, want 32", s.Diff())
	}
}

func TestZeroCounterReadingLeavesFlagEmpty(t *testing.T) {
	s, adc, _ := newTestSampler(t, 0, 50, 80)

	adc.handler()
	if s.Stamp() != 0 {
		t.Fatalf("stamp = %d, want 0", s.Stamp())
	}
	adc.handler()
	if s.Stamp() != 50 {
		t.Fatalf("stamp = %d, want 50", s.Stamp())
	}
	adc.handler()
	if s.Diff() != 30 {
		t.Errorf("diff = %d, want 30", s.Diff())
	}
}

func TestMailboxKeepsLatestDelta(t *testing.T) {
	s, adc, _ := newTestSampler(t, 10, 20, 30, 70)

	for i := 0; i < 4; i++ {
		adc.handler()
	}
	got, ok := s.TakeDelta()
	if !ok || got != 40 {
		t.Errorf("TakeDelta = %d (%v), want 40", got, ok)
	}
	if _, ok := s.TakeDelta(); ok {
		t.Error("mailbox not emptied by TakeDelta")
	}
}

func TestInitConfiguresConverter(t *testing.T) {
	adc := &mockScanADC{}
	s := NewSampler(adc, &seqCounter{})

	if err := s.Init(DefaultSamplerConfig()); err != nil {
		t.Fatalf("Init failed: %v", err)
	}

	want := []string{"configure", "interrupt", "enable", "autosample"}
	if len(adc.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", adc.calls, want)
	}
	for i := range want {
		if adc.calls[i] != want[i] {
			t.Errorf("call %d = %s, want %s", i, adc.calls[i], want[i])
		}
	}

	cfg := adc.cfg
	if !cfg.Scan || !cfg.AutoSample || cfg.SamplesPerInterrupt != 3 {
		t.Errorf("scan=%v autosample=%v samples=%d", cfg.Scan, cfg.AutoSample, cfg.SamplesPerInterrupt)
	}
	if cfg.ConversionClockDivisor != LegacyADCS || cfg.AcquisitionTime != LegacySAMC {
		t.Errorf("ADCS/SAMC = %d/%d, want %d/%d", cfg.ConversionClockDivisor, cfg.AcquisitionTime, LegacyADCS, LegacySAMC)
	}
	if cfg.SkipMask() != 0xffe3 {
		t.Errorf("skip mask = %#x, want 0xffe3", cfg.SkipMask())
	}
	if adc.irq.Priority != 1 || adc.irq.SubPriority != 0 {
		t.Errorf("interrupt priority = %d/%d, want 1/0", adc.irq.Priority, adc.irq.SubPriority)
	}
	if !adc.enabled || !adc.sampling || !s.Running() {
		t.Error("converter not running after Init")
	}
	if s.ADCValue() != 0 {
		t.Errorf("adc value = %d, want 0", s.ADCValue())
	}
}

func TestInitIsIdempotent(t *testing.T) {
	adc := &mockScanADC{}
	s := NewSampler(adc, &seqCounter{})

	for i := 0; i < 2; i++ {
		if err := s.Init(DefaultSamplerConfig()); err != nil {
			t.Fatalf("Init #%d failed: %v", i+1, err)
		}
	}
	if len(adc.calls) != 4 {
		t.Errorf("second Init touched hardware: %v", adc.calls)
	}
}

func TestInitRateOverride(t *testing.T) {
	adc := &mockScanADC{}
	s := NewSampler(adc, &seqCounter{})

	cfg := DefaultSamplerConfig()
	cfg.RateHz = 2000
	if err := s.Init(cfg); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	if adc.cfg.ConversionRate() != 2000 {
		t.Errorf("conversion rate = %d, want 2000", adc.cfg.ConversionRate())
	}
}

func TestInitFailures(t *testing.T) {
	hwErr := errors.New("bus fault")

	tests := []struct {
		name     string
		mutate   func(*SamplerConfig, *mockScanADC)
		wantStep string
		wantErr  error
		disarmed bool // Init must call Disable to undo a partial setup
	}{
		{
			name:     "no channels",
			mutate:   func(c *SamplerConfig, _ *mockScanADC) { c.Scan.Channels = nil },
			wantStep: "config",
			wantErr:  ErrNoChannels,
		},
		{
			name:     "group mismatch",
			mutate:   func(c *SamplerConfig, _ *mockScanADC) { c.Scan.Channels = []ADCChannelID{2, 3} },
			wantStep: "config",
			wantErr:  ErrScanGroupMismatch,
		},
		{
			name:     "priority zero",
			mutate:   func(c *SamplerConfig, _ *mockScanADC) { c.Interrupt.Priority = 0 },
			wantStep: "interrupt",
			wantErr:  ErrInterruptPriority,
		},
		{
			name:     "unreachable rate",
			mutate:   func(c *SamplerConfig, _ *mockScanADC) { c.RateHz = 10000000 },
			wantStep: "timing",
			wantErr:  ErrRateUnreachable,
		},
		{
			name:     "driver configure",
			mutate:   func(_ *SamplerConfig, m *mockScanADC) { m.configErr = hwErr },
			wantStep: "config",
			wantErr:  hwErr,
		},
		{
			name:     "clock too slow",
			mutate:   func(c *SamplerConfig, _ *mockScanADC) { c.Scan.PeripheralClock = 1000 },
			wantStep: "config",
			wantErr:  ErrRateUnreachable,
		},
		{
			name:     "driver interrupt",
			mutate:   func(_ *SamplerConfig, m *mockScanADC) { m.irqErr = hwErr },
			wantStep: "interrupt",
			wantErr:  hwErr,
			disarmed: true,
		},
		{
			name:     "driver enable",
			mutate:   func(_ *SamplerConfig, m *mockScanADC) { m.enableErr = hwErr },
			wantStep: "enable",
			wantErr:  hwErr,
			disarmed: true,
		},
		{
			name:     "driver autosample",
			mutate:   func(_ *SamplerConfig, m *mockScanADC) { m.autosampleErr = hwErr },
			wantStep: "autosample",
			wantErr:  hwErr,
			disarmed: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			adc := &mockScanADC{}
			cfg := DefaultSamplerConfig()
			tc.mutate(&cfg, adc)

			s := NewSampler(adc, &seqCounter{})
			err := s.Init(cfg)
			if err == nil {
				t.Fatal("Init succeeded, want error")
			}
			var ie *InitError
			if !errors.As(err, &ie) {
				t.Fatalf("error %v is not an *InitError", err)
			}
			if ie.Step != tc.wantStep {
				t.Errorf("step = %q, want %q", ie.Step, tc.wantStep)
			}
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("error %v does not wrap %v", err, tc.wantErr)
			}
			if s.Running() {
				t.Error("sampler running after failed Init")
			}
			if tc.disarmed {
				if last := adc.calls[len(adc.calls)-1]; last != "disable" {
					t.Errorf("calls = %v, want Disable after the failure", adc.calls)
				}
				if adc.handler != nil || adc.enabled || adc.sampling {
					t.Error("interrupt still armed after failed Init")
				}
			}
		})
	}
}

func TestStop(t *testing.T) {
	s, adc, _ := newTestSampler(t, 100, 250, 400)

	adc.handler()
	adc.handler()
	adc.handler()
	if err := s.Stop(); err != nil {
		t.Fatalf("Stop failed: %v", err)
	}
	if adc.enabled || adc.sampling || s.Running() {
		t.Error("converter still running after Stop")
	}
	if s.Stamp() != 0 {
		t.Errorf("stamp = %d after Stop, want 0", s.Stamp())
	}
	if s.Diff() != 150 {
		t.Errorf("diff = %d after Stop, want 150", s.Diff())
	}
	if err := s.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("second Stop = %v, want ErrNotRunning", err)
	}
}

func TestInterruptEventsRecorded(t *testing.T) {
	ClearTimingRing()
	_, adc, _ := newTestSampler(t, 100, 250)
	adc.handler()
	adc.handler()

	events := TimingEvents()
	if len(events) != 3 {
		t.Fatalf("recorded %d events, want 3", len(events))
	}
	if events[0].EventType != EvtSamplerInit || events[1].EventType != EvtFirstStamp || events[2].EventType != EvtDelta {
		t.Errorf("event types = %d %d %d", events[0].EventType, events[1].EventType, events[2].EventType)
	}
	if events[2].Value1 != 100 || events[2].Value2 != 150 {
		t.Errorf("delta event = %+v", events[2])
	}
}

func TestInitRetryAfterFailure(t *testing.T) {
	adc := &mockScanADC{autosampleErr: errors.New("bus fault")}
	s := NewSampler(adc, &seqCounter{seq: []uint32{100, 250}})

	if err := s.Init(DefaultSamplerConfig()); err == nil {
		t.Fatal("Init succeeded, want error")
	}
	if err := s.Stop(); !errors.Is(err, ErrNotRunning) {
		t.Errorf("Stop after failed Init = %v, want ErrNotRunning", err)
	}

	adc.autosampleErr = nil
	if err := s.Init(DefaultSamplerConfig()); err != nil {
		t.Fatalf("retry Init failed: %v", err)
	}
	adc.handler()
	adc.handler()
	if s.Diff() != 150 {
		t.Errorf("diff = %d, want 150", s.Diff())
	}
}
