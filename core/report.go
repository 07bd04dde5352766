package core

// DeltaReporter periodically drains the sampler mailbox from the foreground
// loop and writes the delta through the debug writer.
type DeltaReporter struct {
	Timer Timer

	sampler  *Sampler
	interval uint32 // ticks between reports
	cycleHz  uint32

	// Last is the most recent delta reported; Reports counts them.
	Last    int32
	Reports uint32
	Misses  uint32 // report slots with no new delta
}

// NewDeltaReporter reports every interval ticks; cycleHz converts deltas to
// microseconds in the output line.
func NewDeltaReporter(s *Sampler, interval, cycleHz uint32) *DeltaReporter {
	r := &DeltaReporter{sampler: s, interval: interval, cycleHz: cycleHz}
	r.Timer.Handler = r.fire
	return r
}

// Start schedules the first report interval ticks after now.
func (r *DeltaReporter) Start(sched *Scheduler, now uint32) {
	r.Timer.WakeTime = now + r.interval
	sched.Schedule(&r.Timer)
}

func (r *DeltaReporter) fire(t *Timer) uint8 {
	if !r.sampler.Running() {
		return SF_DONE
	}

	if delta, ok := r.sampler.TakeDelta(); ok {
		r.Last = delta
		r.Reports++
		DebugPrintln(FormatDelta(delta, r.cycleHz))
	} else {
		r.Misses++
	}

	t.WakeTime += r.interval
	return SF_RESCHEDULE
}

// FormatDelta renders a delta report line.
func FormatDelta(delta int32, cycleHz uint32) string {
	return "diff=" + itoa(int64(delta)) + " cycles us=" + itoa(CyclesToUS(delta, cycleHz))
}
