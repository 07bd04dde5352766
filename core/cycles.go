package core

// CycleCounter is a free-running hardware counter used as a coarse clock.
// On a MIPS core this is CP0 Count; other targets supply their nearest
// equivalent.
type CycleCounter interface {
	// Cycles returns the current counter value. Must be safe to call from
	// interrupt context.
	Cycles() uint32

	// Frequency returns the counter rate in Hz.
	Frequency() uint32
}

// CyclesToUS converts a cycle delta to microseconds at freq Hz.
// Negative deltas convert to negative durations.
func CyclesToUS(delta int32, freq uint32) int64 {
	if freq == 0 {
		return 0
	}
	return int64(delta) * 1000000 / int64(freq)
}
