package core

import "sync/atomic"

// TimerFreq is the default foreground clock rate (1 MHz microsecond timer).
const TimerFreq = 1000000

var (
	systemTicks atomic.Uint32
	timerFreq   atomic.Uint32
	bootTime    uint32
)

// GetTime returns the current foreground time in timer ticks
func GetTime() uint32 {
	return systemTicks.Load()
}

// SetTime sets the foreground time. Targets call it from the main loop with
// the hardware timer value; tests call it directly.
func SetTime(ticks uint32) {
	systemTicks.Store(ticks)
}

// SetTimerFreq overrides the tick rate used by the conversion helpers.
func SetTimerFreq(hz uint32) {
	timerFreq.Store(hz)
}

func currentTimerFreq() uint32 {
	if f := timerFreq.Load(); f != 0 {
		return f
	}
	return TimerFreq
}

// TimerFromUS converts microseconds to timer ticks
func TimerFromUS(us uint32) uint32 {
	return uint32(uint64(us) * uint64(currentTimerFreq()) / 1000000)
}

// TimerToUS converts timer ticks to microseconds
func TimerToUS(ticks uint32) uint32 {
	return uint32(uint64(ticks) * 1000000 / uint64(currentTimerFreq()))
}

// TimerInit latches the boot time.
func TimerInit() {
	bootTime = GetTime()
}

// Uptime returns ticks since TimerInit. Wraps with the 32-bit timer.
func Uptime() uint32 {
	return GetTime() - bootTime
}
