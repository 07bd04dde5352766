//go:build rp2040

package main

import (
	"runtime/volatile"
	"unsafe"

	"accelfw/core"
)

// RP2040 Timer peripheral memory map
const (
	timerBase     = 0x40054000
	timerTIMERAWL = timerBase + 0x28 // raw timer low word, no latching
	timerFreqHz   = 1000000
)

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerTIMERAWL)))

// TimerCounter is the sampler's cycle counter. The Cortex-M0+ has no cycle
// counter, so the 1 MHz system timer stands in.
type TimerCounter struct{}

func (TimerCounter) Cycles() uint32 {
	return timerRAWL.Get()
}

func (TimerCounter) Frequency() uint32 {
	return timerFreqHz
}

// InitClock points the foreground clock at the hardware timer.
func InitClock() {
	core.SetTimerFreq(timerFreqHz)
	UpdateSystemTime()
	core.TimerInit()
}

// UpdateSystemTime updates the core timer with hardware time.
// Called from the main loop.
func UpdateSystemTime() {
	core.SetTime(timerRAWL.Get())
}
