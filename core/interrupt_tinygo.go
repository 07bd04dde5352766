//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks interrupts and returns the previous state
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the saved interrupt state
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}

// RaiseInterrupt runs handler with interrupts masked. Hardware vectors call
// handlers directly; this exists for software-triggered servicing.
func RaiseInterrupt(handler func()) {
	state := interrupt.Disable()
	handler()
	interrupt.Restore(state)
}
