//go:build !tinygo

package core

import "sync"

// State is the saved interrupt mask on regular Go.
type State uintptr

// irqMask stands in for the interrupt-enable bit: a simulated interrupt
// holds it while its handler runs, a critical section holds it to keep
// handlers out.
var irqMask sync.Mutex

// disableInterrupts enters a critical section.
func disableInterrupts() State {
	irqMask.Lock()
	return 0
}

// restoreInterrupts leaves the critical section.
func restoreInterrupts(state State) {
	irqMask.Unlock()
}

// RaiseInterrupt runs handler the way hardware would: never concurrently
// with a critical section or another handler.
func RaiseInterrupt(handler func()) {
	irqMask.Lock()
	defer irqMask.Unlock()
	handler()
}
