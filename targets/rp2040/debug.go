//go:build rp2040

package main

import "machine"

var (
	debugUART *machine.UART
	uartReady bool
)

// InitDebugUART brings up UART0 on GPIO0 (TX) / GPIO1 (RX) at 115200 baud.
func InitDebugUART() {
	debugUART = machine.UART0
	err := debugUART.Configure(machine.UARTConfig{
		BaudRate: 115200,
		TX:       machine.GPIO0,
		RX:       machine.GPIO1,
	})
	uartReady = err == nil
}

// DebugPrintln writes a line to the debug UART
func DebugPrintln(s string) {
	if !uartReady {
		return
	}
	debugUART.Write([]byte(s))
	debugUART.Write([]byte("\r\n"))
}
