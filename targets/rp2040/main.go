//go:build rp2040

package main

import (
	"time"

	"accelfw/config"
	"accelfw/core"
)

func main() {
	InitDebugUART()
	core.SetDebugWriter(DebugPrintln)

	cfg := config.DefaultConfig()
	// ADC0-ADC2 (GPIO26-28) carry the accelerometer axes on this board.
	cfg.Sampler.Channels = []uint8{0, 1, 2}
	core.SetDebugEnabled(true)

	InitClock()

	core.SetSPIDriver(NewRP2040SPIDriver())
	core.SetGPIODriver(NewRPGPIODriver())
	core.SetADCDriver(NewRPScanADC())

	// Flash bring-up failing does not stop sampling.
	flashCfg := cfg.FlashConfig()
	if bus, err := core.InitializeSPI(flashCfg); err != nil {
		DebugPrintln("flash: " + err.Error())
	} else if _, err := core.InitializeM25P16(bus, core.MustGPIO(), bus.CS(), flashCfg.PowerUp); err != nil {
		DebugPrintln("flash: " + err.Error())
	}

	sampler := core.NewSampler(core.MustADC(), TimerCounter{})
	if err := sampler.Init(cfg.SamplerConfig()); err != nil {
		DebugPrintln("adc: " + err.Error())
		core.DumpTimingRing()
		for {
			time.Sleep(time.Second)
		}
	}
	core.SetDebugEnabled(cfg.Debug)

	var sched core.Scheduler
	reporter := core.NewDeltaReporter(sampler, core.TimerFromUS(cfg.ReportIntervalUS), TimerCounter{}.Frequency())
	reporter.Start(&sched, core.GetTime())

	for {
		UpdateSystemTime()
		sched.Dispatch(core.GetTime())
		time.Sleep(100 * time.Microsecond)
	}
}
