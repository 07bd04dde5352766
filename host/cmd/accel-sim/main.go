package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"accelfw/config"
	"accelfw/core"
	"accelfw/host/sim"
)

var (
	configPath = flag.String("config", "", "JSON configuration file (defaults when empty)")
	duration   = flag.Duration("duration", 5*time.Second, "How long to sample (0 = until interrupted)")
	cycleHz    = flag.Uint("cycle-hz", 40000000, "Simulated cycle counter rate")
	rate       = flag.Uint("rate", 0, "Conversion rate override in Hz")
	dump       = flag.Bool("dump", false, "Dump the timing ring on exit")
)

func main() {
	flag.Parse()

	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadFile(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to load config: %v\n", err)
			os.Exit(1)
		}
	}
	if *rate != 0 {
		cfg.Sampler.RateHz = uint32(*rate)
	}

	core.SetDebugWriter(func(s string) { fmt.Println(s) })
	core.SetDebugEnabled(true)

	adc := sim.NewADC(sim.SineSource(64))
	counter := sim.NewCounter(uint32(*cycleHz))
	sampler := core.NewSampler(adc, counter)

	if err := sampler.Init(cfg.SamplerConfig()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if *duration > 0 {
		ctx, cancel = context.WithTimeout(ctx, *duration)
		defer cancel()
	}

	run(ctx, sampler, cfg.ReportIntervalUS, counter.Frequency())

	if err := sampler.Stop(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	fmt.Printf("firings=%d pairs=%d clears=%d storms=%d last=%v\n",
		sampler.Firings(), sampler.Pairs(), adc.Clears(), adc.Storms(), sampler.Samples())
	if *dump {
		core.DumpTimingRing()
	}
}

// run is the foreground loop: it advances the foreground clock and
// dispatches the delta reporter until ctx is done.
func run(ctx context.Context, sampler *core.Sampler, intervalUS, cycleHz uint32) {
	start := time.Now()
	now := func() uint32 { return uint32(time.Since(start) / time.Microsecond) }

	var sched core.Scheduler
	reporter := core.NewDeltaReporter(sampler, core.TimerFromUS(intervalUS), cycleHz)
	reporter.Start(&sched, now())

	tick := time.NewTicker(time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			core.SetTime(now())
			sched.Dispatch(core.GetTime())
		}
	}
}
