package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"

	"accelfw/host/monitor"
	"accelfw/host/serial"
)

var (
	device  = flag.String("device", "/dev/ttyUSB0", "Serial device path")
	baud    = flag.Int("baud", serial.DefaultBaud, "Debug UART baud rate")
	verbose = flag.Bool("verbose", false, "Echo non-report lines")
)

func main() {
	flag.Parse()

	port, err := serial.Open(&serial.Config{Device: *device, Baud: *baud})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	_ = port.Flush()

	var stats monitor.Stats
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		port.Close()
	}()

	fmt.Printf("Monitoring %s at %d baud (Ctrl-C to stop)\n", *device, *baud)
	err = monitor.Scan(port,
		func(r monitor.Report) {
			stats.Add(r)
			fmt.Printf("diff=%d cycles (%d us)\n", r.Cycles, r.Micros)
		},
		func(line string) {
			if *verbose {
				fmt.Println(line)
			}
		})

	fmt.Printf("\n%d reports: min=%d max=%d mean=%.1f negative=%d\n",
		stats.Count, stats.Min, stats.Max, stats.Mean(), stats.Negative)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Read stopped: %v\n", err)
	}
}
