// Package monitor reads delta report lines from the firmware debug output.
package monitor

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// Report is one parsed "diff=<cycles> cycles us=<micros>" line.
type Report struct {
	Cycles int32
	Micros int64
}

// ParseLine extracts a Report from a debug line. ok is false for lines
// that are not delta reports.
func ParseLine(line string) (r Report, ok bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "diff=") {
		return Report{}, false
	}

	var haveCycles, haveMicros bool
	for _, field := range strings.Fields(line) {
		key, val, found := strings.Cut(field, "=")
		if !found {
			continue
		}
		switch key {
		case "diff":
			n, err := strconv.ParseInt(val, 10, 32)
			if err != nil {
				return Report{}, false
			}
			r.Cycles, haveCycles = int32(n), true
		case "us":
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return Report{}, false
			}
			r.Micros, haveMicros = n, true
		}
	}
	if !haveCycles || !haveMicros {
		return Report{}, false
	}
	return r, true
}

// Stats accumulates delta reports.
type Stats struct {
	Count    int
	Negative int // deltas below zero: counter wrapped or stepped back
	Min, Max int32
	sum      int64
}

// Add folds r into the statistics.
func (s *Stats) Add(r Report) {
	if s.Count == 0 || r.Cycles < s.Min {
		s.Min = r.Cycles
	}
	if s.Count == 0 || r.Cycles > s.Max {
		s.Max = r.Cycles
	}
	if r.Cycles < 0 {
		s.Negative++
	}
	s.Count++
	s.sum += int64(r.Cycles)
}

// Mean returns the average delta in cycles.
func (s *Stats) Mean() float64 {
	if s.Count == 0 {
		return 0
	}
	return float64(s.sum) / float64(s.Count)
}

// Scan reads lines from r until EOF, calling onReport for every delta report
// and onOther for anything else. Either callback may be nil.
func Scan(r io.Reader, onReport func(Report), onOther func(string)) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if rep, ok := ParseLine(line); ok {
			if onReport != nil {
				onReport(rep)
			}
		} else if onOther != nil {
			onOther(line)
		}
	}
	return sc.Err()
}
