package monitor

import (
	"strings"
	"testing"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		line string
		want Report
		ok   bool
	}{
		{"diff=150 cycles us=150", Report{150, 150}, true},
		{"diff=-300 cycles us=-7\r", Report{-300, -7}, true},
		{"  diff=40000 cycles us=1000  ", Report{40000, 1000}, true},
		{"diff=150 cycles", Report{}, false},
		{"diff=150 cycles us=", Report{}, false},
		{"diff= cycles us=12", Report{}, false},
		{"diff=abc cycles us=1", Report{}, false},
		{"diff=99999999999 cycles us=1", Report{}, false},
		{"[TIMING] DELTA clock=42 v1=100 v2=150", Report{}, false},
		{"flash: M25P16 id=202015 sr=00", Report{}, false},
		{"", Report{}, false},
	}

	for _, tc := range tests {
		got, ok := ParseLine(tc.line)
		if ok != tc.ok || got != tc.want {
			t.Errorf("ParseLine(%q) = %+v, %v; want %+v, %v", tc.line, got, ok, tc.want, tc.ok)
		}
	}
}

func TestStats(t *testing.T) {
	var s Stats
	if s.Mean() != 0 {
		t.Errorf("empty mean = %f", s.Mean())
	}

	for _, c := range []int32{150, 220, -300, 130} {
		s.Add(Report{Cycles: c})
	}
	if s.Count != 4 || s.Negative != 1 {
		t.Errorf("count/negative = %d/%d, want 4/1", s.Count, s.Negative)
	}
	if s.Min != -300 || s.Max != 220 {
		t.Errorf("min/max = %d/%d, want -300/220", s.Min, s.Max)
	}
	if s.Mean() != 50 {
		t.Errorf("mean = %f, want 50", s.Mean())
	}
}

func TestScan(t *testing.T) {
	input := "flash: M25P16 id=202015 sr=00\r\n" +
		"diff=150 cycles us=150\r\n" +
		"diff=220 cycles us=220\n" +
		"[TIMING] === End Dump ===\n"

	var reports []Report
	var other []string
	err := Scan(strings.NewReader(input),
		func(r Report) { reports = append(reports, r) },
		func(s string) { other = append(other, s) })
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if len(reports) != 2 || reports[1].Cycles != 220 {
		t.Errorf("reports = %+v", reports)
	}
	if len(other) != 2 || other[0] != "flash: M25P16 id=202015 sr=00" {
		t.Errorf("other = %q", other)
	}

	// nil callbacks are allowed
	if err := Scan(strings.NewReader(input), nil, nil); err != nil {
		t.Errorf("Scan with nil callbacks: %v", err)
	}
}
