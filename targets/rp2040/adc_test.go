//go:build rp2040

package main

import (
	"testing"

	"accelfw/core"
)

func TestADCDivider(t *testing.T) {
	tests := []struct {
		name    string
		rate    uint32
		want    uint32
		wantErr error
	}{
		{"legacy divisors", core.ConversionRate(core.LegacyPeripheralClock, core.LegacyADCS, core.LegacySAMC), 46109, nil},
		{"500 ksps", 500000, 96, nil},
		{"slowest", 733, 65484, nil},
		{"zero", 0, 0, core.ErrRateUnreachable},
		{"above 500 ksps", 500001, 0, errADCTooFast},
		{"below divider range", 732, 0, errADCTooSlow},
		{"ADCS 255 SAMC 31", core.ConversionRate(core.LegacyPeripheralClock, 255, 31), 0, errADCTooSlow},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := adcDivider(tc.rate)
			if err != tc.wantErr || got != tc.want {
				t.Errorf("adcDivider(%d) = %d, %v; want %d, %v", tc.rate, got, err, tc.want, tc.wantErr)
			}
		})
	}
}
