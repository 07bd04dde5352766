package core

// Scan ADC timing. TAD = 2 * TPB * (ADCS + 1); one conversion takes
// SAMC TAD of acquisition plus ConversionTAD TAD of successive approximation.
const (
	ConversionTAD     = 12
	MinAcquisitionTAD = 1
	MaxAcquisitionTAD = 31
	MinTADNanos       = 65

	// rate search accepts divisors within 1/RateTolerance of the target
	RateTolerance = 50
)

// Legacy accelerometer settings: ADCS/SAMC as shipped for a 2.5 MHz bus clock.
const (
	LegacyPeripheralClock = 2500000
	LegacyADCS            = 47
	LegacySAMC            = 13
)

// ConversionRate returns conversions per second for the given bus clock and
// divisors.
func ConversionRate(pbclk uint32, adcs, samc uint8) uint32 {
	denom := 2 * (uint32(adcs) + 1) * (uint32(samc) + ConversionTAD)
	return pbclk / denom
}

// TADNanos returns the conversion clock period in nanoseconds.
func TADNanos(pbclk uint32, adcs uint8) uint32 {
	if pbclk == 0 {
		return 0
	}
	return uint32(uint64(2*(uint32(adcs)+1)) * 1000000000 / uint64(pbclk))
}

// TimingFor picks ADCS/SAMC so conversions run as close as possible to rate
// on a bus clocked at pbclk. Ties prefer the longer acquisition time.
func TimingFor(pbclk, rate uint32) (adcs, samc uint8, err error) {
	if pbclk == 0 {
		return 0, 0, ErrNoPeripheralClock
	}
	if rate == 0 {
		return 0, 0, ErrRateUnreachable
	}

	bestDiff := ^uint32(0)
	for a := 0; a <= 255; a++ {
		if TADNanos(pbclk, uint8(a)) < MinTADNanos {
			continue
		}
		for s := MinAcquisitionTAD; s <= MaxAcquisitionTAD; s++ {
			r := ConversionRate(pbclk, uint8(a), uint8(s))
			diff := r - rate
			if r < rate {
				diff = rate - r
			}
			if diff < bestDiff || (diff == bestDiff && uint8(s) > samc) {
				bestDiff = diff
				adcs, samc = uint8(a), uint8(s)
			}
		}
	}

	if bestDiff == ^uint32(0) || uint64(bestDiff)*RateTolerance > uint64(rate) {
		return 0, 0, ErrRateUnreachable
	}
	return adcs, samc, nil
}
