package spectral

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Peak summarises a power spectrum
type Peak struct {
	// Frequency of the strongest bin in Hz
	Frequency float64 `json:"frequency"`
	Power     float64 `json:"power"`
	// Centroid is the power-weighted mean frequency in Hz
	Centroid float64 `json:"centroid"`
	// Concentration is the share of total power within the band around the
	// peak, between 0 and 1
	Concentration float64 `json:"concentration"`
}

// DominantFrequency finds the strongest bin of a power spectrum whose bins are
// resolution per Hz apart (see Resolution). bandHz is the half width of the
// band Concentration is measured over.
func DominantFrequency(power []float64, resolution, bandHz float64) (Peak, error) {
	if len(power) < 2 {
		return Peak{}, fmt.Errorf("spectrum of %d bins has no peak", len(power))
	}
	if resolution <= 0 {
		return Peak{}, fmt.Errorf("resolution must be positive, got %g", resolution)
	}
	total := floats.Sum(power)
	if total == 0 {
		return Peak{}, fmt.Errorf("spectrum holds no power")
	}

	frequencies := make([]float64, len(power))
	for k := range frequencies {
		frequencies[k] = float64(k) / resolution
	}

	peak := floats.MaxIdx(power)
	half := int(bandHz * resolution)
	lo, hi := max(peak-half, 0), min(peak+half, len(power)-1)

	return Peak{
		Frequency:     frequencies[peak],
		Power:         power[peak],
		Centroid:      floats.Dot(frequencies, power) / total,
		Concentration: floats.Sum(power[lo:hi+1]) / total,
	}, nil
}
