package spectral

import (
	"github.com/RyanBlaney/sonido-mapping/algorithms/common"
)

// FilterOptions configures Fourier filtering. Frequencies are in Hz.
//
// When LowPass < HighPass only bins in [LowPass, HighPass) are kept
// (band-pass). When HighPass < LowPass bins in [HighPass, LowPass) are removed
// (band-stop). Equal values leave the band untouched. A Notch of 0 disables
// the notch.
type FilterOptions struct {
	LowPass  float64 `json:"low_pass"`
	HighPass float64 `json:"high_pass"`
	Notch    float64 `json:"notch"`
}

// DefaultFilterOptions passes everything up to the Nyquist frequency for
// the given sample rate.
func DefaultFilterOptions(sampleRate float64) FilterOptions {
	return FilterOptions{
		LowPass:  0,
		HighPass: sampleRate / 2,
		Notch:    0,
	}
}

// Filter removes the DC component and the configured bands from samples in
// place. Only the first n samples are transformed and written back, n being
// the largest power of two not exceeding len(samples); n is returned.
func Filter(samples []float64, sampleRate float64, opts FilterOptions) (int, error) {
	n, err := TransformLength(len(samples))
	if err != nil {
		return 0, err
	}
	f := NewFFT()
	spectrum := f.Compute(samples[:n])

	spectrum[0] = 0

	if opts.Notch > 0 {
		k := common.FrequencyToBin(opts.Notch, n, sampleRate)
		if k > 0 {
			spectrum[k] = 0
			spectrum[n-k] = 0
		}
	}

	low := bandEdge(common.FrequencyToBin(opts.LowPass, n, sampleRate), n)
	high := bandEdge(common.FrequencyToBin(opts.HighPass, n, sampleRate), n)
	// k and n-k are the same frequency, so bands test the folded index
	switch {
	case low < high:
		for k := 1; k < n; k++ {
			if b := common.FoldedBin(k, n); b < low || b >= high {
				spectrum[k] = 0
			}
		}
	case high < low:
		for k := 1; k < n; k++ {
			if b := common.FoldedBin(k, n); b >= high && b < low {
				spectrum[k] = 0
			}
		}
	}

	copy(samples[:n], f.ComputeInverseReal(spectrum))
	return n, nil
}

// bandEdge makes an edge at or above the Nyquist bin include it
func bandEdge(bin, n int) int {
	if bin >= n/2 {
		return n/2 + 1
	}
	return bin
}
