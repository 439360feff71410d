package spectral

import (
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/RyanBlaney/sonido-mapping/algorithms/windowing"
)

// PowerSpectrum computes re²+im² per bin of a real transform
type PowerSpectrum struct {
	window windowing.Type
	ffts   map[int]*fourier.FFT
}

// NewPowerSpectrum creates a power spectrum calculator using the given data window
func NewPowerSpectrum(window windowing.Type) *PowerSpectrum {
	return &PowerSpectrum{
		window: window,
		ffts:   make(map[int]*fourier.FFT),
	}
}

func (ps *PowerSpectrum) plan(n int) *fourier.FFT {
	if f, ok := ps.ffts[n]; ok {
		return f
	}
	f := fourier.NewFFT(n)
	ps.ffts[n] = f
	return f
}

// Compute returns the power of bins 0..n/2-1 of the first n samples, n being
// the largest power of two not exceeding len(samples). Bin 0 is forced to 0.
func (ps *PowerSpectrum) Compute(samples []float64) ([]float64, error) {
	n, err := TransformLength(len(samples))
	if err != nil {
		return nil, err
	}
	seq, err := prepare(samples, n, ps.window)
	if err != nil {
		return nil, err
	}

	coeffs := ps.plan(n).Coefficients(nil, seq)

	power := make([]float64, n/2)
	for k := 1; k < n/2; k++ {
		re, im := real(coeffs[k]), imag(coeffs[k])
		power[k] = re*re + im*im
	}
	return power, nil
}

// Resolution returns the sample rate of a power spectrum buffer: bins per Hz
// for a transform of length n.
func Resolution(n int, sampleRate float64) float64 {
	return float64(n) / sampleRate
}
