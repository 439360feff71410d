package spectral

import (
	"fmt"

	"github.com/mjibson/go-dsp/fft"

	"github.com/RyanBlaney/sonido-mapping/algorithms/common"
	"github.com/RyanBlaney/sonido-mapping/algorithms/windowing"
)

// FFT wraps mjibson/go-dsp for the complex transforms used by filtering,
// the frequency-domain view and correlation.
type FFT struct{}

// NewFFT creates a new FFT calculator
func NewFFT() *FFT {
	return &FFT{}
}

// Compute computes the forward transform of a real signal
func (f *FFT) Compute(x []float64) []complex128 {
	if len(x) == 0 {
		return []complex128{}
	}
	return fft.FFTReal(x)
}

// ComputeInverseReal computes the inverse transform and keeps the real part
func (f *FFT) ComputeInverseReal(x []complex128) []float64 {
	if len(x) == 0 {
		return []float64{}
	}

	result := fft.IFFT(x)
	realResult := make([]float64, len(result))
	for i, val := range result {
		realResult[i] = real(val)
	}
	return realResult
}

// TransformLength returns the largest power of two that fits in samples
// values, or an error when there are fewer than two.
func TransformLength(samples int) (int, error) {
	n := common.LargestPowerOfTwo(samples)
	if n < 2 {
		return 0, fmt.Errorf("%d samples are too few to transform", samples)
	}
	return n, nil
}

// prepare copies the first n samples, removes their mean and applies the
// data window.
func prepare(samples []float64, n int, window windowing.Type) ([]float64, error) {
	seq := make([]float64, n)
	copy(seq, samples[:n])
	common.RemoveMean(seq)

	w, err := windowing.New(window, n)
	if err != nil {
		return nil, err
	}
	if err := w.ApplyInPlace(seq); err != nil {
		return nil, err
	}
	return seq, nil
}
