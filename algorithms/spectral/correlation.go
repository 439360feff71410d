package spectral

import (
	"fmt"
	"math/cmplx"

	"github.com/RyanBlaney/sonido-mapping/algorithms/windowing"
)

// Correlation holds a correlation series and the lag of each value in samples
type Correlation struct {
	Values []float64
	Lags   []int
}

// CrossCorrelation correlates the first n samples of x and y, n being the
// largest power of two that fits both. Both are mean removed and windowed.
// Values[i] is (1/n)·Σ x[j+lag]·y[j] taken circularly, ordered from lag -n/2
// to n/2-1.
func CrossCorrelation(x, y []float64, window windowing.Type) (*Correlation, error) {
	c, n, err := circular(x, y, window)
	if err != nil {
		return nil, err
	}
	half := n / 2
	out := &Correlation{Values: make([]float64, n), Lags: make([]int, n)}
	for i := range n {
		out.Values[i] = c[(i+half)%n]
		out.Lags[i] = i - half
	}
	return out, nil
}

// AutoCorrelation returns the non-negative lags 0..n/2-1 of x correlated with itself.
func AutoCorrelation(x []float64, window windowing.Type) (*Correlation, error) {
	c, n, err := circular(x, x, window)
	if err != nil {
		return nil, err
	}
	out := &Correlation{Values: c[:n/2], Lags: make([]int, n/2)}
	for i := range out.Lags {
		out.Lags[i] = i
	}
	return out, nil
}

func circular(x, y []float64, window windowing.Type) ([]float64, int, error) {
	n, err := TransformLength(min(len(x), len(y)))
	if err != nil {
		return nil, 0, fmt.Errorf("correlation: %w", err)
	}
	xs, err := prepare(x, n, window)
	if err != nil {
		return nil, 0, err
	}
	ys, err := prepare(y, n, window)
	if err != nil {
		return nil, 0, err
	}

	f := NewFFT()
	X, Y := f.Compute(xs), f.Compute(ys)
	for k := range X {
		X[k] *= cmplx.Conj(Y[k])
	}
	c := f.ComputeInverseReal(X)
	for i := range c {
		c[i] /= float64(n)
	}
	return c, n, nil
}
