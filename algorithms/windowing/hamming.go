package windowing

import "math"

// HammingWindow is a raised cosine with non-zero ends
type HammingWindow struct {
	coefficients
}

// NewHamming creates a new Hamming window
func NewHamming(size int) *HammingWindow {
	h := &HammingWindow{coefficients: make(coefficients, size)}
	for i := range size {
		h.coefficients[i] = 0.54 - 0.46*math.Cos(2*math.Pi*position(i, size))
	}
	return h
}

func (h *HammingWindow) GetType() Type { return Hamming }
