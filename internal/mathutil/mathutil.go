// Package mathutil provides small numerical helpers shared across the
// ring-map pipeline.
package mathutil

// InvertNoZero returns 1/x, mapping an exactly-zero input to zero instead of
// +Inf. It is the single division-by-zero guard used by the weight
// normalization and RMS stages: a pixel with zero accumulated weight is
// legitimately blank, not an error.
func InvertNoZero(x float64) float64 {
	if x == 0 {
		return 0
	}
	return 1.0 / x
}

// FFTFreq returns the physical positions of the n DFT bins for sample
// spacing d, in standard DFT ordering: non-negative frequencies first,
// then the negative half.
//
// FFTFreq(n, d)[k] = k/(n*d) for k <= (n-1)/2, (k-n)/(n*d) otherwise.
func FFTFreq(n int, d float64) []float64 {
	freqs := make([]float64, n)
	scale := 1.0 / (float64(n) * d)
	half := (n - 1) / 2
	for k := 0; k <= half; k++ {
		freqs[k] = float64(k) * scale
	}
	for k := half + 1; k < n; k++ {
		freqs[k] = float64(k-n) * scale
	}
	return freqs
}
