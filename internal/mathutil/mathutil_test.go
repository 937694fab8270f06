package mathutil

import (
	"math"
	"testing"
)

func TestInvertNoZero(t *testing.T) {
	if got := InvertNoZero(0); got != 0 {
		t.Fatalf("InvertNoZero(0) = %v, want 0", got)
	}
	if got := InvertNoZero(4); got != 0.25 {
		t.Fatalf("InvertNoZero(4) = %v, want 0.25", got)
	}
	if got := InvertNoZero(-2); got != -0.5 {
		t.Fatalf("InvertNoZero(-2) = %v, want -0.5", got)
	}
	if got := InvertNoZero(1e-300); math.IsInf(got, 0) {
		t.Fatalf("InvertNoZero(1e-300) overflowed to Inf")
	}
}

func TestFFTFreq_OddLength(t *testing.T) {
	// n=3, d=1/(3*0.3): bins land at multiples of the 0.3 m feed spacing.
	d := 1.0 / (3 * 0.3)
	got := FFTFreq(3, d)
	want := []float64{0, 0.3, -0.3}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("FFTFreq(3)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestFFTFreq_EvenLength(t *testing.T) {
	got := FFTFreq(4, 1.0)
	want := []float64{0, 0.25, -0.5, -0.25}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("FFTFreq(4)[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}
