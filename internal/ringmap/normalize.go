package ringmap

import (
	"math"

	"github.com/cygnus-data/ringmap.report/internal/mathutil"
)

// CylWeights returns the cylinder-count weighting vector: every separation
// counts twice (once per sign convention of the inter-cylinder baseline)
// except that separation zero loses its double-count when intra-cylinder
// baselines are included, since those are already conjugate-completed in
// the grid.
func CylWeights(ncyl int, intracyl bool) []float64 {
	w := make([]float64, ncyl)
	for c := range w {
		w[c] = 2.0
	}
	if intracyl {
		w[0] -= 1.0
	}
	return w
}

// Normalize rescales the coefficient grid in place so the cylinder-weighted
// coefficient sum per (freq, pol, ra) pixel is exactly one. Pixels with zero
// total mass stay zero: the divisor goes through the shared zero-guarded
// inverse, so a blank pixel yields a blank map rather than NaN.
func (g *Grid) Normalize(cylw []float64) {
	for f := 0; f < g.NFreq; f++ {
		for p := 0; p < npol; p++ {
			for t := 0; t < g.NRA; t++ {
				total := 0.0
				for c := 0; c < g.NCyl; c++ {
					base := g.Idx(f, p, t, c, 0)
					sum := 0.0
					for s := 0; s < g.NVis1D; s++ {
						sum += g.Coeff[base+s]
					}
					total += cylw[c] * sum
				}
				inv := mathutil.InvertNoZero(total)
				for c := 0; c < g.NCyl; c++ {
					base := g.Idx(f, p, t, c, 0)
					for s := 0; s < g.NVis1D; s++ {
						g.Coeff[base+s] *= inv
					}
				}
			}
		}
	}
}

// RMS estimates the per-pixel thermal noise of the map built from the
// normalized coefficient grid:
//
//	rms = sqrt(Σ_c cylw[c] · Σ_bin invert_no_zero(weight) · coeff²)
//
// one scalar per (freq, pol, ra). The steering geometry is not applied, so
// the estimate is constant across the elevation axis; the caller broadcasts
// it over el when filling the output container.
func (g *Grid) RMS(cylw []float64) []float64 {
	out := make([]float64, g.NFreq*npol*g.NRA)
	k := 0
	for f := 0; f < g.NFreq; f++ {
		for p := 0; p < npol; p++ {
			for t := 0; t < g.NRA; t++ {
				total := 0.0
				for c := 0; c < g.NCyl; c++ {
					base := g.Idx(f, p, t, c, 0)
					sum := 0.0
					for s := 0; s < g.NVis1D; s++ {
						sc := g.Coeff[base+s]
						sum += mathutil.InvertNoZero(g.Weight[base+s]) * sc * sc
					}
					total += cylw[c] * sum
				}
				out[k] = math.Sqrt(total)
				k++
			}
		}
	}
	return out
}
