package ringmap

import (
	"github.com/cygnus-data/ringmap.report/internal/dataset"
	"github.com/cygnus-data/ringmap.report/internal/telescope"
)

// npol is the fixed polarization axis length: XX, XY, YX, YY.
const npol = 4

// Grid holds the dense (freq, pol, ra, cyl, row-bin) arrays the irregular
// baseline list is scattered into: accumulated visibility, inverse-variance
// weight, and the weighting-scheme sample coefficient. All three are flat
// row-major slices addressed through Idx.
type Grid struct {
	NFreq  int
	NRA    int
	NCyl   int
	NVis1D int

	Vis    []complex128
	Weight []float64
	Coeff  []float64
}

// NewGrid allocates a zeroed grid for the given dimensions.
func NewGrid(nfreq, nra, ncyl, nvis1d int) *Grid {
	n := nfreq * npol * nra * ncyl * nvis1d
	return &Grid{
		NFreq:  nfreq,
		NRA:    nra,
		NCyl:   ncyl,
		NVis1D: nvis1d,
		Vis:    make([]complex128, n),
		Weight: make([]float64, n),
		Coeff:  make([]float64, n),
	}
}

// Idx maps (freq, pol, ra, cyl, row-bin slot) to the flat index.
func (g *Grid) Idx(f, p, t, c, s int) int {
	return (((f*npol+p)*g.NRA+t)*g.NCyl+c)*g.NVis1D + s
}

// Slot maps a signed row-separation bin to its array slot: non-negative bins
// occupy the low slots, negative bins wrap to the top, matching DFT bin
// ordering so the synthesis stage can treat the axis as a frequency axis.
func (g *Grid) Slot(bin int) int {
	return ((bin % g.NVis1D) + g.NVis1D) % g.NVis1D
}

// Pack scatters every baseline's visibility and weight series into the grid,
// recording the weighting-scheme coefficient alongside.
//
// Intra-cylinder baselines (cylinder separation 0) are conjugate-completed:
// the visibility lands in bin +k and its conjugate in bin -k, with weight and
// coefficient mirrored unmodified. Inter-cylinder baselines fill only their
// own signed bin; the mirror side is populated only if the product list
// explicitly contains the reversed pair, and the inverse real FFT over the
// cylinder axis supplies the remaining Hermitian half during synthesis.
//
// After packing, when intra-cylinder baselines are included, the coefficient
// at (cyl=0, bin=0) is zeroed: auto-correlations carry no directional
// information and would bias the zero-spacing weight.
func (g *Grid) Pack(ss *dataset.VisStream, tab *BaselineTable, geom telescope.Geometry, cfg Config) {
	for b, cls := range tab.Classes {
		posSlot := g.Slot(cls.RowBin)
		negSlot := g.Slot(-cls.RowBin)
		intra := cls.Cyl == 0 && cfg.Intracyl

		for f := 0; f < g.NFreq; f++ {
			vis := ss.Vis[f][b]
			wgt := ss.Weight[f][b]
			for t := 0; t < g.NRA; t++ {
				var w float64
				switch cfg.Weighting {
				case WeightUniform:
					w = 1.0
				case WeightNatural:
					w = geom.Redundancy(b)
				case WeightInverseVariance:
					w = wgt[t]
				}

				i := g.Idx(f, cls.Pol, t, cls.Cyl, posSlot)
				g.Vis[i] = vis[t]
				g.Weight[i] = wgt[t]
				g.Coeff[i] = w

				if intra {
					j := g.Idx(f, cls.Pol, t, cls.Cyl, negSlot)
					g.Vis[j] = complex(real(vis[t]), -imag(vis[t]))
					g.Weight[j] = wgt[t]
					g.Coeff[j] = w
				}
			}
		}
	}

	// Exclude auto-correlations from the weighted sum.
	if cfg.Intracyl {
		for f := 0; f < g.NFreq; f++ {
			for p := 0; p < npol; p++ {
				for t := 0; t < g.NRA; t++ {
					g.Coeff[g.Idx(f, p, t, 0, 0)] = 0
				}
			}
		}
	}
}
