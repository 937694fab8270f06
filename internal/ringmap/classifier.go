package ringmap

import (
	"fmt"
	"math"

	"github.com/cygnus-data/ringmap.report/internal/monitoring"
	"github.com/cygnus-data/ringmap.report/internal/telescope"
)

// nfeedIntegralTol is how far the max/min row-separation ratio may sit from
// an integer before the layout is reported as irregular.
const nfeedIntegralTol = 1e-3

// BaselineClass is the discrete grid index triple derived for one baseline.
type BaselineClass struct {
	// Pol is the 2-bit polarization index: 2·(feed_i is Y) + (feed_j is Y),
	// ordered XX, XY, YX, YY.
	Pol int
	// Cyl is the absolute cylinder separation, in [0, NCyl).
	Cyl int
	// RowBin is the signed row-separation bin, the row separation rounded to
	// the nearest multiple of the minimum nonzero separation.
	RowBin int
}

// BaselineTable is the classification of every baseline in a dataset plus
// the grid dimensions derived from the layout. It is built once per run and
// reused by the packing, normalization and synthesis stages.
type BaselineTable struct {
	Classes []BaselineClass

	// MinRowSep is the smallest nonzero absolute row separation (the grid
	// scale), MaxRowSep the largest.
	MinRowSep float64
	MaxRowSep float64

	// NFeed is the estimated number of distinct row positions per cylinder.
	NFeed int
	// NVis1D is the number of signed row-separation bins, 2*NFeed-1.
	NVis1D int
	// NCyl is the number of cylinder separations, max separation + 1.
	NCyl int
	// NBeam is the number of synthesized beam directions, 2*NCyl-1.
	NBeam int
}

// ClassifyBaselines derives the (polarization, cylinder-separation, row-bin)
// triple for every baseline in prods and the grid dimensions implied by the
// layout. A layout whose row separations are all zero cannot establish a
// grid scale and is a GeometryError, as is a row separation that rounds
// outside the lattice.
func ClassifyBaselines(geom telescope.Geometry, prods [][2]int) (*BaselineTable, error) {
	pols := make([]int, len(prods))
	cyls := make([]int, len(prods))
	rowSeps := make([]float64, len(prods))

	maxCyl := 0
	minSep := math.Inf(1)
	maxSep := 0.0
	for b, p := range prods {
		fi := geom.Feed(p[0])
		fj := geom.Feed(p[1])

		pols[b] = 2*polBit(fi.Pol) + polBit(fj.Pol)
		cyl := fi.Cylinder - fj.Cylinder
		if cyl < 0 {
			cyl = -cyl
		}
		cyls[b] = cyl
		if cyl > maxCyl {
			maxCyl = cyl
		}

		sep := fi.RowPos - fj.RowPos
		rowSeps[b] = sep

		// Co-located feed pairs are excluded from the scale estimate so
		// spurious zero-row baselines cannot corrupt it.
		abs := math.Abs(sep)
		if abs > 0 {
			if abs < minSep {
				minSep = abs
			}
			if abs > maxSep {
				maxSep = abs
			}
		}
	}

	if maxSep == 0 {
		return nil, &GeometryError{Reason: "all row separations are zero, cannot establish a grid scale"}
	}

	// The separations of nfeed regularly spaced rows span nfeed-1 grid
	// steps, so the max/min ratio estimates nfeed-1. A non-integral ratio
	// means the rows do not sit on a regular lattice.
	ratio := maxSep / minSep
	spacings := int(math.Round(ratio))
	if math.Abs(ratio-float64(spacings)) > nfeedIntegralTol {
		monitoring.Logf("ringmap: irregular feed layout: max/min row separation %.6f is not close to an integer, rounding to %d", ratio, spacings)
	}
	nfeed := spacings + 1

	tab := &BaselineTable{
		Classes:   make([]BaselineClass, len(prods)),
		MinRowSep: minSep,
		MaxRowSep: maxSep,
		NFeed:     nfeed,
		NVis1D:    2*nfeed - 1,
		NCyl:      maxCyl + 1,
		NBeam:     2*(maxCyl+1) - 1,
	}
	for b := range prods {
		bin := int(math.Round(rowSeps[b] / minSep))
		if bin < -(nfeed-1) || bin > nfeed-1 {
			return nil, &GeometryError{
				Reason: fmt.Sprintf("baseline %d row separation %.3f m rounds to bin %d, outside [%d, %d]",
					b, rowSeps[b], bin, -(nfeed - 1), nfeed-1),
			}
		}
		tab.Classes[b] = BaselineClass{Pol: pols[b], Cyl: cyls[b], RowBin: bin}
	}
	return tab, nil
}

func polBit(p telescope.Pol) int {
	if p == telescope.PolY {
		return 1
	}
	return 0
}
