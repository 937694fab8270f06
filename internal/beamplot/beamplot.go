// Package beamplot renders a ring-map slice as a PNG heat map over
// (beam direction, elevation) for quick visual inspection of a run.
package beamplot

import (
	"fmt"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cygnus-data/ringmap.report/internal/dataset"
)

// mapSlice adapts one (freq, pol, ra) slice of a ring map to the
// plotter.GridXYZ interface: columns are beam directions, rows are
// elevation pixels.
type mapSlice struct {
	rm      *dataset.RingMap
	f, p, t int
	dirty   bool
}

func (s mapSlice) Dims() (c, r int) { return s.rm.NBeam, len(s.rm.El) }

func (s mapSlice) Z(c, r int) float64 {
	if s.dirty {
		return s.rm.DirtyBeam[s.f][s.p][s.t][c][r]
	}
	return s.rm.Map[s.f][s.p][s.t][c][r]
}

func (s mapSlice) X(c int) float64 { return float64(c) }

func (s mapSlice) Y(r int) float64 { return s.rm.El[r] }

// SaveMapPNG writes the sky-map slice at (freq, pol, ra) to a PNG file.
func SaveMapPNG(rm *dataset.RingMap, freq, pol, ra int, path string) error {
	return save(rm, freq, pol, ra, false, "sky map", path)
}

// SaveDirtyBeamPNG writes the dirty-beam slice at (freq, pol, ra) to a PNG
// file.
func SaveDirtyBeamPNG(rm *dataset.RingMap, freq, pol, ra int, path string) error {
	return save(rm, freq, pol, ra, true, "dirty beam", path)
}

func save(rm *dataset.RingMap, freq, pol, ra int, dirty bool, kind, path string) error {
	if freq < 0 || freq >= len(rm.FreqMHz) {
		return fmt.Errorf("beamplot: frequency index %d out of range [0, %d)", freq, len(rm.FreqMHz))
	}
	if pol < 0 || pol >= len(rm.Pol) {
		return fmt.Errorf("beamplot: polarization index %d out of range [0, %d)", pol, len(rm.Pol))
	}
	if ra < 0 || ra >= len(rm.RA) {
		return fmt.Errorf("beamplot: RA index %d out of range [0, %d)", ra, len(rm.RA))
	}

	grid := mapSlice{rm: rm, f: freq, p: pol, t: ra, dirty: dirty}
	hm := plotter.NewHeatMap(grid, palette.Heat(32, 1))

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s  %.1f MHz  %s  RA %.2f", kind, rm.FreqMHz[freq], rm.Pol[pol], rm.RA[ra])
	p.X.Label.Text = "beam"
	p.Y.Label.Text = "el"
	p.Add(hm)

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("saving %s plot %s: %w", kind, path, err)
	}
	return nil
}
