// Package ringmap implements the ring-map beamforming engine: it grids
// non-redundant baseline visibilities onto a regular cylinder-separation ×
// row-separation lattice, normalizes a configurable weighting scheme, and
// Fourier-synthesizes a set of sky beams per frequency.
//
// The pipeline runs in four stages with no feedback: baseline
// classification, grid packing, weight normalization, beam synthesis.
// Classification and packing errors abort the whole run; synthesis failures
// are scoped to the frequency channel they occur in.
package ringmap

import (
	"github.com/cygnus-data/ringmap.report/internal/dataset"
	"github.com/cygnus-data/ringmap.report/internal/monitoring"
	"github.com/cygnus-data/ringmap.report/internal/telescope"
)

// Maker is a configured ring-map engine. Construct with New; a Maker is
// immutable and safe for concurrent Process calls on distinct datasets.
type Maker struct {
	cfg Config
}

// New validates cfg and returns a ready engine. Configuration problems are
// reported as a ConfigError before any data is touched.
func New(cfg Config) (*Maker, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Maker{cfg: cfg}, nil
}

// Config returns the engine configuration.
func (m *Maker) Config() Config { return m.cfg }

// Process maps one visibility stream into a ring map. The geometry
// collaborator supplies the feed layout and redundancy counts for the
// stream's product list; its lifetime only needs to cover this call.
//
// The input stream is never mutated. The returned container is freshly
// allocated and owned by the caller.
func (m *Maker) Process(geom telescope.Geometry, ss *dataset.VisStream) (*dataset.RingMap, error) {
	if err := ss.Validate(geom.NumFeeds()); err != nil {
		return nil, err
	}

	tab, err := ClassifyBaselines(geom, ss.Prod)
	if err != nil {
		return nil, err
	}
	monitoring.Debugf("ringmap: classified %d baselines: nfeed=%d nvis_1d=%d ncyl=%d nbeam=%d min_row_sep=%.3f m",
		len(tab.Classes), tab.NFeed, tab.NVis1D, tab.NCyl, tab.NBeam, tab.MinRowSep)

	grid := NewGrid(ss.NFreq(), ss.NRA(), tab.NCyl, tab.NVis1D)
	grid.Pack(ss, tab, geom, m.cfg)

	cylw := CylWeights(tab.NCyl, m.cfg.Intracyl)
	grid.Normalize(cylw)

	el := ElevationGrid(m.cfg.NPix, m.cfg.Span)
	rm := dataset.NewRingMap(ss.FreqMHz, ss.RA, el, tab.NBeam)

	// Broadcast the per-(freq,pol,ra) noise estimate across the el axis.
	rms := grid.RMS(cylw)
	k := 0
	for f := range rm.RMS {
		for p := range rm.RMS[f] {
			for t := range rm.RMS[f][p] {
				for x := range rm.RMS[f][p][t] {
					rm.RMS[f][p][t][x] = rms[k]
				}
				k++
			}
		}
	}

	if err := Synthesize(grid, tab, m.cfg, rm); err != nil {
		return nil, err
	}
	return rm, nil
}
