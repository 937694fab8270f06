// Package dataset holds the in-memory containers exchanged with the ring-map
// engine: the input visibility stream and the output ring map.
package dataset

import "fmt"

// VisStream is a set of time/frequency-resolved cross-correlation
// measurements for a list of non-redundant baselines. All slices are
// caller-owned and never mutated by the engine.
//
// Vis and Weight are indexed [freq][baseline][ra].
type VisStream struct {
	// FreqMHz is the frequency axis in MHz. It may be a local slice of a
	// larger distributed axis; the engine treats it as complete.
	FreqMHz []float64
	// RA is the right-ascension (time) axis in degrees.
	RA []float64
	// Prod lists the (feed_i, feed_j) index pairs defining baseline order.
	Prod [][2]int
	// Vis holds the complex visibility series per frequency and baseline.
	Vis [][][]complex128
	// Weight holds the matching non-negative inverse-variance weights.
	Weight [][][]float64
}

// NFreq returns the number of frequency channels.
func (s *VisStream) NFreq() int { return len(s.FreqMHz) }

// NProd returns the number of baselines.
func (s *VisStream) NProd() int { return len(s.Prod) }

// NRA returns the number of time samples.
func (s *VisStream) NRA() int { return len(s.RA) }

// Validate checks that the stream axes and data arrays agree in shape and
// that all feed indices and weights are in range. It must pass before the
// stream is handed to the engine.
func (s *VisStream) Validate(nfeed int) error {
	if s.NFreq() == 0 {
		return fmt.Errorf("dataset: stream has no frequency channels")
	}
	if s.NRA() == 0 {
		return fmt.Errorf("dataset: stream has no time samples")
	}
	if s.NProd() == 0 {
		return fmt.Errorf("dataset: stream has no baselines")
	}
	for b, p := range s.Prod {
		if p[0] < 0 || p[0] >= nfeed || p[1] < 0 || p[1] >= nfeed {
			return fmt.Errorf("dataset: baseline %d references feed pair (%d,%d) outside layout of %d feeds", b, p[0], p[1], nfeed)
		}
	}
	if len(s.Vis) != s.NFreq() || len(s.Weight) != s.NFreq() {
		return fmt.Errorf("dataset: vis/weight frequency axis mismatch: vis=%d weight=%d freq=%d", len(s.Vis), len(s.Weight), s.NFreq())
	}
	for f := range s.Vis {
		if len(s.Vis[f]) != s.NProd() || len(s.Weight[f]) != s.NProd() {
			return fmt.Errorf("dataset: freq %d has %d vis / %d weight baselines, want %d", f, len(s.Vis[f]), len(s.Weight[f]), s.NProd())
		}
		for b := range s.Vis[f] {
			if len(s.Vis[f][b]) != s.NRA() || len(s.Weight[f][b]) != s.NRA() {
				return fmt.Errorf("dataset: freq %d baseline %d has %d vis / %d weight samples, want %d", f, b, len(s.Vis[f][b]), len(s.Weight[f][b]), s.NRA())
			}
			for _, w := range s.Weight[f][b] {
				if w < 0 {
					return fmt.Errorf("dataset: freq %d baseline %d has negative weight %v", f, b, w)
				}
			}
		}
	}
	return nil
}
