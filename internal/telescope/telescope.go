// Package telescope describes the feed geometry of a cylinder array. The
// ring-map engine consumes it through the Geometry interface; Array is the
// in-memory implementation used by the CLI and tests.
package telescope

import "fmt"

// Pol is the linear polarization of a single feed.
type Pol string

// Supported feed polarizations.
const (
	PolX Pol = "X"
	PolY Pol = "Y"
)

// Feed describes one antenna feed: its polarization, which cylinder it sits
// on, and its position in metres along the receiving row of that cylinder.
type Feed struct {
	Pol      Pol     `json:"pol"`
	Cylinder int     `json:"cylinder"`
	RowPos   float64 `json:"row_pos"`
}

// Geometry supplies the feed layout for the current dataset plus the
// per-baseline redundancy counts used by natural weighting. Its lifecycle is
// scoped to a single run; implementations need not be safe for mutation
// during processing.
type Geometry interface {
	// NumFeeds returns the number of feeds in the layout.
	NumFeeds() int
	// Feed returns the descriptor for feed i. i must be in [0, NumFeeds()).
	Feed(i int) Feed
	// Redundancy returns the number of physically-identical baselines
	// collapsed into baseline b of the dataset's product list.
	Redundancy(b int) float64
}

// Array is a fixed, validated feed layout.
type Array struct {
	feeds      []Feed
	redundancy []float64
}

// NewArray builds an Array from feed descriptors and optional per-baseline
// redundancy counts. A nil redundancy slice means every baseline is unique
// (redundancy 1). Feeds with a polarization other than X or Y are rejected:
// the mapper only understands dual-linear cylinder feeds.
func NewArray(feeds []Feed, redundancy []float64) (*Array, error) {
	if len(feeds) == 0 {
		return nil, fmt.Errorf("telescope: layout has no feeds")
	}
	for i, f := range feeds {
		if f.Pol != PolX && f.Pol != PolY {
			return nil, fmt.Errorf("telescope: feed %d has unsupported polarization %q", i, f.Pol)
		}
		if f.Cylinder < 0 {
			return nil, fmt.Errorf("telescope: feed %d has negative cylinder index %d", i, f.Cylinder)
		}
	}
	for i, r := range redundancy {
		if r <= 0 {
			return nil, fmt.Errorf("telescope: baseline %d has non-positive redundancy %v", i, r)
		}
	}
	return &Array{feeds: feeds, redundancy: redundancy}, nil
}

// NumFeeds implements Geometry.
func (a *Array) NumFeeds() int { return len(a.feeds) }

// Feed implements Geometry.
func (a *Array) Feed(i int) Feed { return a.feeds[i] }

// Redundancy implements Geometry. Baselines without an explicit count are
// treated as unique.
func (a *Array) Redundancy(b int) float64 {
	if b < 0 || b >= len(a.redundancy) {
		return 1.0
	}
	return a.redundancy[b]
}
