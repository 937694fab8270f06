package ringmap

import "fmt"

// ConfigError reports an invalid engine configuration: an unrecognized
// weighting scheme or out-of-range npix/span. It is raised at construction,
// before any data is touched.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "ringmap: invalid configuration: " + e.Reason
}

// GeometryError reports a feed layout the mapper cannot grid: all-zero row
// separations, or row separations that do not fit the derived regular
// lattice. It aborts the whole run; no partial map is produced.
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string {
	return "ringmap: unmappable geometry: " + e.Reason
}

// FreqError scopes a synthesis failure to a single frequency channel so a
// parallel run can report which channels failed without corrupting the rest.
type FreqError struct {
	Freq int
	Err  error
}

func (e *FreqError) Error() string {
	return fmt.Sprintf("ringmap: frequency channel %d: %v", e.Freq, e.Err)
}

func (e *FreqError) Unwrap() error { return e.Err }
