package ringmap

import "fmt"

// Weighting selects how non-redundant baselines are weighted when gridded.
// It is resolved from its string form once, at configuration time.
type Weighting int

const (
	// WeightNatural weights each baseline by its redundancy count.
	WeightNatural Weighting = iota
	// WeightUniform gives every baseline equal weight.
	WeightUniform
	// WeightInverseVariance weights each baseline by its per-sample
	// inverse-variance weight, so the coefficient varies along the time axis.
	WeightInverseVariance
)

// ParseWeighting resolves a weighting scheme name. Unrecognized names are a
// ConfigError.
func ParseWeighting(s string) (Weighting, error) {
	switch s {
	case "natural":
		return WeightNatural, nil
	case "uniform":
		return WeightUniform, nil
	case "inverse_variance":
		return WeightInverseVariance, nil
	default:
		return 0, &ConfigError{Reason: fmt.Sprintf("unrecognized weighting scheme %q (want uniform, natural or inverse_variance)", s)}
	}
}

// String returns the configuration-file name of the scheme.
func (w Weighting) String() string {
	switch w {
	case WeightNatural:
		return "natural"
	case WeightUniform:
		return "uniform"
	case WeightInverseVariance:
		return "inverse_variance"
	default:
		return fmt.Sprintf("Weighting(%d)", int(w))
	}
}

// Config holds the engine knobs. Validate once with New; a validated config
// is immutable for the run.
type Config struct {
	// NPix is the number of map pixels along the elevation axis.
	NPix int
	// Span scales the elevation grid, el = Span·linspace(-1,1,NPix).
	Span float64
	// Weighting selects the baseline weighting scheme.
	Weighting Weighting
	// Intracyl includes intra-cylinder baselines in the map.
	Intracyl bool
}

// DefaultConfig returns the standard mapping configuration.
func DefaultConfig() Config {
	return Config{
		NPix:      512,
		Span:      1.0,
		Weighting: WeightNatural,
		Intracyl:  true,
	}
}

// Validate checks the configuration, returning a ConfigError on the first
// invalid knob.
func (c Config) Validate() error {
	if c.NPix <= 0 {
		return &ConfigError{Reason: fmt.Sprintf("npix must be positive, got %d", c.NPix)}
	}
	if c.Span <= 0 {
		return &ConfigError{Reason: fmt.Sprintf("span must be positive, got %v", c.Span)}
	}
	switch c.Weighting {
	case WeightNatural, WeightUniform, WeightInverseVariance:
	default:
		return &ConfigError{Reason: fmt.Sprintf("unrecognized weighting scheme %d", int(c.Weighting))}
	}
	return nil
}
