// Package config loads the JSON map-making configuration file. All fields
// are pointers so a partial file only overrides the knobs it names; the Get*
// accessors supply the engine defaults for everything else.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// MapConfig is the root configuration for a ring-map run. The schema matches
// the cmd/ringmap flags so the same JSON can seed a run or be stored beside
// its products.
type MapConfig struct {
	NPix      *int     `json:"npix,omitempty"`
	Span      *float64 `json:"span,omitempty"`
	Weighting *string  `json:"weighting,omitempty"`
	Intracyl  *bool    `json:"intracyl,omitempty"`

	// Output products
	ReportPath *string `json:"report_path,omitempty"`
	PlotPath   *string `json:"plot_path,omitempty"`
	DBPath     *string `json:"db_path,omitempty"`
}

// LoadMapConfig loads a MapConfig from a JSON file. The file must have a
// .json extension; fields omitted from it retain their defaults, so partial
// configs are safe.
func LoadMapConfig(path string) (*MapConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := &MapConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration values that can be checked without the
// engine: positivity of npix/span and a known weighting name.
func (c *MapConfig) Validate() error {
	if c.NPix != nil && *c.NPix <= 0 {
		return fmt.Errorf("npix must be positive, got %d", *c.NPix)
	}
	if c.Span != nil && *c.Span <= 0 {
		return fmt.Errorf("span must be positive, got %f", *c.Span)
	}
	if c.Weighting != nil {
		switch *c.Weighting {
		case "uniform", "natural", "inverse_variance":
		default:
			return fmt.Errorf("unrecognized weighting %q, want uniform, natural or inverse_variance", *c.Weighting)
		}
	}
	return nil
}

// GetNPix returns the npix value or the default.
func (c *MapConfig) GetNPix() int {
	if c.NPix == nil {
		return 512
	}
	return *c.NPix
}

// GetSpan returns the span value or the default.
func (c *MapConfig) GetSpan() float64 {
	if c.Span == nil {
		return 1.0
	}
	return *c.Span
}

// GetWeighting returns the weighting scheme name or the default.
func (c *MapConfig) GetWeighting() string {
	if c.Weighting == nil {
		return "natural"
	}
	return *c.Weighting
}

// GetIntracyl returns the intracyl value or the default.
func (c *MapConfig) GetIntracyl() bool {
	if c.Intracyl == nil {
		return true
	}
	return *c.Intracyl
}

// GetReportPath returns the HTML report path; empty disables the report.
func (c *MapConfig) GetReportPath() string {
	if c.ReportPath == nil {
		return ""
	}
	return *c.ReportPath
}

// GetPlotPath returns the PNG beam plot path; empty disables the plot.
func (c *MapConfig) GetPlotPath() string {
	if c.PlotPath == nil {
		return ""
	}
	return *c.PlotPath
}

// GetDBPath returns the run-bookkeeping database path; empty disables it.
func (c *MapConfig) GetDBPath() string {
	if c.DBPath == nil {
		return ""
	}
	return *c.DBPath
}
