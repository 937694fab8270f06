package ringmap

import (
	"errors"
	"testing"

	"github.com/cygnus-data/ringmap.report/internal/dataset"
	"github.com/cygnus-data/ringmap.report/internal/telescope"
)

// constStream builds a stream with the given constant visibility and weight
// on every baseline, frequency and time sample.
func constStream(prods [][2]int, freqMHz []float64, nra int, vis complex128, weight float64) *dataset.VisStream {
	ra := make([]float64, nra)
	for t := range ra {
		ra[t] = float64(t)
	}
	ss := &dataset.VisStream{FreqMHz: freqMHz, RA: ra, Prod: prods}
	ss.Vis = make([][][]complex128, len(freqMHz))
	ss.Weight = make([][][]float64, len(freqMHz))
	for f := range freqMHz {
		ss.Vis[f] = make([][]complex128, len(prods))
		ss.Weight[f] = make([][]float64, len(prods))
		for b := range prods {
			vrow := make([]complex128, nra)
			wrow := make([]float64, nra)
			for t := 0; t < nra; t++ {
				vrow[t] = vis
				wrow[t] = weight
			}
			ss.Vis[f][b] = vrow
			ss.Weight[f][b] = wrow
		}
	}
	return ss
}

func packTestGrid(t *testing.T, geom *telescope.Array, ss *dataset.VisStream, cfg Config) (*Grid, *BaselineTable) {
	t.Helper()
	tab, err := ClassifyBaselines(geom, ss.Prod)
	if err != nil {
		t.Fatalf("ClassifyBaselines: %v", err)
	}
	g := NewGrid(ss.NFreq(), ss.NRA(), tab.NCyl, tab.NVis1D)
	g.Pack(ss, tab, geom, cfg)
	return g, tab
}

func TestPack_ConjugateFillIntracylinder(t *testing.T) {
	feeds := []telescope.Feed{
		{Pol: telescope.PolX, Cylinder: 0, RowPos: 0.0},
		{Pol: telescope.PolX, Cylinder: 0, RowPos: 0.3},
	}
	geom := mustArray(t, feeds, nil)
	v := complex(1.5, -0.75)
	ss := constStream([][2]int{{1, 0}}, []float64{600}, 1, v, 2.0)

	cfg := DefaultConfig()
	cfg.Weighting = WeightUniform
	g, tab := packTestGrid(t, geom, ss, cfg)

	// baseline (1,0): row sep +0.3 -> bin +1
	if tab.Classes[0].RowBin != 1 {
		t.Fatalf("row bin = %d, want 1", tab.Classes[0].RowBin)
	}
	pos := g.Idx(0, 0, 0, 0, g.Slot(1))
	neg := g.Idx(0, 0, 0, 0, g.Slot(-1))
	if g.Vis[pos] != v {
		t.Errorf("vis at +bin = %v, want %v", g.Vis[pos], v)
	}
	want := complex(real(v), -imag(v))
	if g.Vis[neg] != want {
		t.Errorf("vis at -bin = %v, want conjugate %v", g.Vis[neg], want)
	}
	if g.Weight[pos] != 2.0 || g.Weight[neg] != 2.0 {
		t.Errorf("weights at ±bin = %v, %v, want 2.0 both (not conjugated)", g.Weight[pos], g.Weight[neg])
	}
	if g.Coeff[pos] != g.Coeff[neg] {
		t.Errorf("coefficients at ±bin differ: %v vs %v", g.Coeff[pos], g.Coeff[neg])
	}
}

func TestPack_ZeroSpacingExclusion(t *testing.T) {
	feeds := []telescope.Feed{
		{Pol: telescope.PolX, Cylinder: 0, RowPos: 0.0},
		{Pol: telescope.PolX, Cylinder: 0, RowPos: 0.3},
	}
	geom := mustArray(t, feeds, nil)
	// include the auto-correlation (0,0) which lands on (cyl=0, bin=0)
	ss := constStream([][2]int{{0, 0}, {1, 0}}, []float64{600}, 1, 1, 3.0)

	cfg := DefaultConfig()
	cfg.Weighting = WeightUniform
	g, _ := packTestGrid(t, geom, ss, cfg)

	zero := g.Idx(0, 0, 0, 0, 0)
	if g.Coeff[zero] != 0 {
		t.Errorf("coefficient at (cyl=0, bin=0) = %v, want 0 after packing", g.Coeff[zero])
	}
	// the visibility and weight are still recorded, only the weighting mass
	// is excluded
	if g.Weight[zero] != 3.0 {
		t.Errorf("weight at (cyl=0, bin=0) = %v, want 3.0", g.Weight[zero])
	}
}

func TestPack_InterCylinderNoMirrorFill(t *testing.T) {
	feeds := []telescope.Feed{
		{Pol: telescope.PolX, Cylinder: 0, RowPos: 0.3},
		{Pol: telescope.PolX, Cylinder: 1, RowPos: 0.0},
	}
	geom := mustArray(t, feeds, nil)
	v := complex(2.0, 1.0)
	ss := constStream([][2]int{{0, 1}}, []float64{600}, 1, v, 1.0)

	cfg := DefaultConfig()
	cfg.Weighting = WeightUniform
	g, tab := packTestGrid(t, geom, ss, cfg)

	if tab.Classes[0].Cyl != 1 {
		t.Fatalf("cyl = %d, want 1", tab.Classes[0].Cyl)
	}
	pos := g.Idx(0, 0, 0, 1, g.Slot(1))
	neg := g.Idx(0, 0, 0, 1, g.Slot(-1))
	if g.Vis[pos] != v {
		t.Errorf("vis at +bin = %v, want %v", g.Vis[pos], v)
	}
	if g.Vis[neg] != 0 {
		t.Errorf("vis at -bin = %v, want 0 (no conjugate fill across cylinders)", g.Vis[neg])
	}
	if g.Coeff[neg] != 0 {
		t.Errorf("coeff at -bin = %v, want 0", g.Coeff[neg])
	}
}

func TestPack_WeightingCoefficients(t *testing.T) {
	feeds := []telescope.Feed{
		{Pol: telescope.PolX, Cylinder: 0, RowPos: 0.0},
		{Pol: telescope.PolX, Cylinder: 1, RowPos: 0.3},
	}
	prods := [][2]int{{0, 1}}

	t.Run("uniform", func(t *testing.T) {
		geom := mustArray(t, feeds, []float64{7})
		ss := constStream(prods, []float64{600}, 1, 1, 5.0)
		cfg := DefaultConfig()
		cfg.Weighting = WeightUniform
		g, tab := packTestGrid(t, geom, ss, cfg)
		i := g.Idx(0, 0, 0, 1, g.Slot(tab.Classes[0].RowBin))
		if g.Coeff[i] != 1.0 {
			t.Errorf("uniform coefficient = %v, want 1", g.Coeff[i])
		}
	})

	t.Run("natural uses redundancy", func(t *testing.T) {
		geom := mustArray(t, feeds, []float64{7})
		ss := constStream(prods, []float64{600}, 1, 1, 5.0)
		cfg := DefaultConfig()
		g, tab := packTestGrid(t, geom, ss, cfg)
		i := g.Idx(0, 0, 0, 1, g.Slot(tab.Classes[0].RowBin))
		if g.Coeff[i] != 7.0 {
			t.Errorf("natural coefficient = %v, want redundancy 7", g.Coeff[i])
		}
	})

	t.Run("inverse variance tracks the weight series", func(t *testing.T) {
		geom := mustArray(t, feeds, nil)
		ss := constStream(prods, []float64{600}, 2, 1, 0)
		ss.Weight[0][0][0] = 4.0
		ss.Weight[0][0][1] = 9.0
		cfg := DefaultConfig()
		cfg.Weighting = WeightInverseVariance
		g, tab := packTestGrid(t, geom, ss, cfg)
		s := g.Slot(tab.Classes[0].RowBin)
		if got := g.Coeff[g.Idx(0, 0, 0, 1, s)]; got != 4.0 {
			t.Errorf("coefficient at t=0 = %v, want 4", got)
		}
		if got := g.Coeff[g.Idx(0, 0, 1, 1, s)]; got != 9.0 {
			t.Errorf("coefficient at t=1 = %v, want 9", got)
		}
	})
}

func TestParseWeighting(t *testing.T) {
	for name, want := range map[string]Weighting{
		"uniform":          WeightUniform,
		"natural":          WeightNatural,
		"inverse_variance": WeightInverseVariance,
	} {
		got, err := ParseWeighting(name)
		if err != nil {
			t.Errorf("ParseWeighting(%q): %v", name, err)
		}
		if got != want {
			t.Errorf("ParseWeighting(%q) = %v, want %v", name, got, want)
		}
		if got.String() != name {
			t.Errorf("%v.String() = %q, want %q", got, got.String(), name)
		}
	}

	_, err := ParseWeighting("radiometer")
	if err == nil {
		t.Fatal("expected ConfigError for unknown weighting")
	}
	var cerr *ConfigError
	if !errors.As(err, &cerr) {
		t.Fatalf("error type = %T, want *ConfigError", err)
	}
}
