package dataset

import (
	"path/filepath"
	"testing"

	"github.com/cygnus-data/ringmap.report/internal/telescope"
)

func sampleStream() (*VisStream, []telescope.Feed, []float64) {
	feeds := []telescope.Feed{
		{Pol: telescope.PolX, Cylinder: 0, RowPos: 0.0},
		{Pol: telescope.PolX, Cylinder: 1, RowPos: 0.3},
	}
	ss := &VisStream{
		FreqMHz: []float64{600, 700},
		RA:      []float64{0, 90},
		Prod:    [][2]int{{0, 1}},
		Vis: [][][]complex128{
			{{complex(1, -2), complex(0.5, 0)}},
			{{complex(-1, 1), complex(2, 2)}},
		},
		Weight: [][][]float64{
			{{1, 2}},
			{{3, 0}},
		},
	}
	return ss, feeds, []float64{4}
}

func TestStreamValidate(t *testing.T) {
	ss, _, _ := sampleStream()
	if err := ss.Validate(2); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	bad := *ss
	bad.Prod = [][2]int{{0, 5}}
	if err := bad.Validate(2); err == nil {
		t.Error("expected error for out-of-range feed index")
	}

	bad = *ss
	bad.Weight = [][][]float64{{{1, -2}}, {{3, 0}}}
	if err := bad.Validate(2); err == nil {
		t.Error("expected error for negative weight")
	}

	bad = *ss
	bad.Vis = bad.Vis[:1]
	if err := bad.Validate(2); err == nil {
		t.Error("expected error for frequency axis mismatch")
	}
}

func TestStreamRoundTrip(t *testing.T) {
	ss, feeds, redundancy := sampleStream()
	path := filepath.Join(t.TempDir(), "stream.json")

	if err := SaveStream(path, ss, feeds, redundancy); err != nil {
		t.Fatalf("SaveStream: %v", err)
	}
	got, arr, err := LoadStream(path)
	if err != nil {
		t.Fatalf("LoadStream: %v", err)
	}

	if arr.NumFeeds() != 2 {
		t.Errorf("NumFeeds = %d, want 2", arr.NumFeeds())
	}
	if arr.Redundancy(0) != 4 {
		t.Errorf("Redundancy(0) = %v, want 4", arr.Redundancy(0))
	}
	if got.NFreq() != 2 || got.NProd() != 1 || got.NRA() != 2 {
		t.Fatalf("shape = (%d,%d,%d), want (2,1,2)", got.NFreq(), got.NProd(), got.NRA())
	}
	for f := range ss.Vis {
		for b := range ss.Vis[f] {
			for tt := range ss.Vis[f][b] {
				if got.Vis[f][b][tt] != ss.Vis[f][b][tt] {
					t.Errorf("vis[%d][%d][%d] = %v, want %v", f, b, tt, got.Vis[f][b][tt], ss.Vis[f][b][tt])
				}
				if got.Weight[f][b][tt] != ss.Weight[f][b][tt] {
					t.Errorf("weight[%d][%d][%d] = %v, want %v", f, b, tt, got.Weight[f][b][tt], ss.Weight[f][b][tt])
				}
			}
		}
	}
}

func TestRingMapRoundTrip(t *testing.T) {
	rm := NewRingMap([]float64{600}, []float64{0}, []float64{-1, 0, 1}, 3)
	rm.Map[0][0][0][1][2] = 1.5
	rm.RMS[0][3][0][0] = 0.25

	path := filepath.Join(t.TempDir(), "map.json")
	if err := SaveRingMap(path, rm); err != nil {
		t.Fatalf("SaveRingMap: %v", err)
	}
	got, err := LoadRingMap(path)
	if err != nil {
		t.Fatalf("LoadRingMap: %v", err)
	}
	if got.NBeam != 3 {
		t.Errorf("NBeam = %d, want 3", got.NBeam)
	}
	if got.Map[0][0][0][1][2] != 1.5 {
		t.Errorf("map value = %v, want 1.5", got.Map[0][0][0][1][2])
	}
	if got.RMS[0][3][0][0] != 0.25 {
		t.Errorf("rms value = %v, want 0.25", got.RMS[0][3][0][0])
	}
	if len(got.Pol) != 4 || got.Pol[0] != "XX" || got.Pol[3] != "YY" {
		t.Errorf("pol labels = %v, want [XX XY YX YY]", got.Pol)
	}
}

func TestNewRingMapShapes(t *testing.T) {
	rm := NewRingMap([]float64{600, 700}, []float64{0, 1, 2}, []float64{-1, 1}, 5)
	if len(rm.Map) != 2 || len(rm.Map[0]) != 4 || len(rm.Map[0][0]) != 3 ||
		len(rm.Map[0][0][0]) != 5 || len(rm.Map[0][0][0][0]) != 2 {
		t.Fatalf("unexpected map shape")
	}
	if len(rm.RMS[1][2]) != 3 || len(rm.RMS[1][2][0]) != 2 {
		t.Fatalf("unexpected rms shape")
	}
}
