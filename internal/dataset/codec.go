package dataset

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/cygnus-data/ringmap.report/internal/telescope"
)

// streamFile is the JSON wire form of a visibility stream plus the feed
// layout it was measured with. Complex visibilities are stored as
// [real, imag] pairs since encoding/json has no complex support.
type streamFile struct {
	FreqMHz    []float64        `json:"freq_mhz"`
	RA         []float64        `json:"ra_deg"`
	Feeds      []telescope.Feed `json:"feeds"`
	Redundancy []float64        `json:"redundancy,omitempty"`
	Prod       [][2]int         `json:"prod"`
	Vis        [][][][2]float64 `json:"vis"`
	Weight     [][][]float64    `json:"weight"`
}

// ringMapFile is the JSON wire form of a ring map.
type ringMapFile struct {
	FreqMHz   []float64         `json:"freq_mhz"`
	Pol       []string          `json:"pol"`
	RA        []float64         `json:"ra_deg"`
	El        []float64         `json:"el"`
	NBeam     int               `json:"nbeam"`
	Map       [][][][][]float64 `json:"map"`
	DirtyBeam [][][][][]float64 `json:"dirty_beam"`
	RMS       [][][][]float64   `json:"rms"`
}

// LoadStream reads a visibility stream and its feed layout from a JSON file.
// The returned stream is shape-validated against the layout.
func LoadStream(path string) (*VisStream, *telescope.Array, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading stream file: %w", err)
	}
	var sf streamFile
	if err := json.Unmarshal(data, &sf); err != nil {
		return nil, nil, fmt.Errorf("parsing stream file %s: %w", path, err)
	}

	arr, err := telescope.NewArray(sf.Feeds, sf.Redundancy)
	if err != nil {
		return nil, nil, err
	}

	ss := &VisStream{
		FreqMHz: sf.FreqMHz,
		RA:      sf.RA,
		Prod:    sf.Prod,
		Weight:  sf.Weight,
	}
	ss.Vis = make([][][]complex128, len(sf.Vis))
	for f := range sf.Vis {
		ss.Vis[f] = make([][]complex128, len(sf.Vis[f]))
		for b := range sf.Vis[f] {
			row := make([]complex128, len(sf.Vis[f][b]))
			for t, v := range sf.Vis[f][b] {
				row[t] = complex(v[0], v[1])
			}
			ss.Vis[f][b] = row
		}
	}

	if err := ss.Validate(arr.NumFeeds()); err != nil {
		return nil, nil, err
	}
	return ss, arr, nil
}

// SaveStream writes a visibility stream and feed layout to a JSON file.
// It is the inverse of LoadStream and exists mainly for test fixtures and
// synthetic datasets.
func SaveStream(path string, ss *VisStream, feeds []telescope.Feed, redundancy []float64) error {
	sf := streamFile{
		FreqMHz:    ss.FreqMHz,
		RA:         ss.RA,
		Feeds:      feeds,
		Redundancy: redundancy,
		Prod:       ss.Prod,
		Weight:     ss.Weight,
	}
	sf.Vis = make([][][][2]float64, len(ss.Vis))
	for f := range ss.Vis {
		sf.Vis[f] = make([][][2]float64, len(ss.Vis[f]))
		for b := range ss.Vis[f] {
			row := make([][2]float64, len(ss.Vis[f][b]))
			for t, v := range ss.Vis[f][b] {
				row[t] = [2]float64{real(v), imag(v)}
			}
			sf.Vis[f][b] = row
		}
	}
	data, err := json.MarshalIndent(&sf, "", " ")
	if err != nil {
		return fmt.Errorf("encoding stream file: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing stream file %s: %w", path, err)
	}
	return nil
}

// SaveRingMap writes a ring map to a JSON file.
func SaveRingMap(path string, rm *RingMap) error {
	rf := ringMapFile{
		FreqMHz:   rm.FreqMHz,
		Pol:       rm.Pol,
		RA:        rm.RA,
		El:        rm.El,
		NBeam:     rm.NBeam,
		Map:       rm.Map,
		DirtyBeam: rm.DirtyBeam,
		RMS:       rm.RMS,
	}
	data, err := json.MarshalIndent(&rf, "", " ")
	if err != nil {
		return fmt.Errorf("encoding ring map: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing ring map %s: %w", path, err)
	}
	return nil
}

// LoadRingMap reads a ring map from a JSON file.
func LoadRingMap(path string) (*RingMap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ring map: %w", err)
	}
	var rf ringMapFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing ring map %s: %w", path, err)
	}
	return &RingMap{
		FreqMHz:   rf.FreqMHz,
		Pol:       rf.Pol,
		RA:        rf.RA,
		El:        rf.El,
		NBeam:     rf.NBeam,
		Map:       rf.Map,
		DirtyBeam: rf.DirtyBeam,
		RMS:       rf.RMS,
	}, nil
}
