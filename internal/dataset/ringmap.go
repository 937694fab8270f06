package dataset

// PolLabels is the fixed polarization ordering of every ring map: the 2-bit
// cross of each feed's polarization, first feed in the high bit.
var PolLabels = []string{"XX", "XY", "YX", "YY"}

// RingMap is the synthesized output of one engine run. Map and DirtyBeam are
// indexed [freq][pol][ra][beam][pix]; RMS is indexed [freq][pol][ra][pix]
// (the noise estimate carries no beam axis and is constant across elevation).
// The caller owns the container after Process returns.
type RingMap struct {
	FreqMHz []float64
	Pol     []string
	RA      []float64
	// El is the elevation pixel grid, span·linspace(-1,1,npix).
	El []float64
	// NBeam is the number of synthesized beam directions, 2*ncyl-1.
	NBeam int

	Map       [][][][][]float64
	DirtyBeam [][][][][]float64
	RMS       [][][][]float64
}

// NewRingMap allocates a zeroed ring map for the given axes.
func NewRingMap(freqMHz, ra, el []float64, nbeam int) *RingMap {
	rm := &RingMap{
		FreqMHz: freqMHz,
		Pol:     PolLabels,
		RA:      ra,
		El:      el,
		NBeam:   nbeam,
	}
	npol := len(PolLabels)
	npix := len(el)
	rm.Map = make([][][][][]float64, len(freqMHz))
	rm.DirtyBeam = make([][][][][]float64, len(freqMHz))
	rm.RMS = make([][][][]float64, len(freqMHz))
	for f := range freqMHz {
		rm.Map[f] = make([][][][]float64, npol)
		rm.DirtyBeam[f] = make([][][][]float64, npol)
		rm.RMS[f] = make([][][]float64, npol)
		for p := 0; p < npol; p++ {
			rm.Map[f][p] = make([][][]float64, len(ra))
			rm.DirtyBeam[f][p] = make([][][]float64, len(ra))
			rm.RMS[f][p] = make([][]float64, len(ra))
			for t := range ra {
				rm.Map[f][p][t] = make([][]float64, nbeam)
				rm.DirtyBeam[f][p][t] = make([][]float64, nbeam)
				for b := 0; b < nbeam; b++ {
					rm.Map[f][p][t][b] = make([]float64, npix)
					rm.DirtyBeam[f][p][t][b] = make([]float64, npix)
				}
				rm.RMS[f][p][t] = make([]float64, npix)
			}
		}
	}
	return rm
}
