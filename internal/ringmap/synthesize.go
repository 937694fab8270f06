package ringmap

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/cygnus-data/ringmap.report/internal/dataset"
	"github.com/cygnus-data/ringmap.report/internal/mathutil"
)

// speedOfLight in m/s. With the frequency axis in MHz the wavelength in
// metres is speedOfLight·1e-6/freq.
const speedOfLight = 299792458.0

// ElevationGrid returns the fixed elevation pixel axis,
// span·linspace(-1, 1, npix).
func ElevationGrid(npix int, span float64) []float64 {
	el := make([]float64, npix)
	if npix == 1 {
		el[0] = -span
		return el
	}
	floats.Span(el, -1, 1)
	for i := range el {
		el[i] *= span
	}
	return el
}

// Synthesize runs the per-frequency Fourier synthesis over the normalized
// grid and fills the output ring map. Frequencies are independent and are
// processed by a bounded worker pool; a failure in one channel is surfaced
// as a FreqError for that channel without touching the others' results.
//
// For each frequency the phase-steering matrix
//
//	pa[bin][pix] = exp(2πi · pos[bin] · el[pix] / λ)
//
// beamforms along the row-separation axis, and an unnormalized inverse real
// FFT of length nbeam over the cylinder-separation axis forms the beam
// directions. The dirty beam transforms the coefficient grid alone, the sky
// map the coefficient-weighted visibilities.
func Synthesize(g *Grid, tab *BaselineTable, cfg Config, rm *dataset.RingMap) error {
	el := rm.El
	visPos := mathutil.FFTFreq(tab.NVis1D, 1.0/(float64(tab.NVis1D)*tab.MinRowSep))

	nworker := runtime.NumCPU()
	if nworker > g.NFreq {
		nworker = g.NFreq
	}

	jobs := make(chan int)
	errs := make([]error, g.NFreq)
	var wg sync.WaitGroup
	for w := 0; w < nworker; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fft := fourier.NewFFT(tab.NBeam)
			for f := range jobs {
				errs[f] = synthesizeFreq(g, tab, fft, visPos, el, rm, f)
			}
		}()
	}
	for f := 0; f < g.NFreq; f++ {
		jobs <- f
	}
	close(jobs)
	wg.Wait()

	return errors.Join(errs...)
}

// synthesizeFreq fills one frequency channel of the ring map. Unexpected
// transform panics are converted to a frequency-scoped error so a parallel
// run degrades per channel instead of crashing.
func synthesizeFreq(g *Grid, tab *BaselineTable, fft *fourier.FFT, visPos, el []float64, rm *dataset.RingMap, f int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &FreqError{Freq: f, Err: fmt.Errorf("synthesis panic: %v", r)}
		}
	}()

	if want := tab.NBeam/2 + 1; g.NCyl != want {
		return &FreqError{Freq: f, Err: fmt.Errorf("cylinder axis length %d does not match inverse FFT half-spectrum %d", g.NCyl, want)}
	}

	npix := len(el)
	wavelength := speedOfLight * 1e-6 / rm.FreqMHz[f]

	// Phase-steering matrix, row-separation bin × elevation pixel.
	pa := make([]complex128, g.NVis1D*npix)
	for s := 0; s < g.NVis1D; s++ {
		k := 2 * math.Pi * visPos[s] / wavelength
		for x := 0; x < npix; x++ {
			pa[s*npix+x] = cmplx.Exp(complex(0, k*el[x]))
		}
	}

	mapHalf := make([]complex128, g.NCyl*npix)
	beamHalf := make([]complex128, g.NCyl*npix)
	half := make([]complex128, g.NCyl)
	seq := make([]float64, tab.NBeam)

	for p := 0; p < npol; p++ {
		for t := 0; t < g.NRA; t++ {
			for i := range mapHalf {
				mapHalf[i] = 0
				beamHalf[i] = 0
			}
			for c := 0; c < g.NCyl; c++ {
				base := g.Idx(f, p, t, c, 0)
				for s := 0; s < g.NVis1D; s++ {
					coeff := g.Coeff[base+s]
					if coeff == 0 {
						continue
					}
					vis := g.Vis[base+s]
					for x := 0; x < npix; x++ {
						steer := complex(coeff, 0) * pa[s*npix+x]
						beamHalf[c*npix+x] += steer
						mapHalf[c*npix+x] += steer * vis
					}
				}
			}

			// Inverse real FFT over the cylinder axis, one elevation
			// pixel at a time. Sequence is unnormalized, which is
			// exactly the nbeam-scaled transform the map wants.
			for x := 0; x < npix; x++ {
				for c := 0; c < g.NCyl; c++ {
					half[c] = mapHalf[c*npix+x]
				}
				fft.Sequence(seq, half)
				for b := 0; b < tab.NBeam; b++ {
					rm.Map[f][p][t][b][x] = seq[b]
				}

				for c := 0; c < g.NCyl; c++ {
					half[c] = beamHalf[c*npix+x]
				}
				fft.Sequence(seq, half)
				for b := 0; b < tab.NBeam; b++ {
					rm.DirtyBeam[f][p][t][b][x] = seq[b]
				}
			}
		}
	}
	return nil
}
