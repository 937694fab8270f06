// Command ringmap maps a visibility stream into a ring map. It reads a JSON
// stream file (visibilities, weights and feed layout), runs the beamforming
// engine, and writes the synthesized map as JSON, with optional HTML report,
// PNG beam plot and sqlite run bookkeeping.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/cygnus-data/ringmap.report/internal/beamplot"
	"github.com/cygnus-data/ringmap.report/internal/config"
	"github.com/cygnus-data/ringmap.report/internal/dataset"
	"github.com/cygnus-data/ringmap.report/internal/mapdb"
	"github.com/cygnus-data/ringmap.report/internal/monitoring"
	"github.com/cygnus-data/ringmap.report/internal/report"
	"github.com/cygnus-data/ringmap.report/internal/ringmap"
)

func main() {
	var (
		inputPath  = flag.String("input", "", "input visibility stream JSON file (required)")
		outputPath = flag.String("output", "ringmap.json", "output ring map JSON file")
		configPath = flag.String("config", "", "optional JSON map configuration file")
		npix       = flag.Int("npix", 0, "elevation pixels (overrides config)")
		span       = flag.Float64("span", 0, "elevation span (overrides config)")
		weighting  = flag.String("weighting", "", "baseline weighting: uniform, natural or inverse_variance (overrides config)")
		intracyl   = flag.Bool("intracyl", true, "include intra-cylinder baselines")
		dbPath     = flag.String("db", "", "sqlite run database (overrides config)")
		reportPath = flag.String("report", "", "HTML report output path (overrides config)")
		plotPath   = flag.String("plot", "", "PNG sky-map plot output path (overrides config)")
		verbose    = flag.Bool("verbose", false, "enable debug logging")
	)
	flag.Parse()

	monitoring.SetVerbose(*verbose)

	if *inputPath == "" {
		flag.Usage()
		os.Exit(2)
	}
	if err := run(*inputPath, *outputPath, *configPath, *npix, *span, *weighting, *intracyl, *dbPath, *reportPath, *plotPath); err != nil {
		log.Fatalf("ringmap: %v", err)
	}
}

func run(inputPath, outputPath, configPath string, npix int, span float64, weighting string, intracyl bool, dbPath, reportPath, plotPath string) error {
	fileCfg := &config.MapConfig{}
	if configPath != "" {
		loaded, err := config.LoadMapConfig(configPath)
		if err != nil {
			return err
		}
		fileCfg = loaded
	}

	// flags override the config file when set
	if npix == 0 {
		npix = fileCfg.GetNPix()
	}
	if span == 0 {
		span = fileCfg.GetSpan()
	}
	if weighting == "" {
		weighting = fileCfg.GetWeighting()
	}
	if !flagWasSet("intracyl") {
		intracyl = fileCfg.GetIntracyl()
	}
	if dbPath == "" {
		dbPath = fileCfg.GetDBPath()
	}
	if reportPath == "" {
		reportPath = fileCfg.GetReportPath()
	}
	if plotPath == "" {
		plotPath = fileCfg.GetPlotPath()
	}

	scheme, err := ringmap.ParseWeighting(weighting)
	if err != nil {
		return err
	}
	maker, err := ringmap.New(ringmap.Config{
		NPix:      npix,
		Span:      span,
		Weighting: scheme,
		Intracyl:  intracyl,
	})
	if err != nil {
		return err
	}

	ss, geom, err := dataset.LoadStream(inputPath)
	if err != nil {
		return err
	}
	monitoring.Logf("loaded %s: %d freq x %d baselines x %d ra samples", inputPath, ss.NFreq(), ss.NProd(), ss.NRA())

	var store *mapdb.RunStore
	runID := mapdb.NewRunID()
	if dbPath != "" {
		db, err := mapdb.Open(dbPath)
		if err != nil {
			return err
		}
		defer db.Close()
		store = mapdb.NewRunStore(db)
		if err := store.InsertRun(mapdb.RunRecord{
			RunID:     runID,
			InputPath: inputPath,
			Weighting: scheme.String(),
			NPix:      npix,
			Span:      span,
			Intracyl:  intracyl,
			NFreq:     ss.NFreq(),
			NBaseline: ss.NProd(),
			NRA:       ss.NRA(),
			StartedAt: time.Now().UTC(),
		}); err != nil {
			return err
		}
	}

	started := time.Now()
	rm, err := maker.Process(geom, ss)
	if err != nil {
		if store != nil {
			if dberr := store.CompleteRun(runID, mapdb.StatusFailed, nil, time.Now().UTC(), err.Error()); dberr != nil {
				monitoring.Logf("recording failed run: %v", dberr)
			}
		}
		return err
	}
	monitoring.Logf("synthesized %d beams x %d el pixels in %v", rm.NBeam, len(rm.El), time.Since(started).Round(time.Millisecond))

	if err := dataset.SaveRingMap(outputPath, rm); err != nil {
		return err
	}
	monitoring.Logf("wrote %s", outputPath)

	if reportPath != "" {
		if err := report.WriteFile(rm, reportPath); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", reportPath)
	}
	if plotPath != "" {
		if err := beamplot.SaveMapPNG(rm, 0, 0, 0, plotPath); err != nil {
			return err
		}
		monitoring.Logf("wrote %s", plotPath)
	}

	if store != nil {
		summary, err := rmsSummary(rm)
		if err != nil {
			return err
		}
		if err := store.CompleteRun(runID, mapdb.StatusCompleted, summary, time.Now().UTC(), ""); err != nil {
			return err
		}
		monitoring.Debugf("recorded run %s in %s", runID, dbPath)
	}
	return nil
}

// rmsSummary serializes the mean RMS per frequency channel for the run record.
func rmsSummary(rm *dataset.RingMap) (json.RawMessage, error) {
	means := make([]float64, len(rm.FreqMHz))
	for f := range rm.RMS {
		sum, n := 0.0, 0
		for p := range rm.RMS[f] {
			for t := range rm.RMS[f][p] {
				for _, v := range rm.RMS[f][p][t] {
					sum += v
					n++
				}
			}
		}
		if n > 0 {
			means[f] = sum / float64(n)
		}
	}
	data, err := json.Marshal(map[string]interface{}{
		"freq_mhz": rm.FreqMHz,
		"mean_rms": means,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding rms summary: %w", err)
	}
	return data, nil
}

func flagWasSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
