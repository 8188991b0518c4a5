// ftsim estimates electrode capacitance along a recorded displacement
// time series, as a full sweep or stepped interactively.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/NanayasWorkshop/FT-Sim/internal/cap"
	"github.com/NanayasWorkshop/FT-Sim/internal/config"
	"github.com/NanayasWorkshop/FT-Sim/internal/mesh"
	"github.com/NanayasWorkshop/FT-Sim/internal/pose"
	"github.com/NanayasWorkshop/FT-Sim/internal/sweep"
	"github.com/NanayasWorkshop/FT-Sim/internal/units"
)

func main() {
	csvDir := flag.String("csv-dir", "", "directory with displacement series CSVs (required)")
	modelsDir := flag.String("models-dir", "", "directory with electrode OBJ meshes; generated plates when empty")
	outPath := flag.String("out", "results.csv", "results CSV path")
	dbPath := flag.String("db", "", "optional sqlite run store path")
	chartPath := flag.String("chart", "", "optional HTML chart path")
	plotPath := flag.String("plot", "", "optional trajectory PNG path")
	configPath := flag.String("config", "", "optional JSON tuning config")
	mode := flag.String("mode", "sweep", "run mode: sweep or step")
	flag.Parse()

	if *csvDir == "" {
		flag.Usage()
		log.Fatal("ftsim: -csv-dir is required")
	}

	cfg := config.EmptySimConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadSimConfig(*configPath)
		if err != nil {
			log.Fatalf("ftsim: %v", err)
		}
	}

	genCfg := mesh.GeneratorConfig{
		PlateSegments: cfg.GetPlateSegments(),
		SphereRings:   cfg.GetSphereRings(),
		SphereSectors: cfg.GetSphereSectors(),
	}
	var (
		provider mesh.Provider
		err      error
	)
	if *modelsDir != "" {
		provider, err = mesh.NewOBJLibrary(*modelsDir, genCfg)
		if err != nil {
			log.Fatalf("ftsim: load models: %v", err)
		}
	} else {
		log.Print("ftsim: no models directory, using generated electrode geometry")
		provider = mesh.NewGeneratedLibrary(genCfg)
	}

	store := pose.NewStore()
	est, err := cap.NewEstimator(provider, store, cap.Config{
		MaxRayDistanceMM:     cfg.GetMaxRayDistanceMM(),
		RelativePermittivity: cfg.GetRelativePermittivity(),
	})
	if err != nil {
		log.Fatalf("ftsim: estimator setup: %v", err)
	}

	proc := sweep.NewProcessor(store, est)
	proc.SetProgressInterval(cfg.GetProgressInterval())
	if err := proc.Load(*csvDir); err != nil {
		log.Fatalf("ftsim: %v", err)
	}
	log.Printf("ftsim: loaded %d rows from %s", proc.MaxRows(), *csvDir)

	switch *mode {
	case "sweep":
		runSweep(proc, cfg, *csvDir, *outPath, *dbPath, *chartPath, *plotPath)
	case "step":
		runStep(proc, store)
	default:
		log.Fatalf("ftsim: unknown mode %q (want sweep or step)", *mode)
	}
}

func runSweep(proc *sweep.Processor, cfg *config.SimConfig, csvDir, outPath, dbPath, chartPath, plotPath string) {
	res, err := proc.Sweep()
	if err != nil {
		log.Fatalf("ftsim: sweep: %v", err)
	}

	if err := sweep.WriteResultsCSV(outPath, res); err != nil {
		log.Fatalf("ftsim: %v", err)
	}
	log.Printf("ftsim: wrote %d rows to %s", len(res.Rows), outPath)

	if dbPath != "" {
		store, err := sweep.OpenRunStore(dbPath)
		if err != nil {
			log.Fatalf("ftsim: %v", err)
		}
		defer store.Close()
		runID, err := store.SaveRun(sweep.RunMeta{
			CSVDir:               csvDir,
			MaxRayDistanceMM:     cfg.GetMaxRayDistanceMM(),
			RelativePermittivity: cfg.GetRelativePermittivity(),
		}, res)
		if err != nil {
			log.Fatalf("ftsim: %v", err)
		}
		log.Printf("ftsim: saved run %s to %s", runID, dbPath)
	}
	if chartPath != "" {
		if err := sweep.WriteChartHTML(chartPath, res); err != nil {
			log.Fatalf("ftsim: %v", err)
		}
		log.Printf("ftsim: wrote chart to %s", chartPath)
	}
	if plotPath != "" {
		if err := sweep.WriteTrajectoryPNG(plotPath, proc.Envelopes()); err != nil {
			log.Fatalf("ftsim: %v", err)
		}
		log.Printf("ftsim: wrote trajectory plot to %s", plotPath)
	}

	printSummary(res)
	for _, env := range proc.Envelopes() {
		fmt.Println(env.Report())
	}
}

// printSummary reports the final row's per-electrode values, the run
// total range, and the mean total.
func printSummary(res *sweep.Results) {
	if len(res.Rows) == 0 {
		return
	}
	last := res.Rows[len(res.Rows)-1]
	fmt.Printf("final row (%d):\n", last.Row+1)
	for _, s := range last.Samples {
		fmt.Printf("  %-3s %s pF  (hits %d/%d)\n",
			s.Model.Short(), units.FormatPicofarads(s.Capacitance), s.HitCount, 2*s.TriangleCount)
	}
	fmt.Printf("  total %s pF\n", units.FormatPicofarads(last.Total))

	min, max, sum := res.Rows[0].Total, res.Rows[0].Total, 0.0
	for _, row := range res.Rows {
		if row.Total < min {
			min = row.Total
		}
		if row.Total > max {
			max = row.Total
		}
		sum += row.Total
	}
	fmt.Printf("total over run: min %s, max %s, mean %s pF\n",
		units.FormatPicofarads(min), units.FormatPicofarads(max),
		units.FormatPicofarads(sum/float64(len(res.Rows))))
}

// runStep drives the processor from stdin: n/p step, g <row> jumps,
// c evaluates, i prints position, q quits.
func runStep(proc *sweep.Processor, store *pose.Store) {
	fmt.Println("commands: n(ext) p(rev) g <row> c(apacitance) i(nfo) q(uit)")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "n":
			if !proc.Next() {
				fmt.Println("at end of series")
			}
			fmt.Println(proc.RowInfo())
		case "p":
			if !proc.Prev() {
				fmt.Println("at start of series")
			}
			fmt.Println(proc.RowInfo())
		case "g":
			if len(fields) < 2 {
				fmt.Println("usage: g <row>")
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || !proc.GotoRow(n-1) {
				fmt.Printf("row out of range (1-%d)\n", proc.MaxRows())
				continue
			}
			fmt.Println(proc.RowInfo())
		case "c":
			samples, total, err := proc.Evaluate()
			if err != nil {
				fmt.Printf("evaluate: %v\n", err)
				continue
			}
			for _, s := range samples {
				fmt.Printf("  %-3s %s pF\n", s.Model.Short(), units.FormatPicofarads(s.Capacitance))
			}
			fmt.Printf("  total %s pF\n", units.FormatPicofarads(total))
		case "i":
			fmt.Println(proc.RowInfo())
			for _, id := range pose.TrackedSpheres {
				p := store.Combined(id).Apply(r3.Vec{})
				fmt.Printf("  %-6s (%8.3f, %8.3f, %8.3f) mm\n", id.Short(), p.X, p.Y, p.Z)
			}
		case "q":
			return
		default:
			fmt.Println("commands: n(ext) p(rev) g <row> c(apacitance) i(nfo) q(uit)")
		}
	}
}
