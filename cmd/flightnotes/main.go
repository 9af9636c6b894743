package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	flightcalc "github.com/lucasjlepore/flight-analyzer"
	"github.com/lucasjlepore/flight-analyzer/dataset"
	"github.com/lucasjlepore/flight-analyzer/internal/config"
	"github.com/lucasjlepore/flight-analyzer/internal/monitoring"
)

func main() {
	var (
		configPath = flag.String("config", "", "Calculation config JSON (optional)")
		plane      = flag.String("plane", "", "Plane profile name from the config")
		intervals  = flag.String("intervals", "", "Manual start-stop intervals; automatic detection when empty")
		jsonOut    = flag.Bool("json", false, "Emit full analysis as JSON")
		showRuns   = flag.Bool("runs", false, "Include the stable runs per criterion in text output")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <path-to-flight-table>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() < 1 {
		flag.Usage()
		os.Exit(2)
	}
	monitoring.SetLogger(nil)

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	calc, err := cfg.Calculation(*plane, *intervals)
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	bundle, err := dataset.LoadFile(flag.Arg(0), dataset.LoadOptions{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "load failed: %v\n", err)
		os.Exit(1)
	}
	analysis, err := flightcalc.Analyze(bundle.Table, calc)
	if err != nil {
		fmt.Fprintf(os.Stderr, "analysis failed: %v\n", err)
		os.Exit(1)
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(analysis); err != nil {
			fmt.Fprintf(os.Stderr, "json encode failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	fmt.Println(analysis.Notes)
	if *showRuns && analysis.Detection != nil {
		fmt.Println()
		fmt.Println("Stable Runs")
		for _, c := range []flightcalc.Criterion{flightcalc.CriterionPitch, flightcalc.CriterionRoll, flightcalc.CriterionAltitude, flightcalc.CriterionDrift} {
			for _, r := range analysis.Detection.Runs[c] {
				fmt.Printf("- %-8s | %8.0f | %8.0f | %6.0fs\n", c, r.Start, r.Stop, r.Stop-r.Start)
			}
		}
	}
}
