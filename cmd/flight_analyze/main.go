package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/lucasjlepore/flight-analyzer/internal/config"
	"github.com/lucasjlepore/flight-analyzer/internal/monitoring"
	"github.com/lucasjlepore/flight-analyzer/pipeline"
)

func main() {
	var (
		input       = flag.String("in", "", "Path to input flight table (.txt/.csv/.parquet)")
		outDir      = flag.String("out", "", "Output directory")
		configPath  = flag.String("config", "", "Calculation config JSON (optional)")
		plane       = flag.String("plane", "", "Plane profile name from the config")
		intervals   = flag.String("intervals", "", "Manual intervals, e.g. \"100-400\\n600-900\"")
		intervalsIn = flag.String("intervals-file", "", "File with manual start-stop intervals")
		timeColumn  = flag.String("time-column", "", "Name of the time column (default \"time\")")
		format      = flag.String("format", "parquet", "Derived table format: parquet|csv")
		chart       = flag.Bool("chart", true, "Write speeds.png")
		archivePath = flag.String("archive", "", "SQLite archive to record the run in (optional)")
		overwrite   = flag.Bool("overwrite", true, "Allow writing into non-empty output directories")
		quiet       = flag.Bool("quiet", false, "Silence progress logging")
		listPlanes  = flag.Bool("planes", false, "List the plane profiles in the config and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --in flight.txt --out outdir [--plane an26] [--intervals-file iv.txt] [--format parquet|csv]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if *listPlanes {
		if err := printPlanes(os.Stdout, *configPath); err != nil {
			fmt.Fprintf(os.Stderr, "flight_analyze failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if strings.TrimSpace(*input) == "" || strings.TrimSpace(*outDir) == "" {
		flag.Usage()
		os.Exit(2)
	}
	if *quiet {
		monitoring.SetLogger(nil)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	result, err := pipeline.RunContext(ctx, pipeline.Options{
		InputPath:     *input,
		OutDir:        *outDir,
		ConfigPath:    *configPath,
		Plane:         *plane,
		Intervals:     *intervals,
		IntervalsPath: *intervalsIn,
		TimeColumn:    *timeColumn,
		Format:        *format,
		Chart:         *chart,
		ArchivePath:   *archivePath,
		Overwrite:     *overwrite,
		CopySource:    true,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "flight_analyze failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("flight_analyze complete\n")
	fmt.Printf("Output dir:     %s\n", result.OutputDir)
	fmt.Printf("derived table:  %s\n", result.DerivedTablePath)
	fmt.Printf("report.xlsx:    %s\n", result.ReportXLSXPath)
	fmt.Printf("report.csv:     %s\n", result.ReportCSVPath)
	fmt.Printf("report.json:    %s\n", result.ReportJSONPath)
	fmt.Printf("notes:          %s\n", result.NotesPath)
	if result.ChartPath != "" {
		fmt.Printf("chart:          %s\n", result.ChartPath)
	}
	if result.SourceCopyPath != "" {
		fmt.Printf("source copy:    %s\n", result.SourceCopyPath)
	}
	if result.ArchiveRunID != "" {
		fmt.Printf("archive run:    %s\n", result.ArchiveRunID)
	}
	fmt.Printf("summary:        %s\n", result.Analysis.Summary.Label)
	for _, w := range result.Analysis.Warnings {
		fmt.Printf("warning:        %s\n", w)
	}
}

func printPlanes(w io.Writer, configPath string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	for _, name := range cfg.PlaneNames() {
		p, err := cfg.Plane(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%-16s k=%-8.4g k1=%.4g\n", name, p.K, p.K1)
	}
	return nil
}
