package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	flightcalc "github.com/lucasjlepore/flight-analyzer"
	"github.com/lucasjlepore/flight-analyzer/dataset"
	"github.com/lucasjlepore/flight-analyzer/internal/archive"
	"github.com/lucasjlepore/flight-analyzer/internal/chart"
	"github.com/lucasjlepore/flight-analyzer/internal/config"
	"github.com/lucasjlepore/flight-analyzer/internal/monitoring"
)

// Run executes the full flight_analyze pipeline and writes all artifacts.
func Run(opts Options) (*Result, error) {
	return RunContext(context.Background(), opts)
}

// RunContext is Run with a context for the archive step.
func RunContext(ctx context.Context, opts Options) (*Result, error) {
	if strings.TrimSpace(opts.InputPath) == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if strings.TrimSpace(opts.OutDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}
	format := strings.ToLower(strings.TrimSpace(opts.Format))
	if format == "" {
		format = "parquet"
	}
	if format != "parquet" && format != "csv" {
		return nil, fmt.Errorf("unsupported format %q (expected parquet|csv)", format)
	}

	cfg := config.Default()
	if opts.ConfigPath != "" {
		loaded, err := config.LoadConfig(opts.ConfigPath)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	manual := opts.Intervals
	if opts.IntervalsPath != "" {
		data, err := os.ReadFile(opts.IntervalsPath)
		if err != nil {
			return nil, fmt.Errorf("read intervals file: %w", err)
		}
		manual = string(data)
	}

	calc, err := cfg.Calculation(opts.Plane, manual)
	if err != nil {
		return nil, fmt.Errorf("resolve calculation config: %w", err)
	}

	bundle, err := dataset.LoadFile(opts.InputPath, dataset.LoadOptions{TimeColumn: opts.TimeColumn})
	if err != nil {
		return nil, err
	}
	for _, w := range bundle.Info.Warnings {
		monitoring.Logf("load: %s", w)
	}

	analysis, err := flightcalc.Analyze(bundle.Table, calc)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", bundle.Info.SourceName, err)
	}
	monitoring.Logf("analysis: %s intervals, %s", analysis.IntervalSource, analysis.Summary.Label)

	if err := dataset.EnsureOutputDir(opts.OutDir, opts.Overwrite); err != nil {
		return nil, err
	}

	res := &Result{OutputDir: opts.OutDir, Analysis: analysis}

	res.DerivedTablePath = filepath.Join(opts.OutDir, "derived_table."+format)
	switch format {
	case "csv":
		if err := writeDerivedCSV(res.DerivedTablePath, analysis.Table()); err != nil {
			return nil, fmt.Errorf("write derived csv: %w", err)
		}
	case "parquet":
		if err := dataset.WriteParquet(res.DerivedTablePath, analysis.Table()); err != nil {
			return nil, fmt.Errorf("write derived parquet: %w", err)
		}
	}

	res.ReportXLSXPath = filepath.Join(opts.OutDir, "report.xlsx")
	if err := writeReportXLSX(res.ReportXLSXPath, analysis); err != nil {
		return nil, fmt.Errorf("write report.xlsx: %w", err)
	}

	res.ReportCSVPath = filepath.Join(opts.OutDir, "report.csv")
	if err := writeReportCSV(res.ReportCSVPath, analysis.Report.Rows); err != nil {
		return nil, fmt.Errorf("write report.csv: %w", err)
	}

	report := buildReportFile(bundle.Info, calc, analysis)
	res.ReportJSONPath = filepath.Join(opts.OutDir, "report.json")
	if err := dataset.WriteJSON(res.ReportJSONPath, report); err != nil {
		return nil, fmt.Errorf("write report.json: %w", err)
	}

	res.NotesPath = filepath.Join(opts.OutDir, "flight_notes.txt")
	if err := os.WriteFile(res.NotesPath, []byte(analysis.Notes+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("write flight_notes.txt: %w", err)
	}

	if opts.Chart {
		path := filepath.Join(opts.OutDir, "speeds.png")
		title := fmt.Sprintf("%s (%s)", bundle.Info.SourceName, analysis.Plane.Name)
		err := chart.SaveSpeeds(path, analysis.Table(), analysis.Intervals, title)
		switch {
		case errors.Is(err, chart.ErrNoData):
			monitoring.Logf("chart skipped: %v", err)
		case err != nil:
			return nil, fmt.Errorf("write speeds.png: %w", err)
		default:
			res.ChartPath = path
		}
	}

	if opts.CopySource {
		res.SourceCopyPath = filepath.Join(opts.OutDir, "source"+filepath.Ext(opts.InputPath))
		if err := dataset.CopyFile(opts.InputPath, res.SourceCopyPath); err != nil {
			return nil, fmt.Errorf("copy source table: %w", err)
		}
	}

	if opts.ArchivePath != "" {
		id, err := archiveRun(ctx, opts.ArchivePath, bundle.Info, calc, analysis)
		if err != nil {
			return nil, err
		}
		res.ArchiveRunID = id
	}

	return res, nil
}

func buildReportFile(info dataset.LoadInfo, calc flightcalc.Config, a *flightcalc.Analysis) ReportFile {
	rf := ReportFile{
		FormatVersion:  ReportFormatVersion,
		GeneratedAt:    time.Now().UTC(),
		Source:         info,
		Plane:          a.Plane,
		Diss:           calc.Diss,
		Angles:         calc.Angles,
		Thresholds:     calc.Thresholds,
		IntervalSource: a.IntervalSource,
		Intervals:      a.Intervals,
		Headers:        flightcalc.ReportHeaders,
		Rows:           a.Report.Rows,
		Summary:        a.Summary,
		Warnings:       a.Warnings,
	}
	if rf.Intervals == nil {
		rf.Intervals = []flightcalc.Interval{}
	}
	if a.Detection != nil {
		rf.Runs = a.Detection.Runs
	}
	return rf
}

func archiveRun(ctx context.Context, path string, info dataset.LoadInfo, calc flightcalc.Config, a *flightcalc.Analysis) (string, error) {
	store, err := archive.Open(ctx, path)
	if err != nil {
		return "", err
	}
	defer store.Close()

	run, err := store.SaveRun(ctx, archive.Source{Name: info.SourceName, SHA256: info.SourceSHA256}, calc, a)
	if err != nil {
		return "", fmt.Errorf("archive run: %w", err)
	}
	return run.ID, nil
}
