package pipeline

import (
	"time"

	flightcalc "github.com/lucasjlepore/flight-analyzer"
	"github.com/lucasjlepore/flight-analyzer/dataset"
)

// ReportFormatVersion identifies the layout of report.json.
const ReportFormatVersion = "flight_report_v1"

// Options configures the flight_analyze pipeline.
type Options struct {
	InputPath  string
	OutDir     string
	ConfigPath string // optional JSON calculation config
	Plane      string // plane profile name; empty uses the config default

	// IntervalsPath points at a text file of "start-stop" lines. Intervals
	// holds the same text inline and is used when IntervalsPath is empty.
	IntervalsPath string
	Intervals     string

	TimeColumn  string
	Format      string // derived table format: parquet|csv
	Chart       bool   // write speeds.png
	ArchivePath string // optional SQLite archive to record the run in
	Overwrite   bool
	CopySource  bool
}

// Result returns generated output paths.
type Result struct {
	OutputDir        string `json:"output_dir"`
	DerivedTablePath string `json:"derived_table_path"`
	ReportXLSXPath   string `json:"report_xlsx_path"`
	ReportCSVPath    string `json:"report_csv_path"`
	ReportJSONPath   string `json:"report_json_path"`
	NotesPath        string `json:"notes_path"`
	ChartPath        string `json:"chart_path,omitempty"`
	SourceCopyPath   string `json:"source_copy_path,omitempty"`
	ArchiveRunID     string `json:"archive_run_id,omitempty"`

	Analysis *flightcalc.Analysis `json:"-"`
}

// ReportFile is the JSON report artifact.
type ReportFile struct {
	FormatVersion  string                                    `json:"format_version"`
	GeneratedAt    time.Time                                 `json:"generated_at"`
	Source         dataset.LoadInfo                          `json:"source"`
	Plane          flightcalc.PlaneProfile                   `json:"plane"`
	Diss           flightcalc.DissCoefficients               `json:"diss"`
	Angles         flightcalc.AngleCorrections               `json:"angles"`
	Thresholds     flightcalc.Thresholds                     `json:"thresholds"`
	IntervalSource string                                    `json:"interval_source"`
	Intervals      []flightcalc.Interval                     `json:"intervals"`
	Runs           map[flightcalc.Criterion][]flightcalc.Run `json:"runs,omitempty"`
	Headers        []string                                  `json:"headers"`
	Rows           []flightcalc.ReportRow                    `json:"rows"`
	Summary        flightcalc.ReportSummary                  `json:"summary"`
	Warnings       []string                                  `json:"warnings,omitempty"`
}
