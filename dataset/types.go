package dataset

import (
	"time"

	flightcalc "github.com/lucasjlepore/flight-analyzer"
)

const (
	// ExportFormatVersion identifies the on-disk layout of an export bundle.
	ExportFormatVersion = "flight_table_parquet_v1"

	FormatText    = "text"
	FormatParquet = "parquet"
)

// LoadOptions controls how a source table is read.
type LoadOptions struct {
	// TimeColumn names the sample key column. Defaults to "time".
	TimeColumn string

	// Format forces "text" or "parquet". Empty picks by extension and content.
	Format string
}

// Bundle is a loaded table together with what the loader found out about it.
type Bundle struct {
	Table *flightcalc.SampleTable
	Info  LoadInfo
}

// LoadInfo describes a load: source identity, recognized columns and
// everything the loader had to fix or drop.
type LoadInfo struct {
	SourceName      string   `json:"source_name"`
	SourceSHA256    string   `json:"source_sha256"`
	SourceSizeBytes int64    `json:"source_size_bytes"`
	Format          string   `json:"format"`
	Delimiter       string   `json:"delimiter,omitempty"`
	RowCount        int      `json:"row_count"`
	DroppedRows     int      `json:"dropped_rows"`
	Channels        []string `json:"channels"`
	IgnoredColumns  []string `json:"ignored_columns,omitempty"`
	MissingRequired []string `json:"missing_required,omitempty"`
	HasAltitude     bool     `json:"has_altitude"`
	TimeStart       float64  `json:"time_start"`
	TimeEnd         float64  `json:"time_end"`
	Warnings        []string `json:"warnings,omitempty"`
}

// ExportOptions controls export behavior.
type ExportOptions struct {
	// Overwrite allows writing into a non-empty output directory.
	Overwrite bool

	// CopySourceFile writes a byte-for-byte copy of the source table to the output directory.
	CopySourceFile bool

	Load LoadOptions
}

// ExportResult describes generated files.
type ExportResult struct {
	OutputDir       string `json:"output_dir"`
	ManifestPath    string `json:"manifest_path"`
	TablePath       string `json:"table_path"`
	SourceCopyPath  string `json:"source_copy_path,omitempty"`
	RowCount        int    `json:"row_count"`
	ChannelCount    int    `json:"channel_count"`
	SourceSHA256    string `json:"source_sha256"`
	SourceSizeBytes int64  `json:"source_size_bytes"`
}

// Manifest captures export metadata and pointers to exported files.
type Manifest struct {
	FormatVersion     string        `json:"format_version"`
	GeneratedAt       time.Time     `json:"generated_at"`
	SourceFile        string        `json:"source_file"`
	SourceFileName    string        `json:"source_file_name"`
	Load              LoadInfo      `json:"load"`
	TablePath         string        `json:"table_path"`
	RowCount          int           `json:"row_count"`
	SchemaDescription SchemaDetails `json:"schema_description"`
}

// SchemaDetails documents the table shape for downstream tools.
type SchemaDetails struct {
	RecordType string   `json:"record_type"`
	Columns    []string `json:"columns"`
	Notes      []string `json:"notes"`
}
