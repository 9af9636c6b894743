package dataset

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lucasjlepore/flight-analyzer/internal/monitoring"
)

// LoadFile reads a table from disk. Files ending in .parquet, or starting
// with the parquet magic bytes, are read as parquet; anything else as
// delimited text.
func LoadFile(path string, opts LoadOptions) (*Bundle, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("input path is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read table file: %w", err)
	}
	b, err := ParseBytes(path, data, opts)
	if err != nil {
		return nil, err
	}
	monitoring.Logf("loaded %s: %d rows, %d channels, %d warning(s)", b.Info.SourceName, b.Info.RowCount, len(b.Info.Channels), len(b.Info.Warnings))
	return b, nil
}

// ExportFile loads a table and writes a self-describing bundle.
// Output files:
//   - manifest.json
//   - table.parquet
//   - source<ext> (optional)
func ExportFile(inputPath, outputDir string, opts ExportOptions) (*ExportResult, error) {
	if strings.TrimSpace(outputDir) == "" {
		return nil, fmt.Errorf("output directory is required")
	}

	bundle, err := LoadFile(inputPath, opts.Load)
	if err != nil {
		return nil, err
	}

	if err := EnsureOutputDir(outputDir, opts.Overwrite); err != nil {
		return nil, err
	}

	tablePath := filepath.Join(outputDir, "table.parquet")
	if err := WriteParquet(tablePath, bundle.Table); err != nil {
		return nil, fmt.Errorf("write table.parquet: %w", err)
	}

	columns := append([]string{"time"}, bundle.Info.Channels...)
	manifest := Manifest{
		FormatVersion:  ExportFormatVersion,
		GeneratedAt:    time.Now().UTC(),
		SourceFile:     inputPath,
		SourceFileName: filepath.Base(inputPath),
		Load:           bundle.Info,
		TablePath:      filepath.Base(tablePath),
		RowCount:       bundle.Info.RowCount,
		SchemaDescription: SchemaDetails{
			RecordType: "one parquet row per sample, keyed by time in seconds",
			Columns:    columns,
			Notes: []string{
				"Every known channel has an OPTIONAL DOUBLE column; channels absent from the source are all null.",
				"Missing values inside a present channel are stored as NaN.",
				"Rows are sorted by time with duplicate timestamps removed.",
			},
		},
	}

	manifestPath := filepath.Join(outputDir, "manifest.json")
	if err := WriteJSON(manifestPath, manifest); err != nil {
		return nil, fmt.Errorf("write manifest.json: %w", err)
	}

	sourceCopyPath := ""
	if opts.CopySourceFile {
		sourceCopyPath = filepath.Join(outputDir, "source"+filepath.Ext(inputPath))
		if err := CopyFile(inputPath, sourceCopyPath); err != nil {
			return nil, fmt.Errorf("copy source table: %w", err)
		}
	}

	return &ExportResult{
		OutputDir:       outputDir,
		ManifestPath:    manifestPath,
		TablePath:       tablePath,
		SourceCopyPath:  sourceCopyPath,
		RowCount:        bundle.Info.RowCount,
		ChannelCount:    len(bundle.Info.Channels),
		SourceSHA256:    bundle.Info.SourceSHA256,
		SourceSizeBytes: bundle.Info.SourceSizeBytes,
	}, nil
}

// EnsureOutputDir creates path and refuses a non-empty directory unless
// overwrite is set.
func EnsureOutputDir(path string, overwrite bool) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return fmt.Errorf("read output directory: %w", err)
	}
	if len(entries) > 0 && !overwrite {
		return fmt.Errorf("output directory is not empty: %s (set overwrite=true to allow)", path)
	}
	return nil
}

// WriteJSON writes v as indented JSON with a trailing newline.
func WriteJSON(path string, v any) error {
	data, err := MarshalJSON(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// CopyFile copies src to dst and syncs dst.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
