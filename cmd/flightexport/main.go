package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lucasjlepore/flight-analyzer/dataset"
)

func main() {
	var (
		outDir     = flag.String("out-dir", "", "Output directory for manifest.json and table.parquet")
		timeColumn = flag.String("time-column", "", "Name of the time column (default \"time\")")
		format     = flag.String("format", "", "Force input format: text|parquet (default: detect)")
		overwrite  = flag.Bool("overwrite", true, "Allow writing to non-empty output directories")
		copySource = flag.Bool("copy-source", true, "Copy the original table into the export directory")
	)

	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <path-to-flight-table>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	inputPath := flag.Arg(0)
	if strings.TrimSpace(*outDir) == "" {
		base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
		*outDir = filepath.Join(".", "exports", base+"_"+dataset.ExportFormatVersion)
	}

	result, err := dataset.ExportFile(inputPath, *outDir, dataset.ExportOptions{
		Overwrite:      *overwrite,
		CopySourceFile: *copySource,
		Load:           dataset.LoadOptions{TimeColumn: *timeColumn, Format: *format},
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "export failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Export complete\n")
	fmt.Printf("Output dir: %s\n", result.OutputDir)
	fmt.Printf("Manifest:   %s\n", result.ManifestPath)
	fmt.Printf("Table:      %s\n", result.TablePath)
	if result.SourceCopyPath != "" {
		fmt.Printf("Source:     %s\n", result.SourceCopyPath)
	}
	fmt.Printf("Rows:       %d (%d channels)\n", result.RowCount, result.ChannelCount)
	fmt.Printf("SHA-256:    %s\n", result.SourceSHA256)
}
