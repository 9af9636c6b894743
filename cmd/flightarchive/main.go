package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/lucasjlepore/flight-analyzer/internal/archive"
)

type options struct {
	dbPath  string
	limit   int
	show    string
	remove  string
	jsonOut bool
}

var errUsage = errors.New("archive path is required")

func main() {
	var opts options
	flag.StringVar(&opts.dbPath, "db", "", "SQLite archive path")
	flag.IntVar(&opts.limit, "limit", 20, "Number of runs to list")
	flag.StringVar(&opts.show, "show", "", "Print one run with its report rows as JSON")
	flag.StringVar(&opts.remove, "delete", "", "Delete one run")
	flag.BoolVar(&opts.jsonOut, "json", false, "List runs as JSON")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s --db runs.db [--limit 20 | --show RUN_ID | --delete RUN_ID]\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	err := run(context.Background(), os.Stdout, opts)
	switch {
	case errors.Is(err, errUsage):
		flag.Usage()
		os.Exit(2)
	case err != nil:
		fmt.Fprintf(os.Stderr, "flightarchive failed: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, opts options) error {
	if opts.dbPath == "" {
		return errUsage
	}
	store, err := archive.Open(ctx, opts.dbPath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer store.Close()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	switch {
	case opts.show != "":
		stored, err := store.LoadRun(ctx, opts.show)
		if err != nil {
			return fmt.Errorf("load run: %w", err)
		}
		return enc.Encode(stored)
	case opts.remove != "":
		if err := store.DeleteRun(ctx, opts.remove); err != nil {
			return fmt.Errorf("delete run: %w", err)
		}
		fmt.Fprintf(w, "deleted %s\n", opts.remove)
		return nil
	}

	runs, err := store.ListRuns(ctx, opts.limit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if opts.jsonOut {
		return enc.Encode(runs)
	}
	for _, r := range runs {
		fmt.Fprintf(w, "%s  %s  %-10s  %-24s  %s\n", r.ID, r.CreatedAt.Format("2006-01-02 15:04:05"), r.Plane.Name, r.Source, r.Label)
	}
	return nil
}
