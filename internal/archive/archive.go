package archive

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	flightcalc "github.com/lucasjlepore/flight-analyzer"
	"github.com/lucasjlepore/flight-analyzer/internal/monitoring"
)

// schema.sql defines the run and report row tables.
//
//go:embed schema.sql
var schemaSQL string

// ErrNotFound is returned by LoadRun for an unknown run id.
var ErrNotFound = errors.New("run not found")

// Archive stores calculation runs in a SQLite database.
type Archive struct {
	db  *sql.DB
	now func() time.Time
}

// Source identifies the table a run was computed from.
type Source struct {
	Name   string
	SHA256 string
}

// Run is one archived calculation.
type Run struct {
	ID              string                      `json:"id"`
	CreatedAt       time.Time                   `json:"created_at"`
	Source          string                      `json:"source"`
	SourceSHA256    string                      `json:"source_sha256,omitempty"`
	Plane           flightcalc.PlaneProfile     `json:"plane"`
	Diss            flightcalc.DissCoefficients `json:"diss"`
	Angles          flightcalc.AngleCorrections `json:"angles"`
	IntervalSource  string                      `json:"interval_source"`
	Samples         int                         `json:"samples"`
	IntervalCount   int                         `json:"interval_count"`
	WithinTolerance int                         `json:"within_tolerance"`
	MeanAbsWpPct    float64                     `json:"mean_abs_wp_pct"`
	MaxAbsWpPct     float64                     `json:"max_abs_wp_pct"`
	Label           string                      `json:"label"`
}

// StoredRun is a run together with its report rows.
type StoredRun struct {
	Run
	Rows []flightcalc.ReportRow `json:"rows"`
}

// Open opens or creates the archive at path and applies the schema.
func Open(ctx context.Context, path string) (*Archive, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	// One connection keeps writers from tripping over SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Archive{db: db, now: time.Now}, nil
}

// Close releases the database.
func (a *Archive) Close() error {
	return a.db.Close()
}

// SaveRun stores an analysis and its report rows, returning the new run.
func (a *Archive) SaveRun(ctx context.Context, src Source, cfg flightcalc.Config, an *flightcalc.Analysis) (Run, error) {
	if an == nil {
		return Run{}, errors.New("analysis is required")
	}
	run := Run{
		ID:              uuid.NewString(),
		CreatedAt:       a.now().UTC(),
		Source:          src.Name,
		SourceSHA256:    src.SHA256,
		Plane:           an.Plane,
		Diss:            cfg.Diss,
		Angles:          cfg.Angles,
		IntervalSource:  an.IntervalSource,
		Samples:         an.Samples,
		IntervalCount:   an.Summary.IntervalCount,
		WithinTolerance: an.Summary.WithinTolerance,
		MeanAbsWpPct:    an.Summary.MeanAbsWpPct,
		MaxAbsWpPct:     an.Summary.MaxAbsWpPct,
		Label:           an.Summary.Label,
	}

	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return Run{}, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO calc_runs (run_id, created_at, source_name, source_sha256, plane, k, k1,
			diss_wx, diss_wy, diss_wz, angle_kren, angle_tang, angle_kurs,
			interval_source, samples, interval_count, within_tolerance, mean_abs_wp_pct, max_abs_wp_pct, label)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.CreatedAt.Format(time.RFC3339Nano), run.Source, run.SourceSHA256,
		run.Plane.Name, run.Plane.K, run.Plane.K1,
		run.Diss.Wx, run.Diss.Wy, run.Diss.Wz,
		run.Angles.Kren, run.Angles.Tang, run.Angles.Kurs,
		run.IntervalSource, run.Samples, run.IntervalCount, run.WithinTolerance,
		nullable(run.MeanAbsWpPct), nullable(run.MaxAbsWpPct), run.Label,
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	if an.Report != nil && len(an.Report.Rows) > 0 {
		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO report_rows (run_id, row_index, length, jvd_h, start, stop, counts, us, wp, wx, wz, wy)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return Run{}, fmt.Errorf("prepare row insert: %w", err)
		}
		defer stmt.Close()
		for i, r := range an.Report.Rows {
			args := []any{run.ID, i}
			for _, v := range r.Values() {
				args = append(args, nullable(v))
			}
			if _, err := stmt.ExecContext(ctx, args...); err != nil {
				return Run{}, fmt.Errorf("insert report row %d: %w", i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return Run{}, fmt.Errorf("commit run: %w", err)
	}
	monitoring.Logf("archived run %s (%s, %d rows)", run.ID, run.Source, run.IntervalCount)
	return run, nil
}

const runColumns = `run_id, created_at, source_name, source_sha256, plane, k, k1,
	diss_wx, diss_wy, diss_wz, angle_kren, angle_tang, angle_kurs,
	interval_source, samples, interval_count, within_tolerance, mean_abs_wp_pct, max_abs_wp_pct, label`

// ListRuns returns the most recent runs first. limit <= 0 returns all.
func (a *Archive) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM calc_runs ORDER BY created_at DESC, rowid DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := a.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	out := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, run)
	}
	return out, rows.Err()
}

// LoadRun returns a run and its report rows in their original order.
func (a *Archive) LoadRun(ctx context.Context, id string) (*StoredRun, error) {
	row := a.db.QueryRowContext(ctx, `SELECT `+runColumns+` FROM calc_runs WHERE run_id = ?`, id)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	rows, err := a.db.QueryContext(ctx, `
		SELECT length, jvd_h, start, stop, counts, us, wp, wx, wz, wy
		FROM report_rows WHERE run_id = ? ORDER BY row_index`, id)
	if err != nil {
		return nil, fmt.Errorf("query report rows: %w", err)
	}
	defer rows.Close()

	stored := &StoredRun{Run: run, Rows: []flightcalc.ReportRow{}}
	for rows.Next() {
		var cells [10]sql.NullFloat64
		dest := make([]any, len(cells))
		for i := range cells {
			dest[i] = &cells[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan report row: %w", err)
		}
		stored.Rows = append(stored.Rows, flightcalc.ReportRow{
			Length: orNaN(cells[0]),
			Height: orNaN(cells[1]),
			Start:  orNaN(cells[2]),
			Stop:   orNaN(cells[3]),
			Counts: orNaN(cells[4]),
			US:     orNaN(cells[5]),
			Wp:     orNaN(cells[6]),
			Wx:     orNaN(cells[7]),
			Wz:     orNaN(cells[8]),
			Wy:     orNaN(cells[9]),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read report rows: %w", err)
	}
	return stored, nil
}

// DeleteRun removes a run and its rows.
func (a *Archive) DeleteRun(ctx context.Context, id string) error {
	res, err := a.db.ExecContext(ctx, `DELETE FROM calc_runs WHERE run_id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("run %s: %w", id, ErrNotFound)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(s scanner) (Run, error) {
	var (
		run     Run
		created string
		sha     sql.NullString
		meanWp  sql.NullFloat64
		maxWp   sql.NullFloat64
		label   sql.NullString
	)
	err := s.Scan(
		&run.ID, &created, &run.Source, &sha, &run.Plane.Name, &run.Plane.K, &run.Plane.K1,
		&run.Diss.Wx, &run.Diss.Wy, &run.Diss.Wz,
		&run.Angles.Kren, &run.Angles.Tang, &run.Angles.Kurs,
		&run.IntervalSource, &run.Samples, &run.IntervalCount, &run.WithinTolerance,
		&meanWp, &maxWp, &label,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.CreatedAt, err = time.Parse(time.RFC3339Nano, created)
	if err != nil {
		return Run{}, fmt.Errorf("parse created_at %q: %w", created, err)
	}
	run.SourceSHA256 = sha.String
	run.MeanAbsWpPct = orNaN(meanWp)
	run.MaxAbsWpPct = orNaN(maxWp)
	run.Label = label.String
	return run, nil
}

// nullable maps non-finite values to NULL.
func nullable(v float64) sql.NullFloat64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: v, Valid: true}
}

func orNaN(v sql.NullFloat64) float64 {
	if !v.Valid {
		return math.NaN()
	}
	return v.Float64
}
