package pipeline

import (
	"math"

	"github.com/xuri/excelize/v2"

	flightcalc "github.com/lucasjlepore/flight-analyzer"
)

const (
	reportSheet  = "Report"
	summarySheet = "Summary"
)

// writeReportXLSX writes the report rows and a summary sheet. Non-finite
// cells are left empty.
func writeReportXLSX(path string, a *flightcalc.Analysis) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", reportSheet); err != nil {
		return err
	}
	header := make([]interface{}, len(flightcalc.ReportHeaders))
	for i, h := range flightcalc.ReportHeaders {
		header[i] = h
	}
	if err := f.SetSheetRow(reportSheet, "A1", &header); err != nil {
		return err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(reportSheet, "A1", last, bold); err != nil {
		return err
	}

	for i, r := range a.Report.Rows {
		for j, v := range r.Values() {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(reportSheet, cell, v); err != nil {
				return err
			}
		}
	}
	if err := f.SetColWidth(reportSheet, "A", "J", 12); err != nil {
		return err
	}
	if err := f.SetPanes(reportSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return err
	}
	s := a.Summary
	summary := [][]interface{}{
		{"plane", a.Plane.Name},
		{"k", a.Plane.K},
		{"k1", a.Plane.K1},
		{"interval_source", a.IntervalSource},
		{"samples", a.Samples},
		{"intervals", s.IntervalCount},
		{"total_counts", s.TotalCounts},
		{"mean_us", s.MeanUS},
		{"mean_abs_wp_pct", s.MeanAbsWpPct},
		{"max_abs_wp_pct", s.MaxAbsWpPct},
		{"tolerance_pct", s.TolerancePct},
		{"within_tolerance", s.WithinTolerance},
		{"degenerate", s.Degenerate},
		{"summary", s.Label},
	}
	for i, kv := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(summarySheet, cell, &kv); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(summarySheet, "A", "B", 20); err != nil {
		return err
	}

	return f.SaveAs(path)
}
