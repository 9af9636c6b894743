package flightcalc

import (
	"fmt"
	"math"
	"strings"
)

// Row verdicts assigned by SummarizeReport.
const (
	VerdictWithin     = "within_tolerance"
	VerdictExceeds    = "exceeds_tolerance"
	VerdictDegenerate = "degenerate"
)

// ReportSummary condenses a report into a few flight-level numbers.
type ReportSummary struct {
	IntervalCount   int          `json:"interval_count"`
	TotalCounts     float64      `json:"total_counts"`
	TotalLength     float64      `json:"total_length"`
	MeanUS          float64      `json:"mean_us"`
	MeanAbsWpPct    float64      `json:"mean_abs_wp_pct"`
	MaxAbsWpPct     float64      `json:"max_abs_wp_pct"`
	WorstInterval   int          `json:"worst_interval"`
	TolerancePct    float64      `json:"tolerance_pct"`
	WithinTolerance int          `json:"within_tolerance"`
	Degenerate      int          `json:"degenerate"`
	Rows            []RowVerdict `json:"rows,omitempty"`
	Label           string       `json:"label"`
}

// RowVerdict classifies one report row against the Wp tolerance.
type RowVerdict struct {
	Index   int     `json:"index"`
	Start   float64 `json:"start"`
	Stop    float64 `json:"stop"`
	Verdict string  `json:"verdict"`
}

// SummarizeReport aggregates report rows. Rows with a non-finite US or Wp are
// counted as degenerate and left out of the averages.
func SummarizeReport(rows []ReportRow, tolerancePct float64) ReportSummary {
	s := ReportSummary{
		IntervalCount: len(rows),
		TolerancePct:  tolerancePct,
		WorstInterval: -1,
	}
	if len(rows) == 0 {
		s.Label = "no intervals"
		return s
	}

	var usVals, wpVals []float64
	for i, r := range rows {
		s.TotalCounts += r.Counts
		if isFinite(r.Length) {
			s.TotalLength += r.Length
		}
		v := RowVerdict{Index: i + 1, Start: r.Start, Stop: r.Stop}
		switch {
		case !isFinite(r.US) || !isFinite(r.Wp):
			v.Verdict = VerdictDegenerate
			s.Degenerate++
		case math.Abs(r.Wp) <= tolerancePct:
			v.Verdict = VerdictWithin
			s.WithinTolerance++
		default:
			v.Verdict = VerdictExceeds
		}
		if v.Verdict != VerdictDegenerate {
			usVals = append(usVals, r.US)
			abs := math.Abs(r.Wp)
			wpVals = append(wpVals, abs)
			if s.WorstInterval < 0 || abs > s.MaxAbsWpPct {
				s.MaxAbsWpPct = abs
				s.WorstInterval = i + 1
			}
		}
		s.Rows = append(s.Rows, v)
	}
	s.TotalLength = round3(s.TotalLength)
	if len(usVals) > 0 {
		s.MeanUS = round3(nanMean(usVals))
		s.MeanAbsWpPct = round3(nanMean(wpVals))
	}
	s.Label = summaryLabel(s)
	return s
}

func summaryLabel(s ReportSummary) string {
	parts := make([]string, 0, 3)
	parts = append(parts, fmt.Sprintf("%d interval(s), %s stable", s.IntervalCount, shortDuration(s.TotalCounts)))
	if valid := s.IntervalCount - s.Degenerate; valid > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d within ±%.1f%% Wp", s.WithinTolerance, valid, s.TolerancePct))
	}
	if s.Degenerate > 0 {
		parts = append(parts, fmt.Sprintf("%d degenerate", s.Degenerate))
	}
	return strings.Join(parts, ", ")
}

func shortDuration(seconds float64) string {
	s := int(math.Round(seconds))
	if s <= 0 {
		return "0s"
	}
	if s%60 == 0 {
		return fmt.Sprintf("%dm", s/60)
	}
	if s < 60 {
		return fmt.Sprintf("%ds", s)
	}
	return fmt.Sprintf("%dm%02ds", s/60, s%60)
}
