package flightcalc

import (
	"fmt"
	"math"
	"strings"
)

// BuildFlightNotes turns an analysis into a plain-text summary.
func BuildFlightNotes(a *Analysis) string {
	if a == nil {
		return ""
	}

	var b strings.Builder

	plane := a.Plane.Name
	if plane == "" {
		plane = "unnamed"
	}
	fmt.Fprintf(&b, "Plane: %s (k %.4g, k1 %.4g)\n", plane, a.Plane.K, a.Plane.K1)
	fmt.Fprintf(
		&b,
		"Samples %d | Time %.0f..%.0f s (%s) | Altitude %s\n",
		a.Samples,
		a.StartTime,
		a.EndTime,
		formatDuration(a.EndTime-a.StartTime),
		presence(a.HasAltitude),
	)

	b.WriteString("\nIntervals\n")
	switch a.IntervalSource {
	case SourceManual:
		fmt.Fprintf(&b, "- %d manual interval(s)\n", len(a.Intervals))
	case SourceAuto:
		fmt.Fprintf(&b, "- %d detected interval(s)\n", len(a.Intervals))
		if a.Detection != nil {
			fmt.Fprintf(
				&b,
				"- stable runs: pitch %d, roll %d, altitude %d, drift %d (pitch is not merged)\n",
				len(a.Detection.Runs[CriterionPitch]),
				len(a.Detection.Runs[CriterionRoll]),
				len(a.Detection.Runs[CriterionAltitude]),
				len(a.Detection.Runs[CriterionDrift]),
			)
		}
	default:
		b.WriteString("- none\n")
	}

	if a.Report != nil && len(a.Report.Rows) > 0 {
		b.WriteString("\nReport\n")
		for i, r := range a.Report.Rows {
			fmt.Fprintf(
				&b,
				"- #%d %.0f-%.0f (%s) H %.0f | US %s° | Wp %s%% Wx %s%% Wz %s%% Wy %s%%\n",
				i+1,
				r.Start,
				r.Stop,
				formatDuration(r.Counts),
				r.Height,
				cell(r.US),
				cell(r.Wp),
				cell(r.Wx),
				cell(r.Wz),
				cell(r.Wy),
			)
		}
		fmt.Fprintf(&b, "- Summary: %s\n", a.Summary.Label)
		if a.Summary.WorstInterval > 0 {
			fmt.Fprintf(&b, "- Largest |Wp| deviation: %.3f%% in interval #%d\n", a.Summary.MaxAbsWpPct, a.Summary.WorstInterval)
		}
	}

	if len(a.Warnings) > 0 {
		b.WriteString("\nWarnings\n")
		for _, w := range a.Warnings {
			fmt.Fprintf(&b, "- %s\n", w)
		}
	}

	return strings.TrimSpace(b.String())
}

func presence(ok bool) string {
	if ok {
		return "present"
	}
	return "absent"
}

func cell(v float64) string {
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%+.3f", v)
}

func formatDuration(seconds float64) string {
	if seconds <= 0 || !isFinite(seconds) {
		return "0s"
	}
	s := int(math.Round(seconds))
	h := s / 3600
	m := (s % 3600) / 60
	sec := s % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, sec)
	}
	if m > 0 {
		return fmt.Sprintf("%dm%02ds", m, sec)
	}
	return fmt.Sprintf("%ds", sec)
}
