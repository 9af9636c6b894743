package flightcalc

import (
	"errors"
	"fmt"
	"strings"
)

// Interval sources recorded on an Analysis.
const (
	SourceManual = "manual"
	SourceAuto   = "auto"
	SourceNone   = "none"
)

// DefaultTolerancePct is the |Wp| deviation a report row may show and still
// count as within tolerance.
const DefaultTolerancePct = 1.0

// Config carries the coefficients and thresholds for one calculation.
type Config struct {
	Diss       DissCoefficients
	Angles     AngleCorrections
	Plane      PlaneProfile
	Thresholds Thresholds

	// ManualIntervals is free-form "start-stop" text. Automatic detection
	// runs only when it is blank; text without any pair gives an empty report.
	ManualIntervals string

	TolerancePct float64
}

// DefaultThresholds returns the detector settings used when none are configured.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Tang: AngleThreshold{MaxDeviation: 0.3, MaxAngle: 5},
		Kren: AngleThreshold{MaxDeviation: 0.3, MaxAngle: 3},
		H:    AltitudeThreshold{MaxDeviation: 10, MinAltitude: 300},
		Wx:   DriftThreshold{MaxRatioDeviation: 0.01, MinWx: 100, BaselineWindow: 150, InstantWindow: 50},
	}
}

// Analysis is the outcome of one calculation run.
type Analysis struct {
	Plane          PlaneProfile  `json:"plane"`
	Samples        int           `json:"samples"`
	StartTime      float64       `json:"start_time"`
	EndTime        float64       `json:"end_time"`
	HasAltitude    bool          `json:"has_altitude"`
	IntervalSource string        `json:"interval_source"`
	Intervals      []Interval    `json:"intervals"`
	Detection      *Detection    `json:"detection,omitempty"`
	Report         *Report       `json:"report"`
	Summary        ReportSummary `json:"summary"`
	Warnings       []string      `json:"warnings,omitempty"`
	Notes          string        `json:"notes"`

	table *SampleTable
}

// Table returns the transformed table the analysis was computed on.
func (a *Analysis) Table() *SampleTable {
	return a.table
}

// Analyze transforms a copy of raw, picks the report intervals and builds the report.
func Analyze(raw *SampleTable, cfg Config) (*Analysis, error) {
	if raw == nil || raw.Len() == 0 {
		return nil, fmt.Errorf("sample table is empty")
	}
	if err := raw.ValidateTime(); err != nil {
		return nil, fmt.Errorf("validate table: %w", err)
	}

	session := NewSession(raw)
	if err := session.Transform(cfg.Diss, cfg.Angles, cfg.Plane); err != nil {
		return nil, err
	}

	times := raw.Time()
	_, hasAlt := raw.Altitude()
	analysis := &Analysis{
		Plane:          cfg.Plane,
		Samples:        raw.Len(),
		StartTime:      times[0],
		EndTime:        times[len(times)-1],
		HasAltitude:    hasAlt,
		IntervalSource: SourceNone,
		table:          session.Table(),
	}

	if strings.TrimSpace(cfg.ManualIntervals) != "" {
		manual := ParseIntervals(cfg.ManualIntervals)
		if len(manual) == 0 {
			analysis.Warnings = append(analysis.Warnings, "manual interval text held no start-stop pairs; report is empty")
		} else {
			analysis.IntervalSource = SourceManual
			analysis.Intervals = manual
		}
		for _, iv := range manual {
			if iv.Stop <= iv.Start {
				analysis.Warnings = append(analysis.Warnings, fmt.Sprintf("manual interval %.0f-%.0f is empty or reversed", iv.Start, iv.Stop))
			}
		}
	} else {
		detection, err := session.DetectIntervals(cfg.Thresholds)
		switch {
		case errors.Is(err, ErrNoAltitude):
			analysis.Warnings = append(analysis.Warnings, "no JVD_H channel: automatic interval detection disabled")
		case err != nil:
			return nil, err
		default:
			analysis.IntervalSource = SourceAuto
			analysis.Detection = detection
			analysis.Intervals = detection.Intervals
			if len(detection.Intervals) == 0 {
				analysis.Warnings = append(analysis.Warnings, "no stable flight interval found")
			}
		}
	}

	report, err := session.BuildReport(analysis.Intervals)
	if err != nil {
		return nil, err
	}
	analysis.Report = report

	tolerance := cfg.TolerancePct
	if tolerance <= 0 {
		tolerance = DefaultTolerancePct
	}
	analysis.Summary = SummarizeReport(report.Rows, tolerance)
	analysis.Notes = BuildFlightNotes(analysis)
	return analysis, nil
}
