package flightcalc

import (
	"errors"
	"fmt"
)

// ErrNotTransformed is returned by Session.BuildReport before Transform succeeded.
var ErrNotTransformed = errors.New("session table has not been transformed")

// Session is one calculation request. It works on its own copy of the raw
// table, so the caller's load can be recalculated with other coefficients.
// A Session is not safe for concurrent use.
type Session struct {
	table       *SampleTable
	transformed bool
}

// NewSession clones raw and returns a session over the copy.
func NewSession(raw *SampleTable) *Session {
	return &Session{table: raw.Clone()}
}

// Table returns the session's table, including any derived channels.
func (s *Session) Table() *SampleTable {
	return s.table
}

// Transform derives the velocity channels.
func (s *Session) Transform(diss DissCoefficients, angles AngleCorrections, plane PlaneProfile) error {
	if err := Transform(s.table, diss, angles, plane); err != nil {
		return fmt.Errorf("transform: %w", err)
	}
	s.transformed = true
	return nil
}

// DetectIntervals runs automatic interval detection on the session table.
func (s *Session) DetectIntervals(th Thresholds) (*Detection, error) {
	d, err := TraceIntervals(s.table, th)
	if err != nil {
		return nil, fmt.Errorf("detect intervals: %w", err)
	}
	return d, nil
}

// BuildReport aggregates the given intervals. Transform must have run.
func (s *Session) BuildReport(intervals []Interval) (*Report, error) {
	if !s.transformed {
		return nil, fmt.Errorf("build report: %w", ErrNotTransformed)
	}
	rep, err := BuildReport(s.table, intervals)
	if err != nil {
		return nil, fmt.Errorf("build report: %w", err)
	}
	return rep, nil
}
