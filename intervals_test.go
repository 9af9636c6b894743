package flightcalc

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectIntervalsLevelFlight(t *testing.T) {
	tbl := levelFlight(t, 1000)
	got, err := DetectIntervals(tbl, DefaultThresholds())
	require.NoError(t, err)
	if diff := cmp.Diff([]Interval{{Start: 15, Stop: 994}}, got); diff != "" {
		t.Fatalf("intervals mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectIntervalsSplitByLowAltitude(t *testing.T) {
	tbl := levelFlight(t, 1000)
	setValues(t, tbl, JVDH, 500, 510, 100)

	d, err := TraceIntervals(tbl, DefaultThresholds())
	require.NoError(t, err)

	// The altitude mean needs a clean 25-sample window after the dip.
	want := []Interval{{Start: 15, Stop: 494}, {Start: 550, Stop: 994}}
	if diff := cmp.Diff(want, d.Intervals); diff != "" {
		t.Fatalf("intervals mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, d.Runs[CriterionRoll], 2)
	assert.Len(t, d.Runs[CriterionAltitude], 2)
	assert.Equal(t, 535.0, d.Runs[CriterionAltitude][1].Start)
}

func TestDetectIntervalsIgnoresPitchRuns(t *testing.T) {
	tbl := levelFlight(t, 1000)
	setValues(t, tbl, I1Tang, 0, 1000, 10)

	d, err := TraceIntervals(tbl, DefaultThresholds())
	require.NoError(t, err)
	assert.Empty(t, d.Runs[CriterionPitch])
	if diff := cmp.Diff([]Interval{{Start: 15, Stop: 994}}, d.Intervals); diff != "" {
		t.Fatalf("intervals mismatch (-want +got):\n%s", diff)
	}
}

func TestDetectIntervalsShortRun(t *testing.T) {
	tbl := levelFlight(t, 300)
	got, err := DetectIntervals(tbl, DefaultThresholds())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDetectIntervalsDriftStep(t *testing.T) {
	tbl := levelFlight(t, 2000)
	setValues(t, tbl, DISWx, 1000, 2000, 400)

	d, err := TraceIntervals(tbl, DefaultThresholds())
	require.NoError(t, err)
	require.NotEmpty(t, d.Intervals)
	for _, iv := range d.Intervals {
		assert.False(t, iv.Start <= 999 && 999 <= iv.Stop, "interval %v spans the step", iv)
	}
	assert.GreaterOrEqual(t, len(d.Runs[CriterionDrift]), 2)
}

func TestDetectedIntervalsAreLongEnough(t *testing.T) {
	tbl := levelFlight(t, 3000)
	setValues(t, tbl, I1Kren, 700, 705, 2.5)
	setValues(t, tbl, JVDH, 1500, 1502, 200)
	setValues(t, tbl, I1Kren, 2600, 2601, 2.9)

	got, err := DetectIntervals(tbl, DefaultThresholds())
	require.NoError(t, err)
	require.NotEmpty(t, got)
	for _, iv := range got {
		if iv.Stop-iv.Start < MinRunSamples-1-StartTrim-StopTrim {
			t.Fatalf("interval %v shorter than the minimum run", iv)
		}
	}
}

func TestDetectIntervalsWithoutAltitude(t *testing.T) {
	tbl := withoutChannel(t, levelFlight(t, 1000), JVDH)
	_, err := DetectIntervals(tbl, DefaultThresholds())
	assert.True(t, errors.Is(err, ErrNoAltitude), "err = %v", err)
}

func TestDetectIntervalsMissingInput(t *testing.T) {
	tbl := withoutChannel(t, levelFlight(t, 1000), I1Kren)
	_, err := DetectIntervals(tbl, DefaultThresholds())
	var missing *MissingChannelError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []Channel{I1Kren}, missing.Missing)
}

func TestDetectIntervalsUsesWholeSeconds(t *testing.T) {
	const n = 2000
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i) * 0.5
	}
	src := levelFlight(t, n)
	tbl := NewSampleTable(times)
	for _, c := range src.Channels() {
		v, _ := src.Column(c)
		require.NoError(t, tbl.Set(c, v))
	}

	d, err := TraceIntervals(tbl, DefaultThresholds())
	require.NoError(t, err)
	assert.Len(t, d.Signals.Time, n/2)
	if diff := cmp.Diff([]Interval{{Start: 15, Stop: 994}}, d.Intervals); diff != "" {
		t.Fatalf("intervals mismatch (-want +got):\n%s", diff)
	}
}
