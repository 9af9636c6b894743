package flightcalc

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func transformed(t *testing.T, tbl *SampleTable) *SampleTable {
	t.Helper()
	require.NoError(t, Transform(tbl, UnitDissCoefficients(), AngleCorrections{}, unitPlane()))
	return tbl
}

func TestBuildReportLevelFlight(t *testing.T) {
	tbl := transformed(t, levelFlight(t, 1000))

	rep, err := BuildReport(tbl, []Interval{{Start: 15, Stop: 994}})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)

	r := rep.Rows[0]
	assert.Equal(t, 979.0, r.Counts)
	assert.Equal(t, 1000.0, r.Height)
	assert.InDelta(t, 97.9, r.Length, 1e-9)
	assert.Zero(t, r.US)
	assert.Zero(t, r.Wp)
	assert.Zero(t, r.Wx)
	assert.Zero(t, r.Wz, "zero KBTI reference yields 0")
	assert.Zero(t, r.Wy)
	assert.Equal(t, 980, r.Means.Samples)
	assert.Len(t, r.Values(), len(ReportHeaders))
}

func TestBuildReportDeviation(t *testing.T) {
	tbl := levelFlight(t, 1000)
	setValues(t, tbl, DISWz, 0, 1000, 10)
	require.NoError(t, Transform(tbl, DissCoefficients{Wx: 1.01, Wy: 1, Wz: 1}, AngleCorrections{}, unitPlane()))

	rep, err := BuildReport(tbl, []Interval{{Start: 100, Stop: 400}})
	require.NoError(t, err)
	r := rep.Rows[0]

	wxDiss := 360 * 1.01
	wpDiss := math.Sqrt(wxDiss*wxDiss + 100)
	assert.InDelta(t, round3((wpDiss-360)/wpDiss*100), r.Wp, 1e-9)
	assert.InDelta(t, round3((wxDiss-360)/wxDiss*100), r.Wx, 1e-9)
	assert.Equal(t, 100.0, r.Wz)
	assert.InDelta(t, round3(radToDeg(math.Atan(10/wxDiss))), r.US, 1e-9)
	assert.Equal(t, 300.0, r.Counts)
}

func TestBuildReportEmptySelection(t *testing.T) {
	tbl := transformed(t, levelFlight(t, 100))

	rep, err := BuildReport(tbl, []Interval{{Start: 5000, Stop: 6000}, {Start: 50.5, Stop: 60}})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 2)

	empty := rep.Rows[0]
	assert.True(t, math.IsNaN(empty.US))
	assert.True(t, math.IsNaN(empty.Wp))
	assert.True(t, math.IsNaN(empty.Length))
	assert.Zero(t, empty.Height, "start not in table")
	assert.Equal(t, 1000.0, empty.Counts)

	off := rep.Rows[1]
	assert.Zero(t, off.Height, "start between samples")
	assert.Equal(t, 10, off.Means.Samples)
}

func TestBuildReportIgnoresNaNSamples(t *testing.T) {
	tbl := levelFlight(t, 100)
	setValues(t, tbl, DISWx, 10, 20, math.NaN())
	transformed(t, tbl)

	rep, err := BuildReport(tbl, []Interval{{Start: 0, Stop: 50}})
	require.NoError(t, err)
	assert.Zero(t, rep.Rows[0].Wp)
}

func TestBuildReportHeightWithoutAltitude(t *testing.T) {
	tbl := transformed(t, withoutChannel(t, levelFlight(t, 100), JVDH))
	rep, err := BuildReport(tbl, []Interval{{Start: 10, Stop: 20}})
	require.NoError(t, err)
	assert.Zero(t, rep.Rows[0].Height)
}

func TestBuildReportRequiresTransform(t *testing.T) {
	_, err := BuildReport(levelFlight(t, 10), []Interval{{Start: 0, Stop: 5}})
	var missing *MissingChannelError
	require.True(t, errors.As(err, &missing))
	assert.Len(t, missing.Missing, len(reportChannels))
}

func TestBuildReportKeepsOrder(t *testing.T) {
	tbl := transformed(t, levelFlight(t, 100))
	ivs := []Interval{{Start: 60, Stop: 70}, {Start: 10, Stop: 20}, {Start: 60, Stop: 70}}
	rep, err := BuildReport(tbl, ivs)
	require.NoError(t, err)
	require.Len(t, rep.Rows, 3)
	for i, iv := range ivs {
		assert.Equal(t, iv.Start, rep.Rows[i].Start)
		assert.Equal(t, iv.Stop, rep.Rows[i].Stop)
	}
}

func TestPercent(t *testing.T) {
	assert.Zero(t, Percent(0, 5))
	assert.Equal(t, 5.0, Percent(200, 190))
	assert.Equal(t, -10.0, Percent(100, 110))
	assert.True(t, math.IsNaN(Percent(math.NaN(), 1)))
}

func TestReportRowJSONNullsNaN(t *testing.T) {
	row := ReportRow{Length: math.NaN(), Height: 1000, Start: 1, Stop: 2, Counts: 1, US: math.NaN(), Wp: 0.5, Wx: math.Inf(1)}
	data, err := json.Marshal(row)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"length":null`)
	assert.Contains(t, string(data), `"Wx":null`)
	assert.Contains(t, string(data), `"JVD_H":1000`)

	var back ReportRow
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, math.IsNaN(back.Length))
	assert.True(t, math.IsNaN(back.Wx))
	assert.Equal(t, 0.5, back.Wp)
	assert.Equal(t, 1000.0, back.Height)
}
