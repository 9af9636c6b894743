package chart

import (
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flightcalc "github.com/lucasjlepore/flight-analyzer"
)

func speedTable(t *testing.T, n int, fill func(i int) (float64, float64)) *flightcalc.SampleTable {
	t.Helper()
	times := make([]float64, n)
	kbti := make([]float64, n)
	diss := make([]float64, n)
	for i := range times {
		times[i] = float64(i)
		kbti[i], diss[i] = fill(i)
	}
	tbl := flightcalc.NewSampleTable(times)
	require.NoError(t, tbl.Set(flightcalc.WpKBTI, kbti))
	require.NoError(t, tbl.Set(flightcalc.WpDissPNK, diss))
	return tbl
}

func TestSaveSpeedsWritesPNG(t *testing.T) {
	tbl := speedTable(t, 600, func(i int) (float64, float64) {
		if i%50 == 0 {
			return math.NaN(), 361
		}
		return 360 + math.Sin(float64(i)/20), 361
	})
	path := filepath.Join(t.TempDir(), "speeds.png")

	err := SaveSpeeds(path, tbl, []flightcalc.Interval{{Start: 100, Stop: 450}}, "test flight")
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG")), "not a PNG file")
}

func TestSpeedsPlotErrors(t *testing.T) {
	_, err := SpeedsPlot(flightcalc.NewSampleTable([]float64{0}), nil, "")
	var missing *flightcalc.MissingChannelError
	assert.True(t, errors.As(err, &missing))

	nan := speedTable(t, 3, func(int) (float64, float64) { return math.NaN(), math.NaN() })
	_, err = SpeedsPlot(nan, nil, "")
	assert.True(t, errors.Is(err, ErrNoData))
}

func TestSeriesDecimates(t *testing.T) {
	n := 3*MaxPoints + 7
	time := make([]float64, n)
	values := make([]float64, n)
	for i := range time {
		time[i] = float64(i)
	}
	pts := series(time, values)
	assert.LessOrEqual(t, len(pts), MaxPoints)
	assert.Equal(t, 0.0, pts[0].X)
}
