package flightcalc

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// levelFlight builds n samples at 1 Hz of straight and level flight.
func levelFlight(t *testing.T, n int) *SampleTable {
	t.Helper()
	times := make([]float64, n)
	for i := range times {
		times[i] = float64(i)
	}
	tbl := NewSampleTable(times)
	constant := func(v float64) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = v
		}
		return out
	}
	require.NoError(t, tbl.Set(DISWx, constant(360)))
	require.NoError(t, tbl.Set(DISWy, constant(0)))
	require.NoError(t, tbl.Set(DISWz, constant(0)))
	require.NoError(t, tbl.Set(I1Kren, constant(0)))
	require.NoError(t, tbl.Set(I1Tang, constant(0)))
	require.NoError(t, tbl.Set(I1KursI, constant(0)))
	require.NoError(t, tbl.Set(JVDVN, constant(100)))
	require.NoError(t, tbl.Set(JVDVE, constant(0)))
	require.NoError(t, tbl.Set(JVDVh, constant(0)))
	require.NoError(t, tbl.Set(JVDH, constant(1000)))
	return tbl
}

// withoutChannel copies tbl, leaving out one channel.
func withoutChannel(t *testing.T, tbl *SampleTable, drop Channel) *SampleTable {
	t.Helper()
	out := NewSampleTable(append([]float64(nil), tbl.Time()...))
	for _, c := range tbl.Channels() {
		if c == drop {
			continue
		}
		v, _ := tbl.Column(c)
		require.NoError(t, out.Set(c, append([]float64(nil), v...)))
	}
	return out
}

func unitPlane() PlaneProfile {
	return PlaneProfile{Name: "unit", K: 1, K1: 1}
}

// setValues overwrites rows [from, to) of a channel with v.
func setValues(t *testing.T, tbl *SampleTable, c Channel, from, to int, v float64) {
	t.Helper()
	col, ok := tbl.Column(c)
	require.True(t, ok)
	for i := from; i < to; i++ {
		col[i] = v
	}
}
