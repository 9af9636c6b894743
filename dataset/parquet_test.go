package dataset

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flightcalc "github.com/lucasjlepore/flight-analyzer"
)

func sampleTable(t *testing.T) *flightcalc.SampleTable {
	t.Helper()
	tbl := flightcalc.NewSampleTable([]float64{0, 0.5, 1, 1.5})
	require.NoError(t, tbl.Set(flightcalc.DISWx, []float64{360, math.NaN(), 361, 362}))
	require.NoError(t, tbl.Set(flightcalc.JVDH, []float64{1000, 1001, 1002, 1003}))
	require.NoError(t, tbl.Set(flightcalc.WpKBTI, []float64{1, 2, 3, math.NaN()}))
	return tbl
}

func assertSameTable(t *testing.T, want, got *flightcalc.SampleTable) {
	t.Helper()
	assert.Equal(t, want.Time(), got.Time())
	assert.Equal(t, want.Channels(), got.Channels())
	for _, c := range want.Channels() {
		w, _ := want.Column(c)
		g, _ := got.Column(c)
		if diff := cmp.Diff(w, g, cmpopts.EquateNaNs()); diff != "" {
			t.Fatalf("%s mismatch (-want +got):\n%s", c, diff)
		}
	}
}

func TestParquetRoundTripFile(t *testing.T) {
	want := sampleTable(t)
	path := filepath.Join(t.TempDir(), "table.parquet")
	require.NoError(t, WriteParquet(path, want))

	got, err := ReadParquet(path)
	require.NoError(t, err)
	assertSameTable(t, want, got)
	assert.False(t, got.Has(flightcalc.DISWy))
}

func TestParquetRoundTripBytes(t *testing.T) {
	want := sampleTable(t)
	data, err := MarshalParquet(want)
	require.NoError(t, err)
	require.Equal(t, "PAR1", string(data[:4]))

	got, err := UnmarshalParquet(data)
	require.NoError(t, err)
	assertSameTable(t, want, got)
}

func TestParquetSlotsCoverEveryChannel(t *testing.T) {
	var row tableRow
	assert.Len(t, row.slots(), len(flightcalc.AllChannels()))
}
