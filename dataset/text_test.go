package dataset

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	flightcalc "github.com/lucasjlepore/flight-analyzer"
)

func column(t *testing.T, tbl *flightcalc.SampleTable, c flightcalc.Channel) []float64 {
	t.Helper()
	v, ok := tbl.Column(c)
	require.True(t, ok, "missing %s", c)
	return v
}

func TestParseTextDelimiters(t *testing.T) {
	tests := []struct {
		name  string
		input string
		delim string
	}{
		{name: "comma", input: "time,DIS_Wx,JVD_H\n0,1.5,100\n1,2.5,200\n", delim: ","},
		{name: "semicolon decimal comma", input: "time;DIS_Wx;JVD_H\n0;1,5;100\n1;2,5;200\n", delim: ";"},
		{name: "tab", input: "time\tDIS_Wx\tJVD_H\r\n0\t1.5\t100\r\n1\t2.5\t200\r\n", delim: "tab"},
		{name: "whitespace", input: "  time   DIS_Wx  JVD_H\n 0  1.5   100\n\n 1  2.5   200\n", delim: "whitespace"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			parsed, err := parseText([]byte(tc.input), LoadOptions{})
			require.NoError(t, err)
			assert.Equal(t, tc.delim, parsed.info.Delimiter)
			assert.Equal(t, []float64{0, 1}, parsed.table.Time())
			assert.Equal(t, []float64{1.5, 2.5}, column(t, parsed.table, flightcalc.DISWx))
			assert.Equal(t, []float64{100, 200}, column(t, parsed.table, flightcalc.JVDH))
			assert.Empty(t, parsed.warnings)
		})
	}
}

func TestParseTextMissingCellsAndUnknownColumns(t *testing.T) {
	input := "\xef\xbb\xbfTime,dis_wx,Speed,I1_Kren\n0,,7,1\n1,nan,8\n2,abc,9,3\n"
	parsed, err := parseText([]byte(input), LoadOptions{})
	require.NoError(t, err)

	want := []float64{math.NaN(), math.NaN(), math.NaN()}
	if diff := cmp.Diff(want, column(t, parsed.table, flightcalc.DISWx), cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("DIS_Wx mismatch (-want +got):\n%s", diff)
	}
	kren := column(t, parsed.table, flightcalc.I1Kren)
	assert.Equal(t, 1.0, kren[0])
	assert.True(t, math.IsNaN(kren[1]), "short row pads with NaN")
	assert.Equal(t, []string{"Speed"}, parsed.info.IgnoredColumns)
	require.Len(t, parsed.warnings, 1)
	assert.Contains(t, parsed.warnings[0], "1 unreadable cell")
}

func TestParseTextSortsAndDeduplicates(t *testing.T) {
	input := "time,DIS_Wx\n2,20\n0,0\n1,10\n1,11\nx,99\n"
	parsed, err := parseText([]byte(input), LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, []float64{0, 1, 2}, parsed.table.Time())
	assert.Equal(t, []float64{0, 10, 20}, column(t, parsed.table, flightcalc.DISWx))
	assert.Equal(t, 2, parsed.info.DroppedRows)
	joined := strings.Join(parsed.warnings, "\n")
	assert.Contains(t, joined, "sorted")
	assert.Contains(t, joined, "1 row(s) with a duplicate time")
	assert.Contains(t, joined, "1 row(s) without a numeric time")
	require.NoError(t, parsed.table.ValidateTime())
}

func TestParseTextRepeatedColumn(t *testing.T) {
	parsed, err := parseText([]byte("time,DIS_Wx,DIS_WX\n0,1,2\n"), LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, column(t, parsed.table, flightcalc.DISWx))
	require.Len(t, parsed.warnings, 1)
	assert.Contains(t, parsed.warnings[0], "repeated")
}

func TestParseTextCustomTimeColumn(t *testing.T) {
	parsed, err := parseText([]byte("t_sec,DIS_Wx\n5,1\n"), LoadOptions{TimeColumn: "T_SEC"})
	require.NoError(t, err)
	assert.Equal(t, []float64{5}, parsed.table.Time())
}

func TestParseTextErrors(t *testing.T) {
	_, err := parseText([]byte("\n  \n"), LoadOptions{})
	assert.True(t, errors.Is(err, ErrNoHeader), "err = %v", err)

	_, err = parseText([]byte("DIS_Wx,JVD_H\n1,2\n"), LoadOptions{})
	assert.True(t, errors.Is(err, ErrNoTimeColumn), "err = %v", err)
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		cell         string
		decimalComma bool
		want         float64
		ok           bool
	}{
		{cell: "1.25", want: 1.25, ok: true},
		{cell: " -3e2 ", want: -300, ok: true},
		{cell: "1,25", decimalComma: true, want: 1.25, ok: true},
		{cell: `"7"`, want: 7, ok: true},
		{cell: "NaN", want: math.NaN(), ok: true},
		{cell: "", want: math.NaN(), ok: true},
		{cell: "1,25", want: math.NaN(), ok: false},
		{cell: "abc", want: math.NaN(), ok: false},
	}
	for _, tc := range tests {
		got, ok := parseNumber(tc.cell, tc.decimalComma)
		if ok != tc.ok {
			t.Fatalf("parseNumber(%q) ok = %v, want %v", tc.cell, ok, tc.ok)
		}
		if math.IsNaN(tc.want) != math.IsNaN(got) || (!math.IsNaN(got) && got != tc.want) {
			t.Fatalf("parseNumber(%q) = %v, want %v", tc.cell, got, tc.want)
		}
	}
}
