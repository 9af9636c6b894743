package flightcalc

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChannelByName(t *testing.T) {
	tests := []struct {
		name string
		want Channel
		ok   bool
	}{
		{name: "DIS_Wx", want: DISWx, ok: true},
		{name: " jvd_h ", want: JVDH, ok: true},
		{name: "WP_KBTII", want: WpKBTI, ok: true},
		{name: "Wp_diss_pnki", want: WpDissPNK, ok: true},
		{name: "speed", ok: false},
	}
	for _, tc := range tests {
		got, ok := ChannelByName(tc.name)
		if ok != tc.ok {
			t.Fatalf("ChannelByName(%q) ok = %v, want %v", tc.name, ok, tc.ok)
		}
		if ok && got != tc.want {
			t.Fatalf("ChannelByName(%q) = %s, want %s", tc.name, got, tc.want)
		}
	}
}

func TestChannelSets(t *testing.T) {
	assert.Len(t, AllChannels(), len(RequiredRawChannels)+1+len(DerivedChannels))
	for _, c := range RequiredRawChannels {
		assert.False(t, c.IsDerived(), c.String())
	}
	assert.False(t, JVDH.IsDerived())
	for _, c := range DerivedChannels {
		assert.True(t, c.IsDerived(), c.String())
	}
	assert.Equal(t, "Channel(99)", Channel(99).String())
}

func TestSampleTableSet(t *testing.T) {
	tbl := NewSampleTable([]float64{0, 1, 2})
	err := tbl.Set(DISWx, []float64{1, 2})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLengthMismatch))
	assert.False(t, tbl.Has(DISWx))

	require.Error(t, tbl.Set(Channel(-1), []float64{1, 2, 3}))

	require.NoError(t, tbl.Set(JVDH, []float64{5, 6, 7}))
	alt, ok := tbl.Altitude()
	require.True(t, ok)
	assert.Equal(t, []float64{5, 6, 7}, alt)
	assert.Equal(t, []Channel{JVDH}, tbl.Channels())
}

func TestSampleTableValidateTime(t *testing.T) {
	tests := []struct {
		name string
		time []float64
		ok   bool
	}{
		{name: "ascending", time: []float64{0, 0.5, 1, 2}, ok: true},
		{name: "empty", time: nil, ok: true},
		{name: "duplicate", time: []float64{0, 1, 1, 2}},
		{name: "descending", time: []float64{0, 2, 1}},
		{name: "nan", time: []float64{0, math.NaN(), 2}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := NewSampleTable(tc.time).ValidateTime()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrTimeNotSorted), "err = %v", err)
		})
	}
}

func TestSampleTableIndexOfTime(t *testing.T) {
	tbl := NewSampleTable([]float64{0, 0.5, 1, 1.5, 2})
	i, ok := tbl.IndexOfTime(1.5)
	assert.True(t, ok)
	assert.Equal(t, 3, i)

	_, ok = tbl.IndexOfTime(1.25)
	assert.False(t, ok)
	_, ok = tbl.IndexOfTime(7)
	assert.False(t, ok)
}

func TestSampleTableCloneIsDeep(t *testing.T) {
	tbl := levelFlight(t, 5)
	cp := tbl.Clone()
	setValues(t, cp, DISWx, 0, 5, -1)

	orig, _ := tbl.Column(DISWx)
	assert.Equal(t, 360.0, orig[0])
	assert.Equal(t, tbl.Channels(), cp.Channels())
}

func TestRequireListsEveryMissingChannel(t *testing.T) {
	tbl := NewSampleTable([]float64{0})
	err := tbl.Require(DISWx, JVDH)
	var missing *MissingChannelError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []Channel{DISWx, JVDH}, missing.Missing)
	assert.Equal(t, "missing required channels: DIS_Wx, JVD_H", err.Error())
}
