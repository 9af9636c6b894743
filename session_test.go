package flightcalc

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionReportNeedsTransform(t *testing.T) {
	s := NewSession(levelFlight(t, 1000))

	_, err := s.BuildReport([]Interval{{Start: 15, Stop: 994}})
	assert.True(t, errors.Is(err, ErrNotTransformed), "err = %v", err)

	require.NoError(t, s.Transform(UnitDissCoefficients(), AngleCorrections{}, unitPlane()))
	rep, err := s.BuildReport([]Interval{{Start: 15, Stop: 994}})
	require.NoError(t, err)
	require.Len(t, rep.Rows, 1)
	assert.Equal(t, 979.0, rep.Rows[0].Counts)
}

func TestSessionFailedTransformBlocksReport(t *testing.T) {
	s := NewSession(withoutChannel(t, levelFlight(t, 10), JVDVN))

	require.Error(t, s.Transform(UnitDissCoefficients(), AngleCorrections{}, unitPlane()))
	_, err := s.BuildReport(nil)
	assert.True(t, errors.Is(err, ErrNotTransformed), "err = %v", err)
}

func TestSessionKeepsRawTable(t *testing.T) {
	raw := levelFlight(t, 10)
	s := NewSession(raw)
	require.NoError(t, s.Transform(UnitDissCoefficients(), AngleCorrections{}, unitPlane()))

	assert.True(t, s.Table().Has(WpKBTI))
	assert.False(t, raw.Has(WpKBTI))
}
