package flightcalc

import (
	"errors"
	"math"
)

const (
	// MinRunSamples is the shortest stable stretch kept while merging criteria.
	MinRunSamples = 310
	// StartTrim and StopTrim cut transients off each detected interval.
	StartTrim = 15
	StopTrim  = 5

	attitudeWindow = 5
	altitudeWindow = 25
)

// ErrNoAltitude is returned when automatic detection is asked for a table
// without the JVD_H channel.
var ErrNoAltitude = errors.New("altitude channel JVD_H is required for interval detection")

// Interval is an inclusive [Start, Stop] range of table time.
type Interval struct {
	Start float64 `json:"start"`
	Stop  float64 `json:"stop"`
}

// AngleThreshold bounds an attitude angle: deviation from its 5-sample mean and the angle itself.
type AngleThreshold struct {
	MaxDeviation float64 `json:"max_deviation"`
	MaxAngle     float64 `json:"max_angle"`
}

// AltitudeThreshold bounds deviation from the 25-sample altitude mean and
// sets the minimum altitude for every criterion.
type AltitudeThreshold struct {
	MaxDeviation float64 `json:"max_deviation"`
	MinAltitude  float64 `json:"min_altitude"`
}

// DriftThreshold bounds |1 - baseline/instant| of DIS_Wx.
type DriftThreshold struct {
	MaxRatioDeviation float64 `json:"max_ratio_deviation"`
	MinWx             float64 `json:"min_wx"`
	BaselineWindow    int     `json:"baseline_window"`
	InstantWindow     int     `json:"instant_window"`
}

// Thresholds is the interval detection configuration.
type Thresholds struct {
	Tang AngleThreshold    `json:"tang"`
	Kren AngleThreshold    `json:"kren"`
	H    AltitudeThreshold `json:"h"`
	Wx   DriftThreshold    `json:"wx"`
}

// Criterion names one stability test.
type Criterion string

const (
	CriterionPitch    Criterion = "pitch"
	CriterionRoll     Criterion = "roll"
	CriterionAltitude Criterion = "altitude"
	CriterionDrift    Criterion = "drift"
)

// Run is a maximal stretch of consecutive 1 Hz samples passing one criterion.
type Run struct {
	Start   float64 `json:"start"`
	Stop    float64 `json:"stop"`
	Samples int     `json:"samples"`

	lo, hi int
}

// Detection holds the detector output together with every criterion's runs.
type Detection struct {
	Intervals []Interval          `json:"intervals"`
	Runs      map[Criterion][]Run `json:"runs"`
	Merged    []Run               `json:"merged"`
	Signals   *StabilitySignals   `json:"-"`
}

// StabilitySignals are the per-row quantities the criteria are evaluated on,
// aligned with the 1 Hz view of the table.
type StabilitySignals struct {
	Time     []float64
	Pitch    []float64
	Roll     []float64
	Altitude []float64
	Wx       []float64

	TangMean5 []float64
	KrenMean5 []float64
	HMean25   []float64
	WxMeanB   []float64
	WxMeanI   []float64

	TangRaz []float64
	KrenRaz []float64
	HRaz    []float64
	WxRazB  []float64
}

// DetectIntervals finds the stable flight intervals of a table.
func DetectIntervals(t *SampleTable, th Thresholds) ([]Interval, error) {
	d, err := TraceIntervals(t, th)
	if err != nil {
		return nil, err
	}
	return d.Intervals, nil
}

// TraceIntervals runs the detector and keeps its intermediate results.
func TraceIntervals(t *SampleTable, th Thresholds) (*Detection, error) {
	if _, ok := t.Altitude(); !ok {
		return nil, ErrNoAltitude
	}
	if err := t.Require(I1Tang, I1Kren, DISWx); err != nil {
		return nil, err
	}

	sig := computeSignals(t, th)
	minAlt := th.H.MinAltitude

	pitch := collectRuns(sig, func(i int) bool {
		return sig.TangRaz[i] < th.Tang.MaxDeviation && sig.Pitch[i] < th.Tang.MaxAngle && sig.Altitude[i] > minAlt
	})
	roll := collectRuns(sig, func(i int) bool {
		return sig.KrenRaz[i] < th.Kren.MaxDeviation && sig.Roll[i] < th.Kren.MaxAngle && sig.Altitude[i] > minAlt
	})
	alt := collectRuns(sig, func(i int) bool {
		return sig.HRaz[i] < th.H.MaxDeviation && sig.Altitude[i] > minAlt
	})
	drift := collectRuns(sig, func(i int) bool {
		return sig.WxRazB[i] < th.Wx.MaxRatioDeviation && sig.Wx[i] > th.Wx.MinWx && sig.Altitude[i] > minAlt
	})

	// Pitch runs are reported but take no part in the merge.
	merged := mergeRuns(sig, roll, alt, drift)

	d := &Detection{
		Runs: map[Criterion][]Run{
			CriterionPitch:    pitch,
			CriterionRoll:     roll,
			CriterionAltitude: alt,
			CriterionDrift:    drift,
		},
		Signals:   sig,
		Merged:    merged,
		Intervals: make([]Interval, 0, len(merged)),
	}
	for _, r := range merged {
		d.Intervals = append(d.Intervals, Interval{Start: r.Start + StartTrim, Stop: r.Stop - StopTrim})
	}
	return d, nil
}

// wholeSecondRows returns the rows whose time falls on a whole second.
func wholeSecondRows(t *SampleTable) []int {
	idx := make([]int, 0, t.Len())
	for i, ts := range t.Time() {
		if math.Mod(ts, 1) == 0 {
			idx = append(idx, i)
		}
	}
	return idx
}

func pick(values []float64, idx []int) []float64 {
	out := make([]float64, len(idx))
	for i, j := range idx {
		out[i] = values[j]
	}
	return out
}

func computeSignals(t *SampleTable, th Thresholds) *StabilitySignals {
	idx := wholeSecondRows(t)
	tang, _ := t.Column(I1Tang)
	kren, _ := t.Column(I1Kren)
	alt, _ := t.Altitude()
	wx, _ := t.Column(DISWx)

	s := &StabilitySignals{
		Time:     pick(t.Time(), idx),
		Pitch:    pick(tang, idx),
		Roll:     pick(kren, idx),
		Altitude: pick(alt, idx),
		Wx:       pick(wx, idx),
	}
	s.TangMean5 = backFill(trailingMean(s.Pitch, attitudeWindow))
	s.KrenMean5 = backFill(trailingMean(s.Roll, attitudeWindow))
	s.HMean25 = backFill(trailingMean(s.Altitude, altitudeWindow))
	s.WxMeanB = backFill(trailingMean(s.Wx, th.Wx.BaselineWindow))
	// The look-ahead mean has no complete window at the tail; hold the last value there.
	s.WxMeanI = forwardFill(backFill(leadingMean(s.Wx, th.Wx.InstantWindow)))

	n := len(idx)
	s.TangRaz = make([]float64, n)
	s.KrenRaz = make([]float64, n)
	s.HRaz = make([]float64, n)
	s.WxRazB = make([]float64, n)
	for i := 0; i < n; i++ {
		s.TangRaz[i] = math.Abs(s.Pitch[i] - s.TangMean5[i])
		s.KrenRaz[i] = math.Abs(s.Roll[i] - s.KrenMean5[i])
		s.HRaz[i] = math.Abs(s.Altitude[i] - s.HMean25[i])
		s.WxRazB[i] = math.Abs(1 - s.WxMeanB[i]/s.WxMeanI[i])
	}
	return s
}

// collectRuns splits the 1 Hz rows into maximal stretches passing ok.
func collectRuns(sig *StabilitySignals, ok func(i int) bool) []Run {
	var runs []Run
	start := -1
	for i := range sig.Time {
		if ok(i) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			runs = append(runs, newRun(sig, start, i-1))
			start = -1
		}
	}
	if start >= 0 {
		runs = append(runs, newRun(sig, start, len(sig.Time)-1))
	}
	return runs
}

func newRun(sig *StabilitySignals, lo, hi int) Run {
	return Run{
		Start:   sig.Time[lo],
		Stop:    sig.Time[hi],
		Samples: hi - lo + 1,
		lo:      lo,
		hi:      hi,
	}
}

// mergeRuns keeps the long runs of the first criterion and narrows them by
// each following criterion. Runs are contiguous, so the common samples of two
// runs are again one run.
func mergeRuns(sig *StabilitySignals, first []Run, rest ...[]Run) []Run {
	candidates := make([]Run, 0, len(first))
	for _, r := range first {
		if r.Samples >= MinRunSamples {
			candidates = append(candidates, r)
		}
	}
	for _, crit := range rest {
		next := make([]Run, 0, len(candidates))
		for _, c := range candidates {
			for _, r := range crit {
				lo, hi := max(c.lo, r.lo), min(c.hi, r.hi)
				if hi-lo+1 >= MinRunSamples {
					next = append(next, newRun(sig, lo, hi))
				}
			}
		}
		candidates = next
	}
	return candidates
}
