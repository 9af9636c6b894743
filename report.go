package flightcalc

import (
	"encoding/json"
	"math"
)

// ReportHeaders are the report column names, in row order.
var ReportHeaders = []string{"length", "JVD_H", "start", "stop", "counts", "US", "Wp", "Wx", "Wz", "Wy"}

// IntervalMeans are the NaN-ignoring means of the compared channels over one interval.
type IntervalMeans struct {
	WxcKBTI   float64 `json:"wxc_kbti"`
	WzcKBTI   float64 `json:"wzc_kbti"`
	WycKBTI   float64 `json:"wyc_kbti"`
	WpKBTI    float64 `json:"wp_kbti"`
	WxDissPNK float64 `json:"wx_diss_pnk"`
	WzDissPNK float64 `json:"wz_diss_pnk"`
	WyDissPNK float64 `json:"wy_diss_pnk"`
	WpDissPNK float64 `json:"wp_diss_pnk"`
	Samples   int     `json:"samples"`
}

// ReportRow is one line of the interval report.
type ReportRow struct {
	Length float64 `json:"length"`
	Height float64 `json:"JVD_H"`
	Start  float64 `json:"start"`
	Stop   float64 `json:"stop"`
	Counts float64 `json:"counts"`
	US     float64 `json:"US"`
	Wp     float64 `json:"Wp"`
	Wx     float64 `json:"Wx"`
	Wz     float64 `json:"Wz"`
	Wy     float64 `json:"Wy"`

	USKBTI float64       `json:"-"`
	USPNK  float64       `json:"-"`
	Means  IntervalMeans `json:"-"`
}

// Values returns the row cells in ReportHeaders order.
func (r ReportRow) Values() []float64 {
	return []float64{r.Length, r.Height, r.Start, r.Stop, r.Counts, r.US, r.Wp, r.Wx, r.Wz, r.Wy}
}

// MarshalJSON writes non-finite cells as null; encoding/json rejects NaN.
func (r ReportRow) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Length *float64 `json:"length"`
		Height *float64 `json:"JVD_H"`
		Start  *float64 `json:"start"`
		Stop   *float64 `json:"stop"`
		Counts *float64 `json:"counts"`
		US     *float64 `json:"US"`
		Wp     *float64 `json:"Wp"`
		Wx     *float64 `json:"Wx"`
		Wz     *float64 `json:"Wz"`
		Wy     *float64 `json:"Wy"`
	}{
		finitePtr(r.Length), finitePtr(r.Height), finitePtr(r.Start), finitePtr(r.Stop), finitePtr(r.Counts),
		finitePtr(r.US), finitePtr(r.Wp), finitePtr(r.Wx), finitePtr(r.Wz), finitePtr(r.Wy),
	})
}

// UnmarshalJSON reads null cells back as NaN.
func (r *ReportRow) UnmarshalJSON(data []byte) error {
	var raw map[string]*float64
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	get := func(key string) float64 {
		if v := raw[key]; v != nil {
			return *v
		}
		return math.NaN()
	}
	*r = ReportRow{
		Length: get("length"),
		Height: get("JVD_H"),
		Start:  get("start"),
		Stop:   get("stop"),
		Counts: get("counts"),
		US:     get("US"),
		Wp:     get("Wp"),
		Wx:     get("Wx"),
		Wz:     get("Wz"),
		Wy:     get("Wy"),
	}
	return nil
}

func finitePtr(v float64) *float64 {
	if !isFinite(v) {
		return nil
	}
	return &v
}

// Report is the per-interval comparison table.
type Report struct {
	Rows []ReportRow `json:"rows"`
}

// reportChannels must be present before a report can be built.
var reportChannels = []Channel{WxcKBTI, WzcKBTI, WycKBTI, WpKBTI, WxDissPNK, WzDissPNK, WyDissPNK, WpDissPNK}

// BuildReport produces one row per interval, in the given order.
func BuildReport(t *SampleTable, intervals []Interval) (*Report, error) {
	if err := t.Require(reportChannels...); err != nil {
		return nil, err
	}
	rep := &Report{Rows: make([]ReportRow, 0, len(intervals))}
	for _, iv := range intervals {
		rep.Rows = append(rep.Rows, BuildRow(t, iv))
	}
	return rep, nil
}

// ComputeIntervalMeans averages the compared channels over start <= time <= stop.
// An empty selection yields NaN means.
func ComputeIntervalMeans(t *SampleTable, iv Interval) IntervalMeans {
	lo, hi := selectRows(t.Time(), iv)
	mean := func(c Channel) float64 {
		v, ok := t.Column(c)
		if !ok {
			return math.NaN()
		}
		return nanMean(v[lo:hi])
	}
	return IntervalMeans{
		WxcKBTI:   mean(WxcKBTI),
		WzcKBTI:   mean(WzcKBTI),
		WycKBTI:   mean(WycKBTI),
		WpKBTI:    mean(WpKBTI),
		WxDissPNK: mean(WxDissPNK),
		WzDissPNK: mean(WzDissPNK),
		WyDissPNK: mean(WyDissPNK),
		WpDissPNK: mean(WpDissPNK),
		Samples:   hi - lo,
	}
}

// BuildRow computes the report row of a single interval.
func BuildRow(t *SampleTable, iv Interval) ReportRow {
	m := ComputeIntervalMeans(t, iv)

	usKBTI := radToDeg(math.Atan(m.WzcKBTI / m.WxcKBTI))
	usPNK := radToDeg(math.Atan(m.WzDissPNK / m.WxDissPNK))
	span := iv.Stop - iv.Start

	return ReportRow{
		Length: round3(span * m.WpKBTI / 3600),
		Height: heightAt(t, iv.Start),
		Start:  iv.Start,
		Stop:   iv.Stop,
		Counts: span,
		US:     round3(usPNK - usKBTI),
		Wp:     round3(Percent(m.WpDissPNK, m.WpKBTI)),
		Wx:     round3(Percent(m.WxDissPNK, m.WxcKBTI)),
		Wz:     round3(Percent(m.WzDissPNK, m.WzcKBTI)),
		Wy:     round3(Percent(m.WyDissPNK, m.WycKBTI)),
		USKBTI: usKBTI,
		USPNK:  usPNK,
		Means:  m,
	}
}

// Percent is the deviation of y from x relative to x, in percent.
// A zero x yields 0.
func Percent(x, y float64) float64 {
	if x != 0 {
		return (x - y) / x * 100
	}
	return 0
}

// selectRows returns the half-open row range with start <= time <= stop.
func selectRows(time []float64, iv Interval) (int, int) {
	lo := lowerBound(time, iv.Start)
	hi := lo
	for hi < len(time) && time[hi] <= iv.Stop {
		hi++
	}
	return lo, hi
}

func heightAt(t *SampleTable, start float64) float64 {
	alt, ok := t.Altitude()
	if !ok {
		return 0
	}
	i, ok := t.IndexOfTime(start)
	if !ok {
		return 0
	}
	return alt[i]
}
