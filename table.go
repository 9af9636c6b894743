package flightcalc

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Channel identifies one numeric column of a SampleTable.
type Channel int

// Raw instrument channels delivered by the loader.
const (
	DISWx Channel = iota
	DISWy
	DISWz
	I1Kren
	I1Tang
	I1KursI
	JVDVN
	JVDVE
	JVDVh
	JVDH

	// Derived channels, in the order the transform writes them.
	WxDissPNK
	WzDissPNK
	WyDissPNK
	KrenSin
	KrenCos
	TangSin
	TangCos
	KursSin
	KursCos
	WxgKBTI
	WzgKBTI
	WygKBTI
	WxcKBTI
	WycKBTI
	WzcKBTI
	WpKBTI
	WpDissPNK

	numChannels
)

// TimeColumn is the column name of the sample key.
const TimeColumn = "time"

var channelNames = [numChannels]string{
	DISWx:     "DIS_Wx",
	DISWy:     "DIS_Wy",
	DISWz:     "DIS_Wz",
	I1Kren:    "I1_Kren",
	I1Tang:    "I1_Tang",
	I1KursI:   "I1_KursI",
	JVDVN:     "JVD_VN",
	JVDVE:     "JVD_VE",
	JVDVh:     "JVD_Vh",
	JVDH:      "JVD_H",
	WxDissPNK: "Wx_DISS_PNK",
	WzDissPNK: "Wz_DISS_PNK",
	WyDissPNK: "Wy_DISS_PNK",
	KrenSin:   "Kren_sin",
	KrenCos:   "Kren_cos",
	TangSin:   "Tang_sin",
	TangCos:   "Tang_cos",
	KursSin:   "Kurs_sin",
	KursCos:   "Kurs_cos",
	WxgKBTI:   "Wxg_KBTIi",
	WzgKBTI:   "Wzg_KBTIi",
	WygKBTI:   "Wyg_KBTIi",
	WxcKBTI:   "Wxc_KBTIi",
	WycKBTI:   "Wyc_KBTIi",
	WzcKBTI:   "Wzc_KBTIi",
	WpKBTI:    "Wp_KBTIi",
	WpDissPNK: "Wp_diss_pnki",
}

// RequiredRawChannels must all be present before the transform runs.
var RequiredRawChannels = []Channel{DISWx, DISWy, DISWz, I1Kren, I1Tang, I1KursI, JVDVN, JVDVE, JVDVh}

// DerivedChannels lists the transform outputs in dependency order.
var DerivedChannels = []Channel{
	WxDissPNK, WzDissPNK, WyDissPNK,
	KrenSin, KrenCos, TangSin, TangCos, KursSin, KursCos,
	WxgKBTI, WzgKBTI, WygKBTI,
	WxcKBTI, WycKBTI, WzcKBTI,
	WpKBTI, WpDissPNK,
}

// String returns the legacy column name.
func (c Channel) String() string {
	if c < 0 || c >= numChannels {
		return fmt.Sprintf("Channel(%d)", int(c))
	}
	return channelNames[c]
}

// IsDerived reports whether the channel is written by the transform.
func (c Channel) IsDerived() bool {
	return c >= WxDissPNK && c < numChannels
}

// AllChannels returns every known channel in schema order.
func AllChannels() []Channel {
	out := make([]Channel, 0, numChannels)
	for c := Channel(0); c < numChannels; c++ {
		out = append(out, c)
	}
	return out
}

// ChannelByName resolves a column name. Matching ignores surrounding whitespace
// and letter case because exported tables are not consistent about either.
func ChannelByName(name string) (Channel, bool) {
	name = strings.TrimSpace(name)
	for c, n := range channelNames {
		if strings.EqualFold(n, name) {
			return Channel(c), true
		}
	}
	return 0, false
}

var (
	// ErrTimeNotSorted is returned when time is not unique and ascending.
	ErrTimeNotSorted = errors.New("time column must be unique and ascending")
	// ErrLengthMismatch is returned when a column does not match the table length.
	ErrLengthMismatch = errors.New("column length does not match table length")
)

// MissingChannelError reports required channels absent from a table.
type MissingChannelError struct {
	Missing []Channel
}

func (e *MissingChannelError) Error() string {
	names := make([]string, 0, len(e.Missing))
	for _, c := range e.Missing {
		names = append(names, c.String())
	}
	return "missing required channels: " + strings.Join(names, ", ")
}

// SampleTable is a time-keyed set of numeric channels. Missing values are NaN.
// Columns are only ever added; a table never drops a channel.
type SampleTable struct {
	time []float64
	cols [numChannels][]float64
}

// NewSampleTable creates a table keyed by the given time values.
// The slice is owned by the table afterwards.
func NewSampleTable(time []float64) *SampleTable {
	return &SampleTable{time: time}
}

// Len returns the number of samples.
func (t *SampleTable) Len() int {
	return len(t.time)
}

// Time returns the time column. Callers must not modify it.
func (t *SampleTable) Time() []float64 {
	return t.time
}

// Has reports whether a channel is present.
func (t *SampleTable) Has(c Channel) bool {
	return c >= 0 && c < numChannels && t.cols[c] != nil
}

// Column returns a channel's values. Callers must not modify them.
func (t *SampleTable) Column(c Channel) ([]float64, bool) {
	if !t.Has(c) {
		return nil, false
	}
	return t.cols[c], true
}

// Altitude returns the optional JVD_H channel.
func (t *SampleTable) Altitude() ([]float64, bool) {
	return t.Column(JVDH)
}

// Set stores a channel column.
func (t *SampleTable) Set(c Channel, values []float64) error {
	if c < 0 || c >= numChannels {
		return fmt.Errorf("set %v: unknown channel", c)
	}
	if len(values) != len(t.time) {
		return fmt.Errorf("set %s: %w (%d != %d)", c, ErrLengthMismatch, len(values), len(t.time))
	}
	t.cols[c] = values
	return nil
}

// Channels returns the present channels in schema order.
func (t *SampleTable) Channels() []Channel {
	out := make([]Channel, 0, numChannels)
	for c := Channel(0); c < numChannels; c++ {
		if t.cols[c] != nil {
			out = append(out, c)
		}
	}
	return out
}

// Require returns a *MissingChannelError naming every absent channel.
func (t *SampleTable) Require(chs ...Channel) error {
	var missing []Channel
	for _, c := range chs {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return &MissingChannelError{Missing: missing}
	}
	return nil
}

// ValidateTime checks that time is unique and strictly ascending.
func (t *SampleTable) ValidateTime() error {
	for i := 1; i < len(t.time); i++ {
		if !(t.time[i] > t.time[i-1]) {
			return fmt.Errorf("row %d (time %v after %v): %w", i, t.time[i], t.time[i-1], ErrTimeNotSorted)
		}
	}
	for i, v := range t.time {
		if math.IsNaN(v) {
			return fmt.Errorf("row %d: NaN time: %w", i, ErrTimeNotSorted)
		}
	}
	return nil
}

// IndexOfTime returns the row whose time equals ts exactly.
func (t *SampleTable) IndexOfTime(ts float64) (int, bool) {
	lo := lowerBound(t.time, ts)
	if lo < len(t.time) && t.time[lo] == ts {
		return lo, true
	}
	return -1, false
}

// lowerBound returns the first row with time >= v.
func lowerBound(time []float64, v float64) int {
	lo, hi := 0, len(time)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if time[mid] < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

// Clone returns a deep copy.
func (t *SampleTable) Clone() *SampleTable {
	out := &SampleTable{time: append([]float64(nil), t.time...)}
	for c := range t.cols {
		if t.cols[c] != nil {
			out.cols[c] = append([]float64(nil), t.cols[c]...)
		}
	}
	return out
}
