package chart

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	flightcalc "github.com/lucasjlepore/flight-analyzer"
)

// MaxPoints caps the samples drawn per series; longer tables are decimated.
const MaxPoints = 10000

// ErrNoData is returned when neither speed series has a finite sample.
var ErrNoData = errors.New("no finite speed samples to plot")

var (
	kbtiColor     = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	dissColor     = color.RGBA{R: 214, G: 39, B: 40, A: 255}
	intervalColor = color.RGBA{R: 44, G: 160, B: 44, A: 255}
)

// SpeedsPlot draws Wp_KBTIi and Wp_diss_pnki against time, with each report
// interval bracketed by dashed vertical lines.
func SpeedsPlot(t *flightcalc.SampleTable, intervals []flightcalc.Interval, title string) (*plot.Plot, error) {
	if err := t.Require(flightcalc.WpKBTI, flightcalc.WpDissPNK); err != nil {
		return nil, err
	}
	kbti, _ := t.Column(flightcalc.WpKBTI)
	diss, _ := t.Column(flightcalc.WpDissPNK)

	kbtiPts := series(t.Time(), kbti)
	dissPts := series(t.Time(), diss)
	if len(kbtiPts) == 0 && len(dissPts) == 0 {
		return nil, ErrNoData
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Time (s)"
	p.Y.Label.Text = "Ground speed (km/h)"

	yMin, yMax := math.Inf(1), math.Inf(-1)
	for _, s := range []struct {
		name  string
		pts   plotter.XYs
		color color.Color
	}{
		{name: flightcalc.WpKBTI.String(), pts: kbtiPts, color: kbtiColor},
		{name: flightcalc.WpDissPNK.String(), pts: dissPts, color: dissColor},
	} {
		if len(s.pts) == 0 {
			continue
		}
		line, err := plotter.NewLine(s.pts)
		if err != nil {
			return nil, err
		}
		line.Color = s.color
		line.Width = vg.Points(1)
		p.Add(line)
		p.Legend.Add(s.name, line)
		for _, pt := range s.pts {
			yMin = math.Min(yMin, pt.Y)
			yMax = math.Max(yMax, pt.Y)
		}
	}

	for _, iv := range intervals {
		for _, x := range []float64{iv.Start, iv.Stop} {
			marker, err := plotter.NewLine(plotter.XYs{{X: x, Y: yMin}, {X: x, Y: yMax}})
			if err != nil {
				return nil, err
			}
			marker.Color = intervalColor
			marker.Width = vg.Points(0.75)
			marker.Dashes = []vg.Length{vg.Points(4), vg.Points(2)}
			p.Add(marker)
		}
	}

	p.Legend.Top = true
	p.Legend.Left = false
	p.Legend.XOffs = -10
	p.Legend.YOffs = -10
	return p, nil
}

// SaveSpeeds renders SpeedsPlot to an image file; the extension picks the format.
func SaveSpeeds(path string, t *flightcalc.SampleTable, intervals []flightcalc.Interval, title string) error {
	p, err := SpeedsPlot(t, intervals, title)
	if err != nil {
		return err
	}
	if err := p.Save(14*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("save chart: %w", err)
	}
	return nil
}

// series pairs time with values, drops non-finite samples and decimates to MaxPoints.
func series(time, values []float64) plotter.XYs {
	step := 1
	if len(time) > MaxPoints {
		step = (len(time) + MaxPoints - 1) / MaxPoints
	}
	pts := make(plotter.XYs, 0, len(time)/step+1)
	for i := 0; i < len(time); i += step {
		v := values[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		pts = append(pts, plotter.XY{X: time[i], Y: v})
	}
	return pts
}
