package pipeline

import (
	"encoding/csv"
	"math"
	"os"
	"strconv"

	flightcalc "github.com/lucasjlepore/flight-analyzer"
)

// writeDerivedCSV writes time plus every present channel. NaN cells are empty.
func writeDerivedCSV(path string, t *flightcalc.SampleTable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	channels := t.Channels()
	header := []string{flightcalc.TimeColumn}
	cols := make([][]float64, len(channels))
	for i, c := range channels {
		header = append(header, c.String())
		cols[i], _ = t.Column(c)
	}
	if err := w.Write(header); err != nil {
		return err
	}
	row := make([]string, len(header))
	for ri, ts := range t.Time() {
		row[0] = formatFloat(ts)
		for ci := range cols {
			row[ci+1] = formatFloat(cols[ci][ri])
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeReportCSV writes the report in ReportHeaders order.
func writeReportCSV(path string, rows []flightcalc.ReportRow) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(flightcalc.ReportHeaders); err != nil {
		return err
	}
	for _, r := range rows {
		values := r.Values()
		rec := make([]string, len(values))
		for i, v := range values {
			rec[i] = formatFloat(v)
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}
