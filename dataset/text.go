package dataset

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"

	flightcalc "github.com/lucasjlepore/flight-analyzer"
)

var (
	// ErrNoHeader is returned for input without a header line.
	ErrNoHeader = errors.New("table has no header line")
	// ErrNoTimeColumn is returned when the header lacks the time column.
	ErrNoTimeColumn = errors.New("table has no time column")
)

const whitespaceDelimiter = ' '

// parsedText is the result of reading a delimited table.
type parsedText struct {
	table    *flightcalc.SampleTable
	info     LoadInfo
	warnings []string
}

// parseText reads a delimited table whose first non-blank line is the header.
// The delimiter is detected from that line: tab, then ';', then ',', else runs
// of whitespace.
func parseText(data []byte, opts LoadOptions) (*parsedText, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	header, ok := firstLine(data)
	if !ok {
		return nil, ErrNoHeader
	}
	delim := detectDelimiter(header)

	records, err := readRecords(data, delim)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoHeader
	}

	timeName := strings.TrimSpace(opts.TimeColumn)
	if timeName == "" {
		timeName = flightcalc.TimeColumn
	}

	out := &parsedText{info: LoadInfo{Format: FormatText, Delimiter: delimiterName(delim)}}
	timeIdx := -1
	colChannel := make(map[int]flightcalc.Channel)
	seen := make(map[flightcalc.Channel]int)
	for i, raw := range records[0] {
		name := strings.Trim(strings.TrimSpace(raw), `"`)
		if strings.EqualFold(name, timeName) {
			if timeIdx < 0 {
				timeIdx = i
			}
			continue
		}
		c, ok := flightcalc.ChannelByName(name)
		if !ok {
			if name != "" {
				out.info.IgnoredColumns = append(out.info.IgnoredColumns, name)
			}
			continue
		}
		if first, dup := seen[c]; dup {
			out.warnings = append(out.warnings, fmt.Sprintf("column %s repeated at positions %d and %d; using the first", c, first+1, i+1))
			continue
		}
		seen[c] = i
		colChannel[i] = c
	}
	if timeIdx < 0 {
		return nil, fmt.Errorf("%w %q", ErrNoTimeColumn, timeName)
	}

	decimalComma := delim != ','
	type row struct {
		time   float64
		values []string
	}
	rows := make([]row, 0, len(records)-1)
	badTime := 0
	for _, rec := range records[1:] {
		if blankRecord(rec) {
			continue
		}
		if timeIdx >= len(rec) {
			badTime++
			continue
		}
		ts, ok := parseNumber(rec[timeIdx], decimalComma)
		if !ok || math.IsNaN(ts) || math.IsInf(ts, 0) {
			badTime++
			continue
		}
		rows = append(rows, row{time: ts, values: rec})
	}
	if badTime > 0 {
		out.warnings = append(out.warnings, fmt.Sprintf("dropped %d row(s) without a numeric time", badTime))
	}

	if !sort.SliceIsSorted(rows, func(i, j int) bool { return rows[i].time < rows[j].time }) {
		sort.SliceStable(rows, func(i, j int) bool { return rows[i].time < rows[j].time })
		out.warnings = append(out.warnings, "rows were not in time order and have been sorted")
	}
	dups := 0
	kept := rows[:0]
	for _, r := range rows {
		if len(kept) > 0 && r.time == kept[len(kept)-1].time {
			dups++
			continue
		}
		kept = append(kept, r)
	}
	rows = kept
	if dups > 0 {
		out.warnings = append(out.warnings, fmt.Sprintf("dropped %d row(s) with a duplicate time", dups))
	}
	out.info.DroppedRows = badTime + dups

	times := make([]float64, len(rows))
	for i, r := range rows {
		times[i] = r.time
	}
	table := flightcalc.NewSampleTable(times)

	idxs := make([]int, 0, len(colChannel))
	for i := range colChannel {
		idxs = append(idxs, i)
	}
	sort.Ints(idxs)
	for _, ci := range idxs {
		c := colChannel[ci]
		values := make([]float64, len(rows))
		bad := 0
		for ri, r := range rows {
			if ci >= len(r.values) {
				values[ri] = math.NaN()
				continue
			}
			v, ok := parseNumber(r.values[ci], decimalComma)
			if !ok {
				bad++
			}
			values[ri] = v
		}
		if bad > 0 {
			out.warnings = append(out.warnings, fmt.Sprintf("column %s: %d unreadable cell(s) read as NaN", c, bad))
		}
		if err := table.Set(c, values); err != nil {
			return nil, err
		}
	}
	out.table = table
	return out, nil
}

func firstLine(data []byte) (string, bool) {
	for len(data) > 0 {
		line := data
		if i := bytes.IndexByte(data, '\n'); i >= 0 {
			line, data = data[:i], data[i+1:]
		} else {
			data = nil
		}
		if s := strings.TrimSpace(string(line)); s != "" {
			return s, true
		}
	}
	return "", false
}

func detectDelimiter(header string) rune {
	switch {
	case strings.ContainsRune(header, '\t'):
		return '\t'
	case strings.ContainsRune(header, ';'):
		return ';'
	case strings.ContainsRune(header, ','):
		return ','
	default:
		return whitespaceDelimiter
	}
}

func delimiterName(r rune) string {
	switch r {
	case '\t':
		return "tab"
	case whitespaceDelimiter:
		return "whitespace"
	default:
		return string(r)
	}
}

// readRecords splits the input into trimmed, non-empty records.
func readRecords(data []byte, delim rune) ([][]string, error) {
	if delim == whitespaceDelimiter {
		var out [][]string
		for _, line := range strings.Split(string(data), "\n") {
			if fields := strings.Fields(line); len(fields) > 0 {
				out = append(out, fields)
			}
		}
		return out, nil
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = delim
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.LazyQuotes = true
	var out [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for i := range rec {
			rec[i] = strings.TrimSpace(rec[i])
		}
		if blankRecord(rec) {
			continue
		}
		out = append(out, rec)
	}
	return out, nil
}

func blankRecord(rec []string) bool {
	for _, s := range rec {
		if strings.TrimSpace(s) != "" {
			return false
		}
	}
	return true
}

// parseNumber reads one cell. Empty and nan-like cells are NaN and count as
// readable; ok is false only for text that is not a number.
func parseNumber(cell string, decimalComma bool) (float64, bool) {
	s := strings.Trim(strings.TrimSpace(cell), `"`)
	switch strings.ToLower(s) {
	case "", "nan", "null", "none", "-":
		return math.NaN(), true
	}
	if decimalComma {
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN(), false
	}
	return v, true
}
