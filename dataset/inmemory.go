package dataset

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/floats"

	flightcalc "github.com/lucasjlepore/flight-analyzer"
)

var parquetMagic = []byte("PAR1")

// ParseBytes loads a table from memory. name is only used to pick the format
// and to label the result.
func ParseBytes(name string, data []byte, opts LoadOptions) (*Bundle, error) {
	format, err := detectFormat(name, data, opts.Format)
	if err != nil {
		return nil, err
	}

	var (
		table    *flightcalc.SampleTable
		info     LoadInfo
		warnings []string
	)
	switch format {
	case FormatParquet:
		table, err = UnmarshalParquet(data)
		if err != nil {
			return nil, fmt.Errorf("parse parquet table: %w", err)
		}
		info.Format = FormatParquet
		if verr := table.ValidateTime(); verr != nil {
			warnings = append(warnings, verr.Error())
		}
	default:
		parsed, err := parseText(data, opts)
		if err != nil {
			return nil, fmt.Errorf("parse text table: %w", err)
		}
		table, info, warnings = parsed.table, parsed.info, parsed.warnings
	}

	sum := sha256.Sum256(data)
	info.SourceName = filepath.Base(name)
	info.SourceSHA256 = hex.EncodeToString(sum[:])
	info.SourceSizeBytes = int64(len(data))
	describeTable(&info, table)
	info.Warnings = BuildWarnings(info, warnings)

	return &Bundle{Table: table, Info: info}, nil
}

func detectFormat(name string, data []byte, forced string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(forced)) {
	case "":
	case FormatText:
		return FormatText, nil
	case FormatParquet:
		return FormatParquet, nil
	default:
		return "", fmt.Errorf("unsupported format %q (expected text|parquet)", forced)
	}
	if strings.EqualFold(filepath.Ext(name), ".parquet") || bytes.HasPrefix(data, parquetMagic) {
		return FormatParquet, nil
	}
	return FormatText, nil
}

func describeTable(info *LoadInfo, t *flightcalc.SampleTable) {
	info.RowCount = t.Len()
	info.Channels = info.Channels[:0]
	for _, c := range t.Channels() {
		info.Channels = append(info.Channels, c.String())
	}
	info.MissingRequired = nil
	for _, c := range flightcalc.RequiredRawChannels {
		if !t.Has(c) {
			info.MissingRequired = append(info.MissingRequired, c.String())
		}
	}
	_, info.HasAltitude = t.Altitude()
	if t.Len() > 0 {
		info.TimeStart = floats.Min(t.Time())
		info.TimeEnd = floats.Max(t.Time())
	}
}

// BuildWarnings returns deterministic load-quality notes.
func BuildWarnings(info LoadInfo, parseWarnings []string) []string {
	warnings := make([]string, 0, len(parseWarnings)+3)
	for _, w := range parseWarnings {
		if s := strings.TrimSpace(w); s != "" {
			warnings = append(warnings, s)
		}
	}
	if info.RowCount == 0 {
		warnings = append(warnings, "table has no rows")
	}
	if len(info.MissingRequired) > 0 {
		warnings = append(warnings, "missing required channels: "+strings.Join(info.MissingRequired, ", "))
	}
	if !info.HasAltitude {
		warnings = append(warnings, "no JVD_H channel: automatic interval detection is unavailable")
	}
	if len(info.IgnoredColumns) > 0 {
		warnings = append(warnings, fmt.Sprintf("ignored %d unknown column(s): %s", len(info.IgnoredColumns), strings.Join(info.IgnoredColumns, ", ")))
	}
	return dedupeStrings(warnings)
}

// MarshalJSON renders indented JSON with a trailing newline.
func MarshalJSON(v any) ([]byte, error) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	out = append(out, '\n')
	return out, nil
}

func dedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
