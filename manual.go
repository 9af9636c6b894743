package flightcalc

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	manualNoise = regexp.MustCompile(`[^0-9\-\n]`)
	manualPair  = regexp.MustCompile(`(\d+)-(\d+)`)
)

// ParseIntervals reads user-entered "start-stop" pairs, one or more per line.
// Everything except digits, '-' and newlines is discarded first, and lines
// without a pair are dropped.
func ParseIntervals(text string) []Interval {
	cleaned := manualNoise.ReplaceAllString(text, "")
	var out []Interval
	for _, line := range strings.Split(cleaned, "\n") {
		for _, m := range manualPair.FindAllStringSubmatch(line, -1) {
			start, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			stop, err := strconv.ParseFloat(m[2], 64)
			if err != nil {
				continue
			}
			out = append(out, Interval{Start: start, Stop: stop})
		}
	}
	return out
}
