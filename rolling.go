package flightcalc

import "math"

// trailingMean returns, for each i, the mean of values[i-window .. i-1]: a full
// window ending one sample before i. Positions without a complete window, or
// whose window holds a NaN, are NaN.
func trailingMean(values []float64, window int) []float64 {
	out := nanSlice(len(values))
	if window <= 0 {
		return out
	}
	sum := 0.0
	nans := 0
	for i := 0; i < len(values); i++ {
		if i >= window {
			// values[i-window .. i-1] is the window for position i.
			if nans == 0 {
				out[i] = sum / float64(window)
			}
		}
		sum, nans = pushWindow(sum, nans, values[i])
		if i >= window {
			sum, nans = popWindow(sum, nans, values[i-window])
		}
	}
	return out
}

// leadingMean returns, for each i, the mean of values[i+1 .. i+window]: a full
// window starting one sample after i.
func leadingMean(values []float64, window int) []float64 {
	n := len(values)
	out := nanSlice(n)
	if window <= 0 {
		return out
	}
	sum := 0.0
	nans := 0
	for i := n - 1; i >= 0; i-- {
		if n-1-i >= window && nans == 0 {
			out[i] = sum / float64(window)
		}
		sum, nans = pushWindow(sum, nans, values[i])
		if i+window < n {
			sum, nans = popWindow(sum, nans, values[i+window])
		}
	}
	return out
}

func pushWindow(sum float64, nans int, v float64) (float64, int) {
	if math.IsNaN(v) {
		return sum, nans + 1
	}
	return sum + v, nans
}

func popWindow(sum float64, nans int, v float64) (float64, int) {
	if math.IsNaN(v) {
		return sum, nans - 1
	}
	return sum - v, nans
}

// backFill replaces each NaN with the next valid value after it, in place.
// Trailing NaNs stay NaN.
func backFill(values []float64) []float64 {
	next := math.NaN()
	for i := len(values) - 1; i >= 0; i-- {
		if math.IsNaN(values[i]) {
			values[i] = next
			continue
		}
		next = values[i]
	}
	return values
}

// forwardFill replaces each NaN with the last valid value before it, in place.
func forwardFill(values []float64) []float64 {
	prev := math.NaN()
	for i := range values {
		if math.IsNaN(values[i]) {
			values[i] = prev
			continue
		}
		prev = values[i]
	}
	return values
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
