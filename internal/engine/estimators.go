package engine

import (
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// ModeNotAvailable is the mode of an empty sample.
const ModeNotAvailable = "N/A"

// Mean is the arithmetic average; 0 for an empty sample.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return stat.Mean(values, nil)
}

// StdDev is the population standard deviation (divides by N).
// Samples of size 0 or 1 give 0.
func StdDev(values []float64) float64 {
	if len(values) <= 1 {
		return 0
	}
	_, std := stat.PopMeanStdDev(values, nil)
	return std
}

// Median sorts a copy ascending and returns the middle value, or the mean of
// the two middle values for an even count; 0 for an empty sample.
func Median(values []float64) float64 {
	n := len(values)
	if n == 0 {
		return 0
	}
	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := n / 2
	if n%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// Modes returns every value that reaches the highest frequency.
// Scanning in input order, a value that pushes the count above the current
// maximum resets the list; a value that reaches the maximum is appended.
func Modes(values []float64) []float64 {
	counts := make(map[float64]int, len(values))
	maxCount := 0
	var modes []float64
	for _, v := range values {
		counts[v]++
		c := counts[v]
		switch {
		case c > maxCount:
			maxCount = c
			modes = append(modes[:0], v)
		case c == maxCount:
			modes = append(modes, v)
		}
	}
	return modes
}

// Mode formats Modes as a ", "-joined list, or ModeNotAvailable when empty.
func Mode(values []float64) string {
	if len(values) == 0 {
		return ModeNotAvailable
	}
	modes := Modes(values)
	parts := make([]string, len(modes))
	for i, m := range modes {
		parts[i] = formatNumber(m)
	}
	return strings.Join(parts, ", ")
}

// formatNumber prints the shortest representation: 2, 2.5, -0.125.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
