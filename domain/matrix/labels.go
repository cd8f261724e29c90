package matrix

import (
	"fmt"
	"math"
)

// Bin is one class interval from a natural-breaks bin file
type Bin struct {
	Low  float64
	High float64
}

// exponentThreshold switches range labels to mantissa-exponent form once the
// largest bin bound exceeds it
const exponentThreshold = 1000.0

// Labels renders "low-high" class labels for a bin set. When the largest
// bound exceeds 1000 every bound uses mantissa-exponent form to keep the
// labels narrow.
func Labels(bins []Bin) []string {
	maxHigh := 0.0
	for _, b := range bins {
		if b.High > maxHigh {
			maxHigh = b.High
		}
	}
	exponent := maxHigh > exponentThreshold

	labels := make([]string, len(bins))
	for i, b := range bins {
		labels[i] = formatBound(b.Low, exponent) + "-" + formatBound(b.High, exponent)
	}
	return labels
}

func formatBound(v float64, exponent bool) string {
	if !exponent {
		return fmt.Sprintf("%.1f", v)
	}
	if v == 0 {
		return "0.0"
	}
	exp := int(math.Floor(math.Log10(math.Abs(v))))
	mant := v / math.Pow(10, float64(exp))
	return fmt.Sprintf("%.1fe%d", mant, exp)
}

// Assign maps a value to its 0-based bin index. Bins are half-open
// [low, high) with the last bin closed; values outside the range clamp to
// the nearest bin.
func Assign(bins []Bin, v float64) int {
	if len(bins) == 0 {
		return 0
	}
	if v < bins[0].Low {
		return 0
	}
	for i := 0; i < len(bins)-1; i++ {
		if v >= bins[i].Low && v < bins[i].High {
			return i
		}
	}
	return len(bins) - 1
}

// AssignAll maps a slice of values to 0-based bin indexes
func AssignAll(bins []Bin, values []float64) []int {
	out := make([]int, len(values))
	for i, v := range values {
		out[i] = Assign(bins, v)
	}
	return out
}
