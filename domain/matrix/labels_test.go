package matrix

import (
	"reflect"
	"testing"
)

// TestLabelsPlain tests range labels below the exponent threshold
func TestLabelsPlain(t *testing.T) {
	bins := []Bin{
		{Low: 0, High: 12.5},
		{Low: 12.5, High: 37.2},
		{Low: 37.2, High: 80},
	}
	labels := Labels(bins)
	expected := []string{"0.0-12.5", "12.5-37.2", "37.2-80.0"}
	if !reflect.DeepEqual(labels, expected) {
		t.Errorf("Labels() = %v", labels)
	}
}

// TestLabelsExponent tests the mantissa-exponent switch for large bounds
func TestLabelsExponent(t *testing.T) {
	bins := []Bin{
		{Low: 0, High: 1200},
		{Low: 1200, High: 45000},
	}
	labels := Labels(bins)
	expected := []string{"0.0-1.2e3", "1.2e3-4.5e4"}
	if !reflect.DeepEqual(labels, expected) {
		t.Errorf("Labels() = %v", labels)
	}
}

// TestAssign tests half-open binning with clamping
func TestAssign(t *testing.T) {
	bins := []Bin{
		{Low: 0, High: 10},
		{Low: 10, High: 20},
		{Low: 20, High: 30},
	}

	tests := []struct {
		value    float64
		expected int
	}{
		{-5, 0},   // below range clamps to first bin
		{0, 0},    // low bound inclusive
		{9.99, 0}, // high bound exclusive
		{10, 1},
		{20, 2},
		{29.9, 2},
		{30, 2}, // last bin closed
		{999, 2},
	}
	for _, test := range tests {
		if got := Assign(bins, test.value); got != test.expected {
			t.Errorf("Assign(%f) = %d, expected %d", test.value, got, test.expected)
		}
	}

	if got := Assign(nil, 5); got != 0 {
		t.Errorf("Assign(no bins) = %d, expected 0", got)
	}
}

// TestAssignAll tests bulk binning
func TestAssignAll(t *testing.T) {
	bins := []Bin{{Low: 0, High: 1}, {Low: 1, High: 2}}
	got := AssignAll(bins, []float64{0.5, 1.5, 2.5})
	if !reflect.DeepEqual(got, []int{0, 1, 1}) {
		t.Errorf("AssignAll() = %v", got)
	}
}
