package matrix

import (
	"fmt"

	"gnnreport/domain/core"
)

// ErrorMatrix is an N x N observed-vs-predicted count matrix with margins.
// Rows index observed classes, columns predicted classes, both 0-based.
type ErrorMatrix struct {
	Cells     [][]float64
	RowTotals []float64
	ColTotals []float64
	Grand     float64
}

// New creates an empty matrix over n classes
func New(n int) *ErrorMatrix {
	cells := make([][]float64, n)
	for i := range cells {
		cells[i] = make([]float64, n)
	}
	return &ErrorMatrix{
		Cells:     cells,
		RowTotals: make([]float64, n),
		ColTotals: make([]float64, n),
	}
}

// Size returns the class count
func (m *ErrorMatrix) Size() int {
	return len(m.Cells)
}

// Add accumulates count samples at an observed/predicted class pair
func (m *ErrorMatrix) Add(obs, prd int, count float64) error {
	n := m.Size()
	if obs < 0 || obs >= n || prd < 0 || prd >= n {
		return fmt.Errorf("class out of range: observed %d, predicted %d, size %d", obs, prd, n)
	}
	m.Cells[obs][prd] += count
	m.RowTotals[obs] += count
	m.ColTotals[prd] += count
	m.Grand += count
	return nil
}

// Crosstab builds the matrix from per-sample 0-based class assignments
func Crosstab(obs, prd []int, n int) (*ErrorMatrix, error) {
	if len(obs) != len(prd) {
		return nil, fmt.Errorf("%w: observed %d, predicted %d", core.ErrLengthMismatch, len(obs), len(prd))
	}
	m := New(n)
	for i := range obs {
		if err := m.Add(obs[i], prd[i], 1); err != nil {
			return nil, fmt.Errorf("sample %d: %w", i+1, err)
		}
	}
	return m, nil
}

// FromCounts builds the matrix from pre-counted class pairs with 1-based
// classes, the layout of long-format error matrix files
func FromCounts(obs, prd []int, counts []float64, n int) (*ErrorMatrix, error) {
	if len(obs) != len(prd) || len(obs) != len(counts) {
		return nil, fmt.Errorf("%w: observed %d, predicted %d, counts %d",
			core.ErrLengthMismatch, len(obs), len(prd), len(counts))
	}
	m := New(n)
	for i := range obs {
		if err := m.Add(obs[i]-1, prd[i]-1, counts[i]); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	return m, nil
}

// Diagonal sums the exact-agreement cells
func (m *ErrorMatrix) Diagonal() float64 {
	sum := 0.0
	for i := range m.Cells {
		sum += m.Cells[i][i]
	}
	return sum
}

// pct guards every percentage against a zero denominator
func pct(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den * 100.0
}

// RowPercentCorrect is the exact-agreement percentage for one observed class
func (m *ErrorMatrix) RowPercentCorrect(i int) float64 {
	return pct(m.Cells[i][i], m.RowTotals[i])
}

// ColPercentCorrect is the exact-agreement percentage for one predicted class
func (m *ErrorMatrix) ColPercentCorrect(j int) float64 {
	return pct(m.Cells[j][j], m.ColTotals[j])
}

// OverallPercentCorrect is the diagonal share of all samples
func (m *ErrorMatrix) OverallPercentCorrect() float64 {
	return pct(m.Diagonal(), m.Grand)
}

// RowFuzzyCorrect sums the row cells whose predicted class is acceptable for
// observed class i
func (m *ErrorMatrix) RowFuzzyCorrect(i int, sets FuzzySets) float64 {
	sum := 0.0
	for _, j := range sets[i] {
		sum += m.Cells[i][j]
	}
	return sum
}

// ColFuzzyCorrect sums the column cells whose observed class lies in the
// fuzzy set of predicted class j
func (m *ErrorMatrix) ColFuzzyCorrect(j int, sets FuzzySets) float64 {
	sum := 0.0
	for _, i := range sets[j] {
		sum += m.Cells[i][j]
	}
	return sum
}

// RowPercentFuzzy is the fuzzy-agreement percentage for one observed class
func (m *ErrorMatrix) RowPercentFuzzy(i int, sets FuzzySets) float64 {
	return pct(m.RowFuzzyCorrect(i, sets), m.RowTotals[i])
}

// ColPercentFuzzy is the fuzzy-agreement percentage for one predicted class
func (m *ErrorMatrix) ColPercentFuzzy(j int, sets FuzzySets) float64 {
	return pct(m.ColFuzzyCorrect(j, sets), m.ColTotals[j])
}

// OverallPercentFuzzy is the fuzzy-agreement share of all samples, computed
// by subtracting the per-row fuzzy-incorrect counts from the grand total
func (m *ErrorMatrix) OverallPercentFuzzy(sets FuzzySets) float64 {
	incorrect := 0.0
	for i := range m.Cells {
		incorrect += m.RowTotals[i] - m.RowFuzzyCorrect(i, sets)
	}
	return pct(m.Grand-incorrect, m.Grand)
}
