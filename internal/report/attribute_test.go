package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gnnreport/adapters/tabular"
	"gnnreport/domain/core"
	"gnnreport/domain/layout"
	"gnnreport/domain/matrix"
)

func binFixture() *tabular.Table {
	return tabular.NewTable(
		[]string{"VARIABLE", "CLASS", "LOW", "HIGH"},
		[][]string{
			{"BAPH", "1", "0", "25"},
			{"BAPH", "2", "25", "50"},
			{"OTHER", "1", "0", "10"},
		})
}

func countFixture() *tabular.Table {
	return tabular.NewTable(
		[]string{"VARIABLE", "OBSERVED_CLASS", "PREDICTED_CLASS", "COUNT"},
		[][]string{
			{"BAPH", "1", "1", "30"},
			{"BAPH", "1", "2", "5"},
			{"BAPH", "2", "1", "10"},
			{"BAPH", "2", "2", "20"},
		})
}

func TestAttributeBins(t *testing.T) {
	bins, err := attributeBins(binFixture(), "BAPH")
	require.NoError(t, err)
	assert.Equal(t, []matrix.Bin{{Low: 0, High: 25}, {Low: 25, High: 50}}, bins)
}

func TestAttributeBinsUnknownField(t *testing.T) {
	_, err := attributeBins(binFixture(), "MISSING")
	require.Error(t, err)
	assert.True(t, core.IsNotFoundError(err))
}

func TestAttributeMatrix(t *testing.T) {
	m, err := attributeMatrix(countFixture(), "BAPH", 2)
	require.NoError(t, err)

	assert.Equal(t, [][]float64{{30, 5}, {10, 20}}, m.Cells)
	assert.Equal(t, []float64{35, 30}, m.RowTotals)
	assert.Equal(t, []float64{40, 25}, m.ColTotals)
	assert.Equal(t, 65.0, m.Grand)
}

func TestAttributeMatrixSpacing(t *testing.T) {
	widths := attributeMatrixWidths(2)
	require.Len(t, widths, 7)
	total := 0.0
	for _, w := range widths {
		total += w
	}
	assert.InDelta(t, 4.10*layout.Inch, total, 1e-9)

	heights := attributeMatrixHeights(2)
	require.Len(t, heights, 7)
	total = 0.0
	for _, h := range heights {
		total += h
	}
	assert.InDelta(t, 3.20*layout.Inch, total, 1e-9)
}

func TestErrorMatrixGrid(t *testing.T) {
	m, err := attributeMatrix(countFixture(), "BAPH", 2)
	require.NoError(t, err)
	bins, err := attributeBins(binFixture(), "BAPH")
	require.NoError(t, err)
	sets := matrix.DefaultFuzzySets(2)

	grid := errorMatrixGrid(m, matrix.Labels(bins), sets,
		attributeMatrixWidths(2), attributeMatrixHeights(2))

	require.Len(t, grid.Cells, 7)
	require.Len(t, grid.Cells[0], 7)

	rot, ok := grid.Cells[2][0].Content.(layout.Rotated)
	require.True(t, ok)
	assert.Equal(t, "Observed class", rot.Text)
	banner, ok := grid.Cells[0][2].Content.(layout.Paragraph)
	require.True(t, ok)
	assert.Equal(t, "Predicted class", banner.Text)

	label, ok := grid.Cells[1][2].Content.(layout.Rotated)
	require.True(t, ok)
	assert.Equal(t, "0.0-25.0", label.Text)
	assert.Equal(t, "% fuzzy correct", grid.Cells[6][1].Content)

	// count body with the total margins
	assert.Equal(t, "30", grid.Cells[2][2].Content)
	assert.Equal(t, "5", grid.Cells[2][3].Content)
	assert.Equal(t, "10", grid.Cells[3][2].Content)
	assert.Equal(t, "35", grid.Cells[2][4].Content)
	assert.Equal(t, "40", grid.Cells[4][2].Content)
	assert.Equal(t, "65", grid.Cells[4][4].Content)

	// percent correct margins: right per observed class, bottom per
	// predicted class, overall in the corner
	assert.Equal(t, "85.7", grid.Cells[2][5].Content)
	assert.Equal(t, "66.7", grid.Cells[3][5].Content)
	assert.Equal(t, "75.0", grid.Cells[5][2].Content)
	assert.Equal(t, "80.0", grid.Cells[5][3].Content)
	assert.Equal(t, "76.9", grid.Cells[5][5].Content)

	// a two-class matrix is entirely within one class of the diagonal
	assert.Equal(t, "100.0", grid.Cells[2][6].Content)
	assert.Equal(t, "100.0", grid.Cells[6][6].Content)

	require.Len(t, grid.Style.Spans, 3)
	var dark, light int
	for _, bg := range grid.Style.Backgrounds {
		switch bg.Color {
		case layout.ShadeCorrect:
			dark++
		case layout.ShadeFuzzy:
			light++
		}
	}
	assert.Equal(t, 2, dark)
	assert.Equal(t, 2, light)
}
