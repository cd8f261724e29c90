package report

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gnnreport/adapters/tabular"
	"gnnreport/domain/metadata"
	"gnnreport/domain/paired"
	"gnnreport/ports"
)

func pairedFixture(t *testing.T) *paired.Paired {
	t.Helper()
	obs := tabular.NewTable(
		[]string{"FCID", "BAPH"},
		[][]string{{"1", "10"}, {"2", "20"}, {"3", "30"}})
	prd := tabular.NewTable(
		[]string{"FCID", "BAPH"},
		[][]string{{"1", "12"}, {"2", "20"}, {"3", "28"}})
	data, err := paired.Build(obs, prd, "FCID", []string{"BAPH"})
	require.NoError(t, err)
	return data
}

func TestScatterJob(t *testing.T) {
	data := pairedFixture(t)
	attr := metadata.Attribute{FieldName: "BAPH", Units: "m^2/ha"}

	job := scatterJob(data, attr, "/figures/baph.png", true)

	require.NotNil(t, job.Scatter)
	assert.Nil(t, job.Histogram)
	req := job.Scatter
	assert.Equal(t, "BAPH", req.Name)
	assert.Equal(t, "m^2/ha", req.Units)
	assert.Equal(t, "/figures/baph.png", req.OutputPath)
	assert.True(t, req.KDE)
	assert.Equal(t, []float64{10, 20, 30}, req.Observed)
	assert.Equal(t, []float64{12, 20, 28}, req.Predicted)
	assert.InDelta(t, 1.0, req.Stats.Correlation, 1e-9)
	assert.Greater(t, req.Stats.RSquare, 0.9)
	assert.Greater(t, req.Stats.NormalizedRMSE, 0.0)
}

func areaFixture() *tabular.Table {
	return tabular.NewTable(
		[]string{"VARIABLE", "DATASET", "BIN_NAME", "AREA"},
		[][]string{
			{"BAPH", "OBSERVED", "Nonforest", "100"},
			{"BAPH", "OBSERVED", "Unsampled", "50"},
			{"BAPH", "OBSERVED", "0-25", "200"},
			{"BAPH", "OBSERVED", "25-50", "300"},
			{"BAPH", "PREDICTED", "Nonforest", "120"},
			{"BAPH", "PREDICTED", "Unsampled", "0"},
			{"BAPH", "PREDICTED", "0-25", "210"},
			{"BAPH", "PREDICTED", "25-50", "320"},
			{"OTHER", "OBSERVED", "Nonforest", "999"},
		})
}

func olofssonFixture() *tabular.Table {
	return tabular.NewTable(
		[]string{"VARIABLE", "CLASS", "ADJUSTED", "CI_ADJUSTED"},
		[][]string{
			{"BAPH", "0-25", "205", "15"},
			{"BAPH", "25-50", "310", "22"},
			{"OTHER", "0-25", "999", "99"},
		})
}

func TestAreaHistogramRequest(t *testing.T) {
	attr := metadata.Attribute{FieldName: "BAPH", Units: "m^2/ha"}

	req, err := areaHistogramRequest(areaFixture(), olofssonFixture(), attr, "/figures/baph_area.png")
	require.NoError(t, err)

	assert.Equal(t, []string{"Nonforest", "Unsampled", "0-25", "25-50"}, req.Labels)
	assert.Equal(t, "BAPH (m^2/ha)", req.XTitle)
	assert.Equal(t, "Area (ha)", req.YTitle)
	assert.Equal(t, "/figures/baph_area.png", req.OutputPath)

	require.Len(t, req.Series, 3)
	assert.Equal(t, "Plots", req.Series[0].Name)
	assert.Equal(t, []float64{100, 50, 200, 300}, req.Series[0].Values)
	assert.Equal(t, "GNN", req.Series[1].Name)
	assert.Equal(t, []float64{120, 0, 210, 320}, req.Series[1].Values)

	adjusted := req.Series[2]
	assert.Equal(t, "Error-Adjusted", adjusted.Name)
	assert.Equal(t, []float64{0, 0, 205, 310}, adjusted.Values)
	assert.Equal(t, []float64{0, 0, 15, 22}, adjusted.ErrorBars)
	assert.Equal(t, []int{0, 1}, adjusted.FlaggedBins)
}

func TestFigurePaths(t *testing.T) {
	jobs := []FigureJob{
		{Scatter: &ports.ScatterRequest{OutputPath: "a.png"}},
		{Histogram: &ports.HistogramRequest{OutputPath: "b.png"}},
		{Scatter: &ports.ScatterRequest{OutputPath: "c.png"}},
	}
	assert.Equal(t, []string{"a.png", "b.png", "c.png"}, figurePaths(jobs))
}
