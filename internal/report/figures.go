package report

import (
	"fmt"

	"gnnreport/adapters/tabular"
	"gnnreport/domain/accuracy"
	"gnnreport/domain/metadata"
	"gnnreport/domain/paired"
	"gnnreport/internal/params"
	"gnnreport/ports"
)

const (
	datasetObserved  = "OBSERVED"
	datasetPredicted = "PREDICTED"
)

// scatterJob builds one observed-vs-predicted scatterplot request with the
// correlation block computed from the paired series.
func scatterJob(data *paired.Paired, attr metadata.Attribute, outputPath string, kde bool) FigureJob {
	obs := data.Observed(attr.FieldName)
	prd := data.Predicted(attr.FieldName)
	return FigureJob{Scatter: &ports.ScatterRequest{
		Observed:   obs,
		Predicted:  prd,
		Name:       attr.FieldName,
		Units:      attr.Units,
		OutputPath: outputPath,
		KDE:        kde,
		Stats: ports.ScatterStats{
			Correlation:    accuracy.PearsonR(obs, prd),
			NormalizedRMSE: accuracy.NormalizedRMSE(obs, prd),
			RSquare:        accuracy.RSquare(obs, prd),
		},
	}}
}

// areaHistogramRequest builds the three-series regional area chart for one
// attribute: plot-based estimates, GNN map totals, and the Olofsson
// error-adjusted estimates with their confidence intervals.
func areaHistogramRequest(area, olofsson *tabular.Table, attr metadata.Attribute, outputPath string) (*ports.HistogramRequest, error) {
	subset := area.Filter(func(r tabular.Row) bool { return r.Get("VARIABLE") == attr.FieldName })
	observed := subset.Filter(func(r tabular.Row) bool { return r.Get("DATASET") == datasetObserved })
	predicted := subset.Filter(func(r tabular.Row) bool { return r.Get("DATASET") == datasetPredicted })

	labels, err := observed.Strings("BIN_NAME")
	if err != nil {
		return nil, err
	}
	obsArea, err := observed.Floats("AREA")
	if err != nil {
		return nil, err
	}
	prdArea, err := predicted.Floats("AREA")
	if err != nil {
		return nil, err
	}

	adjustedRows := olofsson.Filter(func(r tabular.Row) bool { return r.Get("VARIABLE") == attr.FieldName })
	adjusted, err := adjustedRows.Floats("ADJUSTED")
	if err != nil {
		return nil, err
	}
	ci, err := adjustedRows.Floats("CI_ADJUSTED")
	if err != nil {
		return nil, err
	}

	// The error-adjusted estimates omit the nonforest and unsampled bins,
	// so the first two positions are zero-filled and flagged.
	errorAdjusted := append([]float64{0, 0}, adjusted...)
	errorBars := append([]float64{0, 0}, ci...)

	return &ports.HistogramRequest{
		Labels: labels,
		Series: []ports.HistogramSeries{
			{Name: "Plots", Values: obsArea},
			{Name: "GNN", Values: prdArea},
			{Name: "Error-Adjusted", Values: errorAdjusted, ErrorBars: errorBars, FlaggedBins: []int{0, 1}},
		},
		XTitle:     fmt.Sprintf("%s (%s)", attr.FieldName, attr.Units),
		YTitle:     "Area (ha)",
		OutputPath: outputPath,
	}, nil
}

// riemannPaired joins the hexagon-level observed and predicted means for
// one resolution on the hexagon identifier column. The observed table is
// returned alongside for callers that need its extra columns.
func riemannPaired(p params.Params, resolution int, fields []string) (*paired.Paired, *tabular.Table, error) {
	observed, err := tabular.NewTableReader(riemannObservedFile(p.Files.RiemannDir, resolution)).Read()
	if err != nil {
		return nil, nil, err
	}
	predicted, err := tabular.NewTableReader(riemannPredictedFile(p.Files.RiemannDir, resolution, p.K)).Read()
	if err != nil {
		return nil, nil, err
	}
	data, err := paired.Build(observed, predicted, hexIDField(resolution), fields)
	if err != nil {
		return nil, nil, err
	}
	return data, observed, nil
}

// figurePaths collects the output paths of a batch of figure jobs
func figurePaths(jobs []FigureJob) []string {
	paths := make([]string, 0, len(jobs))
	for _, job := range jobs {
		switch {
		case job.Scatter != nil:
			paths = append(paths, job.Scatter.OutputPath)
		case job.Histogram != nil:
			paths = append(paths, job.Histogram.OutputPath)
		}
	}
	return paths
}
