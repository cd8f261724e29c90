package report

import (
	"github.com/montanaflynn/stats"

	"gnnreport/adapters/tabular"
	"gnnreport/adapters/xmlmeta"
	"gnnreport/domain/accuracy"
	"gnnreport/domain/metadata"
	"gnnreport/domain/paired"
	"gnnreport/internal/params"
	"gnnreport/models"
)

// AttributeStats computes the plot-scale accuracy statistics for every
// continuous accuracy attribute of a run. The rows carry no run ID; the
// caller stamps one before archiving.
func AttributeStats(p params.Params) ([]models.AttributeStat, error) {
	standMeta, err := xmlmeta.NewStandMetadataReader(p.Files.StandMetadataFile).Read()
	if err != nil {
		return nil, err
	}
	attrs := standMeta.Filter(
		metadata.Continuous | metadata.Accuracy | metadata.Project | metadata.NotSpecies)
	fields := attributeFields(attrs)

	observed, err := tabular.NewTableReader(p.Files.ObservedFile).Read()
	if err != nil {
		return nil, err
	}
	predicted, err := tabular.NewTableReader(p.Files.PredictedFile).Read()
	if err != nil {
		return nil, err
	}
	data, err := paired.Build(observed, predicted, p.PlotIDField, fields)
	if err != nil {
		return nil, err
	}

	rows := make([]models.AttributeStat, 0, len(attrs))
	for _, attr := range attrs {
		obs := data.Observed(attr.FieldName)
		prd := data.Predicted(attr.FieldName)
		obsMean, _ := stats.Mean(obs)
		prdMean, _ := stats.Mean(prd)
		rows = append(rows, models.AttributeStat{
			FieldName:      attr.FieldName,
			Units:          attr.Units,
			PlotCount:      data.Len(),
			Correlation:    accuracy.PearsonR(obs, prd),
			RMSE:           accuracy.RMSE(obs, prd),
			NormalizedRMSE: accuracy.NormalizedRMSE(obs, prd),
			RSquare:        accuracy.RSquare(obs, prd),
			ObservedMean:   obsMean,
			PredictedMean:  prdMean,
		})
	}
	return rows, nil
}
