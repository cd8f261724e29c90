package report

import (
	"fmt"

	"github.com/montanaflynn/stats"

	"gnnreport/adapters/tabular"
	"gnnreport/adapters/xmlmeta"
	"gnnreport/domain/layout"
	"gnnreport/domain/metadata"
	"gnnreport/internal"
	"gnnreport/internal/params"
)

const riemannScatterText = "This section examines how GNN model performance " +
	"changes with spatial scale, following the assessment protocol of " +
	"Riemann et al. (2010).  Plot-level observed and predicted values are " +
	"averaged within hexagon tessellations of increasing size, and the " +
	"paired hexagon means are displayed as scatterplots for each continuous " +
	"attribute.  Each scatterplot reports the correlation coefficient, " +
	"normalized RMSE, and R-square of the hexagon means, along with the " +
	"average number of plots per hexagon and the number of hexagons in the " +
	"model region." +
	"\n\n" +
	"Accuracies at these intermediate scales are typically higher than " +
	"plot-scale accuracies, because averaging within hexagons smooths " +
	"local prediction error.  Improvement with increasing hexagon size " +
	"indicates that plot-based and map-based estimates converge as a " +
	"function of spatial scale.  Note that only the forested plot " +
	"footprints within each hexagon contribute to the means, so the " +
	"reported accuracies should not be read as a direct measure of map " +
	"accuracy over the full hexagon area."

// plotCountField is the per-hexagon plot tally carried in the observed
// mean files
const plotCountField = "PLOT_COUNT"

// RiemannAccuracy is the standalone mid-scale section: scatterplots of
// observed vs. predicted hexagon means for every continuous accuracy
// attribute at each tessellation scale
type RiemannAccuracy struct {
	p   params.Params
	log *internal.Logger

	figureFiles []string
}

func NewRiemannAccuracy(p params.Params, log *internal.Logger) *RiemannAccuracy {
	return &RiemannAccuracy{p: p, log: log}
}

func (f *RiemannAccuracy) Name() string { return params.SectionRiemann }

func (f *RiemannAccuracy) Required() []string {
	return []string{
		f.p.Files.RiemannDir,
		f.p.Files.StandMetadataFile,
	}
}

func (f *RiemannAccuracy) attrs() ([]metadata.Attribute, error) {
	standMeta, err := xmlmeta.NewStandMetadataReader(f.p.Files.StandMetadataFile).Read()
	if err != nil {
		return nil, err
	}
	return standMeta.Filter(
		metadata.Continuous | metadata.Accuracy | metadata.Project | metadata.NotSpecies), nil
}

func (f *RiemannAccuracy) Figures() ([]FigureJob, error) {
	attrs, err := f.attrs()
	if err != nil {
		return nil, err
	}
	fields := attributeFields(attrs)

	var jobs []FigureJob
	for _, resolution := range f.p.HexResolutions {
		data, observed, err := riemannPaired(f.p, resolution, fields)
		if err != nil {
			return nil, err
		}
		hexagons := data.Len()
		avgPlots := averagePlotCount(observed)
		for _, attr := range attrs {
			job := scatterJob(data, attr, riemannScatterPath(f.p, resolution, attr.FieldName), false)
			job.Scatter.Stats.HexagonCount = &hexagons
			job.Scatter.Stats.AvgPlotCount = avgPlots
			jobs = append(jobs, job)
		}
	}
	f.figureFiles = figurePaths(jobs)
	return jobs, nil
}

func (f *RiemannAccuracy) Run() ([]layout.Flowable, error) {
	attrs, err := f.attrs()
	if err != nil {
		return nil, err
	}

	story := pageBreak(layout.TemplatePortrait)
	story = append(story,
		makeTitle("**Mid-Scale Accuracy Assessment: Observed vs. Predicted "+
			"Hexagon Means Across Spatial Scales**"),
		layout.Spacer{Height: 0.2 * layout.Inch},
		layout.Paragraph{Text: riemannScatterText, Style: "body"},
		layout.Spacer{Height: 0.2 * layout.Inch},
	)
	for _, attr := range attrs {
		paths := make([]string, 0, len(f.p.HexResolutions))
		for _, resolution := range f.p.HexResolutions {
			paths = append(paths, riemannScatterPath(f.p, resolution, attr.FieldName))
		}
		story = append(story,
			layout.Paragraph{
				Text:  fmt.Sprintf("%s (units: %s)", attr.FieldName, attr.Units),
				Style: "body_16",
			},
			layout.Spacer{Height: 0.1 * layout.Inch},
			hexFigureRow(paths, f.p.HexResolutions, "LEFT"),
			layout.Spacer{Height: 0.25 * layout.Inch},
		)
	}
	return story, nil
}

func (f *RiemannAccuracy) CleanUp() {
	removeFiles(f.log, f.figureFiles)
}

// averagePlotCount is the mean number of plots contributing to each
// hexagon, when the observed table carries the tally column
func averagePlotCount(observed *tabular.Table) *float64 {
	if !observed.HasColumn(plotCountField) {
		return nil
	}
	counts, err := observed.Floats(plotCountField)
	if err != nil {
		return nil
	}
	mean, err := stats.Mean(counts)
	if err != nil {
		return nil
	}
	return &mean
}
