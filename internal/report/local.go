package report

import (
	"gnnreport/adapters/tabular"
	"gnnreport/adapters/xmlmeta"
	"gnnreport/domain/layout"
	"gnnreport/domain/metadata"
	"gnnreport/domain/paired"
	"gnnreport/internal"
	"gnnreport/internal/params"
)

const localScatterText = "These scatterplots compare the observed plot values against " +
	"predicted (modeled) values for each plot used in the GNN model. " +
	"We use a modified leave-one-out (LOO) approach.  In traditional " +
	"LOO accuracy assessment, a model is run with *n*-1 plots and then " +
	"accuracy is determined at the plot left out of modeling, for all " +
	"plots used in modeling.  Because of computing limitations, we use " +
	"a 'second-nearest-neighbor' approach.  We develop our models with " +
	"all plots, but in determining accuracy, we don't allow a plot to " +
	"assign itself as a neighbor at the plot location.  This yields " +
	"similar accuracy assessment results as a true cross-validation " +
	"approach, but probably slightly underestimates the true accuracy " +
	"of the distributed (first-nearest-neighbor) map." +
	"\n\n" +
	"The observed value comes directly from the plot data, whereas the " +
	"predicted value comes from the GNN prediction for the plot location.  " +
	"The GNN prediction is the mean of pixel values for a window that " +
	"approximates the field plot configuration." +
	"\n\n" +
	"The correlation coefficients, normalized Root Mean Squared Errors " +
	"(RMSE), and coefficients of determination (R-square) are given. " +
	"The RMSE is normalized by dividing the RMSE by the observed mean value."

// LocalScatter is the standalone gallery of observed-vs-predicted
// scatterplots for every continuous accuracy attribute
type LocalScatter struct {
	p   params.Params
	log *internal.Logger

	figureFiles []string
}

func NewLocalScatter(p params.Params, log *internal.Logger) *LocalScatter {
	return &LocalScatter{p: p, log: log}
}

func (f *LocalScatter) Name() string { return params.SectionLocal }

func (f *LocalScatter) Required() []string {
	return []string{
		f.p.Files.ObservedFile,
		f.p.Files.PredictedFile,
		f.p.Files.StandMetadataFile,
	}
}

func (f *LocalScatter) attrs() ([]metadata.Attribute, error) {
	standMeta, err := xmlmeta.NewStandMetadataReader(f.p.Files.StandMetadataFile).Read()
	if err != nil {
		return nil, err
	}
	return standMeta.Filter(
		metadata.Continuous | metadata.Accuracy | metadata.Project | metadata.NotSpecies), nil
}

func (f *LocalScatter) Figures() ([]FigureJob, error) {
	attrs, err := f.attrs()
	if err != nil {
		return nil, err
	}

	observed, err := tabular.NewTableReader(f.p.Files.ObservedFile).Read()
	if err != nil {
		return nil, err
	}
	predicted, err := tabular.NewTableReader(f.p.Files.PredictedFile).Read()
	if err != nil {
		return nil, err
	}
	data, err := paired.Build(observed, predicted, f.p.PlotIDField, attributeFields(attrs))
	if err != nil {
		return nil, err
	}

	jobs := make([]FigureJob, 0, len(attrs))
	for _, attr := range attrs {
		jobs = append(jobs, scatterJob(data, attr, legacyScatterPath(f.p, attr.FieldName), true))
	}
	f.figureFiles = figurePaths(jobs)
	return jobs, nil
}

func (f *LocalScatter) Run() ([]layout.Flowable, error) {
	attrs, err := f.attrs()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		paths = append(paths, legacyScatterPath(f.p, attr.FieldName))
	}

	story := pageBreak(layout.TemplatePortrait)
	story = append(story,
		makeTitle("**Local-Scale Accuracy Assessment: Scatterplots of Observed vs. "+
			"Predicted Values for Continuous Variables at Plot Locations**"),
		layout.Spacer{Height: 0.2 * layout.Inch},
		layout.Paragraph{Text: localScatterText, Style: "body"},
		layout.Spacer{Height: 0.1 * layout.Inch},
		figureTable(paths),
	)
	return story, nil
}

func (f *LocalScatter) CleanUp() {
	removeFiles(f.log, f.figureFiles)
}
