package report

import (
	"fmt"

	"gnnreport/adapters/tabular"
	"gnnreport/adapters/xmlmeta"
	"gnnreport/domain/core"
	"gnnreport/domain/layout"
	"gnnreport/domain/metadata"
	"gnnreport/internal"
	"gnnreport/internal/params"
	"gnnreport/ports"
)

const regionalHistogramText = "These histograms compare the distributions of land area in " +
	"different vegetation conditions as estimated from a regional, " +
	"sample- (plot-) based inventory (FIA Annual Plots) to model " +
	"predictions from GNN (based on counts of 30-m pixels)." +
	"\n\n" +
	"For the FIA annual plots, the distributions of forest area are " +
	"determined by summing the 'area expansion factors' at the plot " +
	"condition-class level. The plot-based estimates are subject to " +
	"sampling error, but this is not shown in the graphs due to " +
	"complexities involved.  For more information about the FIA Annual " +
	"inventory sample design, see the " +
	"[FIADB Users Manual](http://fia.fs.fed.us/library/database-documentation)." +
	"\n\n" +
	"Some plots were not visited on the ground due to denied access or " +
	"hazardous conditions, so the area these plots represent cannot be " +
	"characterized and is included in the bar labeled 'unsampled.'" +
	"\n\n" +
	"The bars labeled 'nonforest' also require explanation. For GNN, " +
	"this is the area of nonforest in the map, which is derived from " +
	"ancillary (non-GNN) spatial data sources such as the National Land " +
	"Cover Data (NLCD) or Ecological Systems maps from the Gap Analysis " +
	"Program (GAP). This mapped nonforest is referred to as the GNN " +
	"'nonforest mask.'" +
	"\n\n" +
	"For the plots, the 'nonforest' bar represents the nonforest area " +
	"as estimated from the FIA Annual sample."

// RegionalHistogram is the standalone gallery of plot-vs-map area
// distributions for every accuracy attribute with regional estimates
type RegionalHistogram struct {
	p   params.Params
	log *internal.Logger

	figureFiles []string
}

func NewRegionalHistogram(p params.Params, log *internal.Logger) *RegionalHistogram {
	return &RegionalHistogram{p: p, log: log}
}

func (f *RegionalHistogram) Name() string { return params.SectionRegional }

func (f *RegionalHistogram) Required() []string {
	return []string{
		f.p.Files.AreaEstimateFile,
		f.p.Files.StandMetadataFile,
	}
}

// charted returns the attributes with observed area estimates, in
// metadata order. Attributes absent from the area file draw no figure
// and get no page slot.
func (f *RegionalHistogram) charted() ([]metadata.Attribute, *tabular.Table, error) {
	standMeta, err := xmlmeta.NewStandMetadataReader(f.p.Files.StandMetadataFile).Read()
	if err != nil {
		return nil, nil, err
	}
	area, err := tabular.NewTableReader(f.p.Files.AreaEstimateFile).Read()
	if err != nil {
		return nil, nil, err
	}

	var attrs []metadata.Attribute
	for _, attr := range standMeta.Filter(metadata.Accuracy | metadata.Project | metadata.NotSpecies) {
		field := attr.FieldName
		observed := area.Filter(func(r tabular.Row) bool {
			return r.Get("VARIABLE") == field && r.Get("DATASET") == datasetObserved
		})
		if observed.Len() > 0 {
			attrs = append(attrs, attr)
		}
	}
	return attrs, area, nil
}

func (f *RegionalHistogram) Figures() ([]FigureJob, error) {
	attrs, area, err := f.charted()
	if err != nil {
		return nil, err
	}

	jobs := make([]FigureJob, 0, len(attrs))
	for _, attr := range attrs {
		req, err := plotHistogramRequest(area, attr, legacyHistogramPath(f.p, attr.FieldName))
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, FigureJob{Histogram: req})
	}
	f.figureFiles = figurePaths(jobs)
	return jobs, nil
}

func (f *RegionalHistogram) Run() ([]layout.Flowable, error) {
	attrs, _, err := f.charted()
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(attrs))
	for _, attr := range attrs {
		paths = append(paths, legacyHistogramPath(f.p, attr.FieldName))
	}

	story := pageBreak(layout.TemplatePortrait)
	story = append(story,
		makeTitle("**Regional-Scale Accuracy Assessment:\n Area Distributions "+
			"from Regional Inventory Plots vs. GNN**"),
		layout.Spacer{Height: 0.20 * layout.Inch},
		layout.Paragraph{Text: regionalHistogramText, Style: "body"},
		layout.Spacer{Height: 0.1 * layout.Inch},
		figureTable(paths),
	)
	return story, nil
}

func (f *RegionalHistogram) CleanUp() {
	removeFiles(f.log, f.figureFiles)
}

// plotHistogramRequest builds the two-series area chart comparing the
// plot-based and map-based estimates. The observed and predicted rows
// must carry the same bins in the same order.
func plotHistogramRequest(area *tabular.Table, attr metadata.Attribute, outputPath string) (*ports.HistogramRequest, error) {
	field := attr.FieldName
	observed := area.Filter(func(r tabular.Row) bool {
		return r.Get("VARIABLE") == field && r.Get("DATASET") == datasetObserved
	})
	predicted := area.Filter(func(r tabular.Row) bool {
		return r.Get("VARIABLE") == field && r.Get("DATASET") == datasetPredicted
	})

	labels, err := observed.Strings("BIN_NAME")
	if err != nil {
		return nil, err
	}
	predictedLabels, err := predicted.Strings("BIN_NAME")
	if err != nil {
		return nil, err
	}
	if len(labels) != len(predictedLabels) {
		return nil, core.NewBinMismatchError(field)
	}
	for i := range labels {
		if labels[i] != predictedLabels[i] {
			return nil, core.NewBinMismatchError(field)
		}
	}

	obsArea, err := observed.Floats("AREA")
	if err != nil {
		return nil, err
	}
	prdArea, err := predicted.Floats("AREA")
	if err != nil {
		return nil, err
	}

	return &ports.HistogramRequest{
		Labels: labels,
		Series: []ports.HistogramSeries{
			{Name: "Plots", Values: obsArea},
			{Name: "GNN", Values: prdArea},
		},
		XTitle:     fmt.Sprintf("%s (%s)", field, attr.Units),
		YTitle:     "Area (ha)",
		OutputPath: outputPath,
	}, nil
}
