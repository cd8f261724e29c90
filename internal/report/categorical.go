package report

import (
	"fmt"

	"gnnreport/adapters/tabular"
	"gnnreport/adapters/xmlmeta"
	"gnnreport/domain/core"
	"gnnreport/domain/layout"
	"gnnreport/domain/matrix"
	"gnnreport/domain/metadata"
	"gnnreport/internal"
	"gnnreport/internal/params"
)

const categoricalIntro = "As with the continuous attributes, we also present accuracy assessment " +
	"for a suite of categorical attributes that are distributed with GNN.  " +
	"For these attributes, we present only the local scale confusion matrices " +
	"and regional scale area distributions based on FIA plot estimates, " +
	"GNN-based model predictions and the aforementioned Olofsson et al. (2013) " +
	"error-corrected area estimates (see explanation in continuous attribute section." +
	"\n\n" +
	"In contrast to the continuous attributes, plot-based predictions for " +
	"categorical attributes are constructed from the single nearest neighbor " +
	"(k=1) at each pixel within the nine pixel footprint and the plot predicted " +
	"value is calculated as the majority value across those nine neighbors." +
	"\n\n" +
	"For some of these categorical attributes, fuzzy classes may extend past " +
	"the traditional +/- one class boundaries.  For example, the vegetation " +
	"class attribute (VEGCLASS) is a synthetic attributes that combines canopy " +
	"cover, hardwood proportion, and average tree size in a stand.  When " +
	"considering fuzzy classes, we allow for fuzziness in these three " +
	"dimensions.  The lighter gray shading on fuzzy classes in the confusion " +
	"matrix will indicate these choices.  Users are encouraged to carefully " +
	"consider whether these fuzzy classifications are appropriate in their " +
	"applications."

// CategoricalAccuracy renders one page per categorical attribute with its
// class confusion matrix and regional area distribution. Fuzzy agreement
// follows the explicit fuzzy-class declarations when the metadata carries
// them.
type CategoricalAccuracy struct {
	p   params.Params
	log *internal.Logger

	attrs       []metadata.Attribute
	matrixData  *tabular.Table
	areaData    *tabular.Table
	olofsson    *tabular.Table
	figureFiles []string
	loaded      bool
}

func NewCategoricalAccuracy(p params.Params, log *internal.Logger) *CategoricalAccuracy {
	return &CategoricalAccuracy{p: p, log: log}
}

func (f *CategoricalAccuracy) Name() string { return params.SectionCategorical }

func (f *CategoricalAccuracy) Required() []string {
	return []string{
		f.p.Files.StandMetadataFile,
		f.p.Files.ErrorMatrixFile,
		f.p.Files.AreaEstimateFile,
		f.p.Files.OlofssonFile,
	}
}

func (f *CategoricalAccuracy) load() error {
	if f.loaded {
		return nil
	}
	standMeta, err := xmlmeta.NewStandMetadataReader(f.p.Files.StandMetadataFile).Read()
	if err != nil {
		return err
	}
	f.attrs = standMeta.Filter(metadata.Categorical | metadata.Accuracy | metadata.Project)

	if f.matrixData, err = tabular.NewTableReader(f.p.Files.ErrorMatrixFile).Read(); err != nil {
		return err
	}
	area, err := tabular.NewTableReader(f.p.Files.AreaEstimateFile).Read()
	if err != nil {
		return err
	}
	olofsson, err := tabular.NewTableReader(f.p.Files.OlofssonFile).Read()
	if err != nil {
		return err
	}

	// Pixels with no nearest neighbor surface as an Unknown bin in the
	// area files and carry no accuracy information
	f.areaData = area.Filter(func(r tabular.Row) bool { return r.Get("BIN_NAME") != "Unknown" })
	f.olofsson = olofsson.Filter(func(r tabular.Row) bool { return r.Get("CLASS") != "Unknown" })

	f.loaded = true
	return nil
}

func (f *CategoricalAccuracy) Figures() ([]FigureJob, error) {
	if err := f.load(); err != nil {
		return nil, err
	}
	var jobs []FigureJob
	for _, attr := range f.attrs {
		req, err := areaHistogramRequest(f.areaData, f.olofsson, attr, regionalHistogramPath(f.p, attr.FieldName))
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, FigureJob{Histogram: req})
	}
	f.figureFiles = figurePaths(jobs)
	return jobs, nil
}

func (f *CategoricalAccuracy) Run() ([]layout.Flowable, error) {
	if err := f.load(); err != nil {
		return nil, err
	}
	story := pageBreak(layout.TemplatePortrait)
	story = append(story,
		makeTitle("Categorical Attribute Accuracy Assessment"),
		layout.Paragraph{Text: categoricalIntro, Style: "body"},
		layout.Spacer{Height: 0.15 * layout.Inch},
	)
	for _, attr := range f.attrs {
		page, err := f.attributePage(attr)
		if err != nil {
			return nil, err
		}
		story = append(story, page...)
	}
	return story, nil
}

func (f *CategoricalAccuracy) CleanUp() {
	removeFiles(f.log, f.figureFiles)
}

func (f *CategoricalAccuracy) attributePage(attr metadata.Attribute) ([]layout.Flowable, error) {
	errorMatrix, err := f.buildErrorMatrix(attr)
	if err != nil {
		return nil, err
	}

	story := pageBreak(layout.TemplatePortrait)
	story = append(story,
		layout.Paragraph{Text: fmt.Sprintf("%s (units: %s)", attr.FieldName, attr.Units), Style: "body_16"},
		layout.Spacer{Height: 0.1 * layout.Inch},
		layout.Paragraph{Text: shortDescription(attr), Style: "body_11"},
		layout.Spacer{Height: 0.2 * layout.Inch},
		layout.Paragraph{Text: "Local Accuracy", Style: "body_11"},
		layout.Spacer{Height: 0.17 * layout.Inch},
		errorMatrix,
		layout.Spacer{Height: 0.10 * layout.Inch},
		layout.Paragraph{Text: "Regional Accuracy", Style: "body_11"},
		layout.Spacer{Height: 0.17 * layout.Inch},
		layout.Image{
			Path:   regionalHistogramPath(f.p, attr.FieldName),
			Width:  7.5 * layout.Inch,
			Height: 2.5 * layout.Inch,
		},
		layout.Spacer{Height: 0.10 * layout.Inch},
	)
	return story, nil
}

// buildErrorMatrix lays out the class confusion matrix using the code
// labels from the attribute metadata. The overall percent cells are
// shaded to match the matrix body.
func (f *CategoricalAccuracy) buildErrorMatrix(attr metadata.Attribute) (*layout.Table, error) {
	labels := attr.CodeLabels()
	n := len(labels)
	if n == 0 {
		return nil, core.NewNotFoundError("codes", attr.FieldName)
	}
	m, err := attributeMatrix(f.matrixData, attr.FieldName, n)
	if err != nil {
		return nil, err
	}
	sets := matrix.NormalizeFuzzySets(n, matrix.FuzzySets(attr.FuzzyIndexSets()))

	table := errorMatrixGrid(m, labels, sets,
		categoricalMatrixSpacing(7.5*layout.Inch, n),
		categoricalMatrixSpacing(5.0*layout.Inch, n))
	table.Style.Backgrounds = append(table.Style.Backgrounds,
		layout.Background{StartCol: -2, StartRow: -2, EndCol: -2, EndRow: -2, Color: layout.ShadeCorrect},
		layout.Background{StartCol: -1, StartRow: -1, EndCol: -1, EndRow: -1, Color: layout.ShadeFuzzy},
	)
	return table, nil
}

// categoricalMatrixSpacing divides the band after the label columns
// evenly, capped at half an inch per class so small matrices stay compact
func categoricalMatrixSpacing(total float64, n int) []float64 {
	spacing := []float64{0.25 * layout.Inch, 1.20 * layout.Inch}
	standard := (total - 1.45*layout.Inch) / float64(n+3)
	if standard > 0.5*layout.Inch {
		standard = 0.5 * layout.Inch
	}
	for i := 0; i < n+3; i++ {
		spacing = append(spacing, standard)
	}
	return spacing
}
