package report

import (
	"fmt"

	"gnnreport/adapters/tabular"
	"gnnreport/adapters/xmlmeta"
	"gnnreport/domain/core"
	"gnnreport/domain/layout"
	"gnnreport/domain/matrix"
	"gnnreport/domain/metadata"
	"gnnreport/domain/paired"
	"gnnreport/internal"
	"gnnreport/internal/params"
)

// AttributeAccuracy renders one page per continuous attribute, combining
// the plot-scale scatterplot and binned error matrix, the regional area
// distribution, and the hexagon-scale scatterplots.
type AttributeAccuracy struct {
	p   params.Params
	log *internal.Logger

	attrs       []metadata.Attribute
	matrixData  *tabular.Table
	binData     *tabular.Table
	figureFiles []string
	loaded      bool
}

func NewAttributeAccuracy(p params.Params, log *internal.Logger) *AttributeAccuracy {
	return &AttributeAccuracy{p: p, log: log}
}

func (f *AttributeAccuracy) Name() string { return params.SectionAttribute }

func (f *AttributeAccuracy) Required() []string {
	return []string{
		f.p.Files.ObservedFile,
		f.p.Files.PredictedFile,
		f.p.Files.StandMetadataFile,
		f.p.Files.ErrorMatrixFile,
		f.p.Files.BinFile,
		f.p.Files.AreaEstimateFile,
		f.p.Files.OlofssonFile,
		f.p.Files.RiemannDir,
	}
}

func (f *AttributeAccuracy) load() error {
	if f.loaded {
		return nil
	}
	standMeta, err := xmlmeta.NewStandMetadataReader(f.p.Files.StandMetadataFile).Read()
	if err != nil {
		return err
	}
	f.attrs = standMeta.Filter(
		metadata.Continuous | metadata.Accuracy | metadata.Project | metadata.NotSpecies)
	if len(f.attrs) == 0 {
		return core.ErrEmptySelection
	}

	if f.matrixData, err = tabular.NewTableReader(f.p.Files.ErrorMatrixFile).Read(); err != nil {
		return err
	}
	if f.binData, err = tabular.NewTableReader(f.p.Files.BinFile).Read(); err != nil {
		return err
	}
	f.loaded = true
	return nil
}

// Figures builds every chart the attribute pages reference: the local
// scatterplots from the paired plot data, the regional area histograms,
// and one scatterplot per attribute at each hexagon resolution.
func (f *AttributeAccuracy) Figures() ([]FigureJob, error) {
	if err := f.load(); err != nil {
		return nil, err
	}
	fields := attributeFields(f.attrs)

	observed, err := tabular.NewTableReader(f.p.Files.ObservedFile).Read()
	if err != nil {
		return nil, err
	}
	predicted, err := tabular.NewTableReader(f.p.Files.PredictedFile).Read()
	if err != nil {
		return nil, err
	}
	local, err := paired.Build(observed, predicted, f.p.PlotIDField, fields)
	if err != nil {
		return nil, err
	}

	area, err := tabular.NewTableReader(f.p.Files.AreaEstimateFile).Read()
	if err != nil {
		return nil, err
	}
	olofsson, err := tabular.NewTableReader(f.p.Files.OlofssonFile).Read()
	if err != nil {
		return nil, err
	}

	var jobs []FigureJob
	for _, attr := range f.attrs {
		jobs = append(jobs, scatterJob(local, attr, localScatterPath(f.p, attr.FieldName), true))
	}
	for _, attr := range f.attrs {
		req, err := areaHistogramRequest(area, olofsson, attr, regionalHistogramPath(f.p, attr.FieldName))
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, FigureJob{Histogram: req})
	}
	for _, resolution := range f.p.HexResolutions {
		hexData, _, err := riemannPaired(f.p, resolution, fields)
		if err != nil {
			return nil, err
		}
		for _, attr := range f.attrs {
			jobs = append(jobs, scatterJob(
				hexData, attr, riemannScatterPath(f.p, resolution, attr.FieldName), false))
		}
	}

	f.figureFiles = figurePaths(jobs)
	return jobs, nil
}

func (f *AttributeAccuracy) Run() ([]layout.Flowable, error) {
	if err := f.load(); err != nil {
		return nil, err
	}
	var story []layout.Flowable
	for _, attr := range f.attrs {
		page, err := f.attributePage(attr)
		if err != nil {
			return nil, err
		}
		story = append(story, page...)
	}
	return story, nil
}

func (f *AttributeAccuracy) CleanUp() {
	removeFiles(f.log, f.figureFiles)
}

// attributePage assembles the single accuracy page for one attribute
func (f *AttributeAccuracy) attributePage(attr metadata.Attribute) ([]layout.Flowable, error) {
	errorMatrix, err := f.buildErrorMatrix(attr)
	if err != nil {
		return nil, err
	}

	riemannPaths := make([]string, len(f.p.HexResolutions))
	for i, resolution := range f.p.HexResolutions {
		riemannPaths[i] = riemannScatterPath(f.p, resolution, attr.FieldName)
	}

	localRow := &layout.Table{
		Cells: [][]layout.Cell{{
			{Content: layout.Image{
				Path:   localScatterPath(f.p, attr.FieldName),
				Width:  3.2 * layout.Inch,
				Height: 3.2 * layout.Inch,
			}},
			{Content: errorMatrix},
		}},
		ColWidths: []float64{3.2 * layout.Inch, 4.1 * layout.Inch},
		Style:     noPaddingTable(),
	}
	localRow.Style.HAlign = "LEFT"

	story := pageBreak(layout.TemplatePortrait)
	story = append(story,
		layout.Paragraph{Text: fmt.Sprintf("%s (units: %s)", attr.FieldName, attr.Units), Style: "body_16"},
		layout.Spacer{Height: 0.1 * layout.Inch},
		layout.Paragraph{Text: shortDescription(attr), Style: "body_11"},
		layout.Spacer{Height: 0.2 * layout.Inch},
		layout.Paragraph{Text: "Local Accuracy", Style: "body_11"},
		layout.Spacer{Height: 0.17 * layout.Inch},
		localRow,
		layout.Spacer{Height: 0.10 * layout.Inch},
		layout.Paragraph{Text: "Regional Accuracy", Style: "body_11"},
		layout.Spacer{Height: 0.17 * layout.Inch},
		layout.Image{
			Path:   regionalHistogramPath(f.p, attr.FieldName),
			Width:  7.5 * layout.Inch,
			Height: 2.5 * layout.Inch,
		},
		layout.Spacer{Height: 0.10 * layout.Inch},
		layout.Paragraph{Text: "Accuracy Across Scales", Style: "body_11"},
		layout.Spacer{Height: 0.17 * layout.Inch},
		hexFigureRow(riemannPaths, f.p.HexResolutions, "LEFT"),
	)
	return story, nil
}

// buildErrorMatrix bins the attribute's plot counts into its class ranges
// and lays the counts out with totals and percent-correct margins. Fuzzy
// agreement for binned attributes always spans one class either side.
func (f *AttributeAccuracy) buildErrorMatrix(attr metadata.Attribute) (*layout.Table, error) {
	bins, err := attributeBins(f.binData, attr.FieldName)
	if err != nil {
		return nil, err
	}
	m, err := attributeMatrix(f.matrixData, attr.FieldName, len(bins))
	if err != nil {
		return nil, err
	}
	sets := matrix.DefaultFuzzySets(len(bins))
	n := len(bins)
	return errorMatrixGrid(m, matrix.Labels(bins), sets,
		attributeMatrixWidths(n), attributeMatrixHeights(n)), nil
}

// attributeBins reads the class bins recorded for one attribute
func attributeBins(t *tabular.Table, field string) ([]matrix.Bin, error) {
	subset := t.Filter(func(r tabular.Row) bool { return r.Get("VARIABLE") == field })
	if subset.Len() == 0 {
		return nil, core.NewNotFoundError("bins", field)
	}
	lows, err := subset.Floats("LOW")
	if err != nil {
		return nil, err
	}
	highs, err := subset.Floats("HIGH")
	if err != nil {
		return nil, err
	}
	bins := make([]matrix.Bin, len(lows))
	for i := range bins {
		bins[i] = matrix.Bin{Low: lows[i], High: highs[i]}
	}
	return bins, nil
}

// attributeMatrix builds the n-class error matrix from the long-format
// count records for one attribute. Classes are numbered from one.
func attributeMatrix(t *tabular.Table, field string, n int) (*matrix.ErrorMatrix, error) {
	subset := t.Filter(func(r tabular.Row) bool { return r.Get("VARIABLE") == field })
	obs, err := subset.Ints("OBSERVED_CLASS")
	if err != nil {
		return nil, err
	}
	prd, err := subset.Ints("PREDICTED_CLASS")
	if err != nil {
		return nil, err
	}
	counts, err := subset.Floats("COUNT")
	if err != nil {
		return nil, err
	}
	m, err := matrix.FromCounts(obs, prd, counts, n)
	if err != nil {
		return nil, err
	}
	if m.Grand == 0 {
		return nil, fmt.Errorf("%w: %s", core.ErrEmptyMatrix, field)
	}
	return m, nil
}

// errorMatrixGrid lays an error matrix out as a table. Rows run over
// observed classes and columns over predicted classes, bordered by two
// label bands on the top and left and by the total, percent correct and
// percent fuzzy correct margins on the bottom and right. Cells on the
// diagonal are shaded dark, fuzzy-acceptable neighbors light.
func errorMatrixGrid(m *matrix.ErrorMatrix, classLabels []string, sets matrix.FuzzySets, widths, heights []float64) *layout.Table {
	n := m.Size()
	size := n + 5
	labels := make([]string, 0, n+3)
	labels = append(labels, classLabels...)
	labels = append(labels, "Total", "% correct", "% fuzzy correct")

	cells := make([][]layout.Cell, size)
	for i := range cells {
		cells[i] = make([]layout.Cell, size)
	}

	cells[2][0] = layout.Cell{Content: layout.Rotated{Text: "Observed class", Style: "matrix_rot"}}
	cells[0][2] = layout.Cell{Content: layout.Paragraph{Text: "Predicted class", Style: "matrix_center"}}
	for k, label := range labels {
		cells[1][2+k] = layout.Cell{Content: layout.Rotated{Text: label, Style: "matrix_rot"}}
		cells[2+k][1] = layout.Cell{Content: label}
	}

	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			cells[2+i][2+j] = layout.Cell{Content: formatCount(m.Cells[i][j])}
		}
		cells[2+i][2+n] = layout.Cell{Content: formatCount(m.RowTotals[i])}
		cells[2+i][size-2] = layout.Cell{Content: formatPercent(m.RowPercentCorrect(i))}
		cells[2+i][size-1] = layout.Cell{Content: formatPercent(m.RowPercentFuzzy(i, sets))}
	}
	for j := 0; j < n; j++ {
		cells[2+n][2+j] = layout.Cell{Content: formatCount(m.ColTotals[j])}
		cells[size-2][2+j] = layout.Cell{Content: formatPercent(m.ColPercentCorrect(j))}
		cells[size-1][2+j] = layout.Cell{Content: formatPercent(m.ColPercentFuzzy(j, sets))}
	}
	cells[2+n][2+n] = layout.Cell{Content: formatCount(m.Grand)}
	cells[size-2][size-2] = layout.Cell{Content: formatPercent(m.OverallPercentCorrect())}
	cells[size-1][size-1] = layout.Cell{Content: formatPercent(m.OverallPercentFuzzy(sets))}

	style := matrixTable()
	style.Spans = []layout.Span{
		{StartCol: 0, StartRow: 0, EndCol: 1, EndRow: 1},
		{StartCol: 2, StartRow: 0, EndCol: -1, EndRow: 0},
		{StartCol: 0, StartRow: 2, EndCol: 0, EndRow: -1},
	}
	for i := 0; i < n; i++ {
		style.Backgrounds = append(style.Backgrounds, layout.Background{
			StartCol: i + 2, StartRow: i + 2, EndCol: i + 2, EndRow: i + 2,
			Color: layout.ShadeCorrect,
		})
	}
	for _, pair := range sets.OffDiagonalPairs() {
		col, row := pair[1]+2, pair[0]+2
		style.Backgrounds = append(style.Backgrounds, layout.Background{
			StartCol: col, StartRow: row, EndCol: col, EndRow: row,
			Color: layout.ShadeFuzzy,
		})
	}

	return &layout.Table{Cells: cells, ColWidths: widths, RowHeights: heights, Style: style}
}

// attributeMatrixWidths sizes the matrix at 4.10 inches: narrow rotated
// label band, class-name column, even class columns, then three fixed
// percent columns.
func attributeMatrixWidths(n int) []float64 {
	widths := []float64{0.25 * layout.Inch, 0.80 * layout.Inch}
	standard := (4.10*layout.Inch - 2.10*layout.Inch) / float64(n)
	for i := 0; i < n; i++ {
		widths = append(widths, standard)
	}
	for i := 0; i < 3; i++ {
		widths = append(widths, 0.35*layout.Inch)
	}
	return widths
}

// attributeMatrixHeights sizes the matrix at 3.20 inches to sit beside
// the local scatterplot
func attributeMatrixHeights(n int) []float64 {
	heights := []float64{0.25 * layout.Inch, 0.80 * layout.Inch}
	standard := (3.20*layout.Inch - 1.05*layout.Inch) / float64(n+3)
	for i := 0; i < n+3; i++ {
		heights = append(heights, standard)
	}
	return heights
}

// attributeFields lists the field names of a set of attributes
func attributeFields(attrs []metadata.Attribute) []string {
	fields := make([]string, len(attrs))
	for i, attr := range attrs {
		fields[i] = attr.FieldName
	}
	return fields
}
