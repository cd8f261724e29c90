package report

import (
	"fmt"
	"strconv"
	"strings"

	"gnnreport/adapters/tabular"
	"gnnreport/adapters/xmlmeta"
	"gnnreport/domain/layout"
	"gnnreport/domain/metadata"
	"gnnreport/internal"
	"gnnreport/internal/errors"
	"gnnreport/internal/params"
)

const vegclassCellNote = "Cell values are model plot counts.  Dark gray cells represent " +
	"plots where the observed class matches the predicted class and are " +
	"included in the percent correct.  Light gray cells represent cases " +
	"where the observed and predicted differ slightly (within +/- one " +
	"class) based on canopy cover, hardwood proportion or average stand " +
	"diameter, and are included in the percent fuzzy correct."

const vegclassDefinitionsHead = "**Vegetation Class (VEGCLASS) Definitions** -- " +
	"CANCOV (canopy cover of all live trees), BAH_PROP (proportion of " +
	"hardwood basal area), and QMD_DOM (quadratic mean diameter of all " +
	"dominant and codominant trees)."

// vegclassFuzzy maps each 1-based vegetation class to the classes counted
// as fuzzy agreement with it. Classes neighbor each other along canopy
// cover, hardwood proportion and stand diameter, not just class number.
var vegclassFuzzy = map[int][]int{
	1:  {2},
	2:  {1, 3, 5, 8},
	3:  {2, 4, 5},
	4:  {3, 6, 7},
	5:  {2, 3, 6, 8},
	6:  {4, 5, 7, 9},
	7:  {4, 6, 10, 11},
	8:  {2, 5, 9},
	9:  {6, 8, 10},
	10: {7, 9, 11},
	11: {7, 10},
}

// VegClassMatrix renders the landscape error-matrix page for the synthetic
// vegetation class attribute, from the pre-tabulated matrix file
type VegClassMatrix struct {
	p   params.Params
	log *internal.Logger
}

func NewVegClassMatrix(p params.Params, log *internal.Logger) *VegClassMatrix {
	return &VegClassMatrix{p: p, log: log}
}

func (f *VegClassMatrix) Name() string { return params.SectionVegclass }

func (f *VegClassMatrix) Required() []string {
	return []string{
		f.p.Files.VegclassMatrixFile,
		f.p.Files.StandMetadataFile,
	}
}

func (f *VegClassMatrix) Figures() ([]FigureJob, error) { return nil, nil }

func (f *VegClassMatrix) CleanUp() {}

func (f *VegClassMatrix) Run() ([]layout.Flowable, error) {
	matrixData, err := tabular.NewTableReader(f.p.Files.VegclassMatrixFile).Read()
	if err != nil {
		return nil, err
	}
	standMeta, err := xmlmeta.NewStandMetadataReader(f.p.Files.StandMetadataFile).Read()
	if err != nil {
		return nil, err
	}
	vegclass, err := standMeta.Attribute("VEGCLASS")
	if err != nil {
		return nil, err
	}

	table, err := vegclassTable(matrixData, vegclass.Codes)
	if err != nil {
		return nil, err
	}

	story := pageBreak(layout.TemplateLandscape)
	story = append(story,
		titleBanner(
			"**Local-Scale Accuracy Assessment: Error Matrix for Vegetation Classes at Plot Locations**",
			10.0*layout.Inch, 3, 3),
		layout.Spacer{Height: 0.1 * layout.Inch},
		table,
		layout.Spacer{Height: 0.1 * layout.Inch},
		layout.Paragraph{Text: vegclassCellNote, Style: "body_9"},
		layout.Spacer{Height: 0.1 * layout.Inch},
		layout.Paragraph{Text: vegclassDefinitionsHead, Style: "body_9"},
		layout.Spacer{Height: 0.1 * layout.Inch},
	)
	for _, code := range vegclass.Codes {
		story = append(story, layout.Paragraph{
			Text:  fmt.Sprintf("**%s:** %s", code.Label, code.Description),
			Style: "body_9",
		})
	}
	return story, nil
}

// vegclassTable lays out the pre-tabulated matrix. The file carries one row
// per observed class plus total, percent correct and percent fuzzy correct
// rows, with the matching columns after the observed-class label.
func vegclassTable(matrixData *tabular.Table, codes []metadata.Code) (*layout.Table, error) {
	nClasses := len(codes)
	nData := matrixData.Len()

	rightCell := func(text string) layout.Cell {
		return layout.Cell{Content: layout.Paragraph{Text: text, Style: "body_10_right"}}
	}

	// Two header rows: the spanned Predicted Class banner, then the
	// class labels broken at hyphens to keep the columns narrow
	banner := make([]layout.Cell, 2, nData+2)
	banner = append(banner, layout.Cell{
		Content: layout.Paragraph{Text: "**Predicted Class**", Style: "body_10_center"},
	})
	for i := 0; i < nData-1; i++ {
		banner = append(banner, layout.Cell{})
	}

	labels := make([]layout.Cell, 2, nData+2)
	for _, code := range codes {
		labels = append(labels, rightCell(strings.ReplaceAll(code.Label, "-", "-\n")))
	}
	for _, label := range []string{"Total", "%\nCorrect", "%\nFCorrect"} {
		labels = append(labels, rightCell(label))
	}

	rows := [][]layout.Cell{banner, labels}

	// Intersections of the summary rows and columns stay blank, except
	// the grand total and the overall percent cells
	blank := map[[2]int]bool{
		{nClasses, nClasses + 1}:     true,
		{nClasses, nClasses + 2}:     true,
		{nClasses + 1, nClasses}:     true,
		{nClasses + 1, nClasses + 2}: true,
		{nClasses + 2, nClasses}:     true,
		{nClasses + 2, nClasses + 1}: true,
	}

	for i, raw := range matrixData.Rows {
		if len(raw) < nData+1 {
			return nil, errors.DataReadError(fmt.Sprintf(
				"vegclass matrix row %d has %d columns, want %d", i, len(raw), nData+1))
		}

		row := make([]layout.Cell, 0, nData+2)
		if i == 0 {
			row = append(row, layout.Cell{
				Content: layout.Rotated{Text: "Observed Class", Style: "body_10_bold"},
			})
		} else {
			row = append(row, layout.Cell{})
		}

		if i < nClasses {
			row = append(row, rightCell(codes[i].Label))
		} else {
			row = append(row, rightCell([]string{"Total", "% Correct", "% FCorrect"}[i-nClasses]))
		}

		// First data column is the observed-class label, already shown
		for j, cell := range raw[1:] {
			if blank[[2]int{i, j}] {
				row = append(row, rightCell(""))
				continue
			}
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, errors.DataReadError(fmt.Sprintf(
					"vegclass matrix cell %d,%d is not numeric: %q", i, j, cell))
			}
			if i <= nClasses && j <= nClasses {
				row = append(row, rightCell(strconv.Itoa(int(v))))
			} else {
				row = append(row, rightCell(fmt.Sprintf("%.1f", v)))
			}
		}
		rows = append(rows, row)
	}

	widths := []float64{0.3 * layout.Inch, 0.85 * layout.Inch}
	for i := 0; i < nClasses; i++ {
		widths = append(widths, 0.56*layout.Inch)
	}
	for i := 0; i < 3; i++ {
		widths = append(widths, 0.66*layout.Inch)
	}

	style := layout.TableStyle{
		GridWidth: 1,
		GridColor: layout.White,
		VAlign:    "MIDDLE",
		PadLeft:   6,
		PadRight:  6,
		PadTop:    2,
		PadBottom: 3,
		Spans: []layout.Span{
			{StartCol: 0, StartRow: 0, EndCol: 1, EndRow: 1},
			{StartCol: 0, StartRow: 2, EndCol: 0, EndRow: -1},
			{StartCol: 2, StartRow: 0, EndCol: -1, EndRow: 0},
		},
		Backgrounds: []layout.Background{
			{StartCol: 0, StartRow: 0, EndCol: -1, EndRow: -1, Color: layout.TableCream},
		},
	}
	for class := 1; class <= nClasses; class++ {
		style.Backgrounds = append(style.Backgrounds, layout.Background{
			StartCol: class + 1, StartRow: class + 1, EndCol: class + 1, EndRow: class + 1,
			Color: layout.ShadeCorrect,
		})
	}
	for class := 1; class <= nClasses; class++ {
		for _, fuzzy := range vegclassFuzzy[class] {
			style.Backgrounds = append(style.Backgrounds, layout.Background{
				StartCol: class + 1, StartRow: fuzzy + 1, EndCol: class + 1, EndRow: fuzzy + 1,
				Color: layout.ShadeFuzzy,
			})
		}
	}

	return &layout.Table{Cells: rows, ColWidths: widths, Style: style}, nil
}
