package report

import (
	"gnnreport/adapters/xmlmeta"
	"gnnreport/domain/layout"
	"gnnreport/domain/metadata"
	"gnnreport/internal"
	"gnnreport/internal/params"
)

// DataDictionary lists every reported attribute with its description,
// units, and code definitions
type DataDictionary struct {
	p   params.Params
	log *internal.Logger
}

func NewDataDictionary(p params.Params, log *internal.Logger) *DataDictionary {
	return &DataDictionary{p: p, log: log}
}

func (f *DataDictionary) Name() string { return params.SectionDictionary }

func (f *DataDictionary) Required() []string {
	return []string{f.p.Files.StandMetadataFile}
}

func (f *DataDictionary) Figures() ([]FigureJob, error) { return nil, nil }

func (f *DataDictionary) Run() ([]layout.Flowable, error) {
	standMeta, err := xmlmeta.NewStandMetadataReader(f.p.Files.StandMetadataFile).Read()
	if err != nil {
		return nil, err
	}
	attrs := standMeta.Filter(metadata.Accuracy | metadata.Project | metadata.NotSpecies)

	rows := make([][]layout.Cell, 0, len(attrs))
	for _, attr := range attrs {
		rows = append(rows, []layout.Cell{
			{Content: layout.Paragraph{Text: attr.FieldName, Style: "body_10"}},
			{Content: descriptionStack(attr)},
		})
	}
	table := &layout.Table{
		Cells:     rows,
		ColWidths: []float64{1.6 * layout.Inch, 5.4 * layout.Inch},
		Style:     dictionaryTable(),
	}

	story := pageBreak(layout.TemplatePortrait)
	story = append(story,
		makeTitle("**Data Dictionary**"),
		layout.Spacer{Height: 0.1 * layout.Inch},
		table,
		layout.Spacer{Height: 0.1 * layout.Inch},
		layout.Paragraph{Text: speciesNote(f.p.ModelType), Style: "body"},
	)
	return story, nil
}

func (f *DataDictionary) CleanUp() {}

// descriptionStack stacks the field description over its code listing for
// attributes that define codes
func descriptionStack(attr metadata.Attribute) *layout.Table {
	rows := [][]layout.Cell{
		{{Content: layout.Paragraph{
			Text:  attr.Description + attr.UnitsSuffix(),
			Style: "body_10",
		}}},
	}
	if len(attr.Codes) > 0 {
		rows = append(rows, []layout.Cell{{Content: codeTable(attr.Codes)}})
	}
	return &layout.Table{
		Cells:     rows,
		ColWidths: []float64{5.25 * layout.Inch},
		Style:     stackStyle(),
	}
}

func codeTable(codes []metadata.Code) *layout.Table {
	rows := make([][]layout.Cell, 0, len(codes))
	for _, code := range codes {
		rows = append(rows, []layout.Cell{
			{Content: layout.Paragraph{Text: code.Value, Style: "code"}},
			{Content: layout.Paragraph{Text: code.Description, Style: "code"}},
		})
	}
	return &layout.Table{
		Cells:     rows,
		ColWidths: []float64{0.75 * layout.Inch, 4.5 * layout.Inch},
		Style:     codeListTable(),
	}
}

func codeListTable() layout.TableStyle {
	return layout.TableStyle{
		GridWidth: 0.25,
		GridColor: layout.White,
		CellAlign: "left",
		VAlign:    "TOP",
		PadLeft:   6,
		PadRight:  6,
		PadTop:    3,
		PadBottom: 3,
		Backgrounds: []layout.Background{
			{StartCol: 0, StartRow: 0, EndCol: -1, EndRow: -1, Color: layout.CodeCream},
		},
	}
}

func dictionaryTable() layout.TableStyle {
	return layout.TableStyle{
		GridWidth: 1,
		GridColor: layout.White,
		CellAlign: "left",
		VAlign:    "TOP",
		PadLeft:   6,
		PadRight:  6,
		PadTop:    5,
		PadBottom: 5,
		Backgrounds: []layout.Background{
			{StartCol: 0, StartRow: 0, EndCol: -1, EndRow: -1, Color: layout.TableCream},
		},
	}
}

// speciesNote summarizes the species grid attributes without enumerating
// their codes
func speciesNote(modelType params.ModelType) string {
	text := "Individual species abundances are attached to ArcInfo grids " +
		"that LEMMA distributes.  For this model, fields designate species " +
		"codes based on the [USDA PLANTS database](http://plants.usda.gov/) " +
		"from the year 2000, and values represent species"
	switch modelType {
	case params.ModelTypeSppsz, params.ModelTypeSppba:
		text += " basal area (m^2/ha)."
	case params.ModelTypeTrecov, params.ModelTypeWdycov:
		text += " percent cover."
	}
	return text
}
