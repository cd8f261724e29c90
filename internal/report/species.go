package report

import (
	"fmt"
	"strings"

	"gnnreport/adapters/tabular"
	"gnnreport/adapters/xmlmeta"
	"gnnreport/domain/core"
	"gnnreport/domain/layout"
	"gnnreport/domain/metadata"
	"gnnreport/internal"
	"gnnreport/internal/params"
)

const speciesIntro = "In this section, we present accuracies and kappa coefficients for " +
	"all tree species that occur on at least 0.5% of observed model plots.  " +
	"The measure of accuracy is based on species presence or absence.  " +
	"Observed presence is defined as a given species occurring on the " +
	"measured plot, whereas predicted presence is defined as the species " +
	"being predicted on any of the nine pixels in the plot footprint. " +
	"As such, errors of commission (observed absent and predicted present) " +
	"tend to be greater than errors of omission (observed present and " +
	"predicted absent)." +
	"\n\n" +
	"Cohen's kappa coefficient (Cohen, 1960) is a statistical measure " +
	"measure of reliability, accounting for agreement occurring by chance. " +
	"The equation for kappa is:"

const kappaEquation = "kappa = (Pr(a) - Pr(e)) / (1.0 - Pr(e))"

const kappaExplanation = "where Pr(a) is the relative observed agreement among raters, " +
	"and Pr(e) is the probability that agreement is due to chance." +
	"\n\n" +
	"**Abbreviations Used:**\n" +
	"OP/PP = Observed Present / Predicted Present\n" +
	"OA/PP = Observed Absent / Predicted Present (errors of commission)\n" +
	"OP/PA = Observed Present / Predicted Absent (errors of omission)\n" +
	"OA/PA = Observed Absent / Predicted Absent"

// SpeciesAccuracy tabulates presence/absence agreement and kappa
// coefficients for every common tree species in the model region
type SpeciesAccuracy struct {
	p   params.Params
	log *internal.Logger
}

func NewSpeciesAccuracy(p params.Params, log *internal.Logger) *SpeciesAccuracy {
	return &SpeciesAccuracy{p: p, log: log}
}

func (f *SpeciesAccuracy) Name() string { return params.SectionSpecies }

func (f *SpeciesAccuracy) Required() []string {
	return []string{
		f.p.Files.SpeciesAccuracyFile,
		f.p.Files.StandMetadataFile,
	}
}

func (f *SpeciesAccuracy) Figures() ([]FigureJob, error) { return nil, nil }

func (f *SpeciesAccuracy) CleanUp() {}

func (f *SpeciesAccuracy) Run() ([]layout.Flowable, error) {
	speciesData, err := tabular.NewTableReader(f.p.Files.SpeciesAccuracyFile).Read()
	if err != nil {
		return nil, err
	}
	standMeta, err := xmlmeta.NewStandMetadataReader(f.p.Files.StandMetadataFile).Read()
	if err != nil {
		return nil, err
	}

	var reportMeta *metadata.ReportMetadata
	if f.p.Files.ReportMetadataFile != "" {
		reportMeta, err = xmlmeta.NewReportMetadataReader(f.p.Files.ReportMetadataFile).Read()
		if err != nil {
			return nil, err
		}
	}

	fields, err := commonSpecies(speciesData, standMeta)
	if err != nil {
		return nil, err
	}
	table, err := f.speciesTable(speciesData, fields, reportMeta)
	if err != nil {
		return nil, err
	}

	story := pageBreak(layout.TemplatePortrait)
	story = append(story,
		makeTitle("Local-Scale Accuracy Assessment:\nSpecies Accuracy at Plot Locations"),
		layout.Paragraph{Text: speciesIntro, Style: "body"},
		layout.Spacer{Height: 0.05 * layout.Inch},
		layout.Paragraph{Text: kappaEquation, Style: "indented"},
		layout.Spacer{Height: 0.05 * layout.Inch},
		layout.Paragraph{Text: kappaExplanation, Style: "body"},
		layout.Spacer{Height: 0.2 * layout.Inch},
		table,
		layout.Spacer{Height: 0.1 * layout.Inch},
	)
	return story, nil
}

func (f *SpeciesAccuracy) speciesTable(speciesData *tabular.Table, fields []string, reportMeta *metadata.ReportMetadata) (*layout.Table, error) {
	rows := [][]layout.Cell{speciesHeaderRow()}
	for _, field := range fields {
		row, err := speciesRow(speciesData, field, reportMeta)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return &layout.Table{
		Cells: rows,
		ColWidths: []float64{
			4.0 * layout.Inch, 1.0 * layout.Inch, 1.5 * layout.Inch, 1.0 * layout.Inch,
		},
		Style: speciesAccuracyTable(),
	}, nil
}

func speciesHeaderRow() []layout.Cell {
	return []layout.Cell{
		{Content: layout.Paragraph{
			Text:  "**Species PLANTS Code\nScientific Name / Common Name**",
			Style: "contact",
		}},
		{Content: layout.Paragraph{Text: "**Species prevalence**", Style: "contact"}},
		{Content: presenceGrid("**OP/PP**", "**OP/PA**", "**OA/PP**", "**OA/PA**")},
		{Content: layout.Paragraph{Text: "**Kappa coefficient**", Style: "contact"}},
	}
}

// commonSpecies intersects the species attributes in the metadata with the
// species reaching 0.5% plot prevalence, sorted by symbol
func commonSpecies(speciesData *tabular.Table, standMeta *metadata.StandMetadata) ([]string, error) {
	var missing []string
	for _, col := range []string{"SPECIES", "PREVALENCE"} {
		if !speciesData.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, core.NewColumnMissingError(missing)
	}

	speciesAttr := make(map[string]bool, len(standMeta.Attributes))
	for _, attr := range standMeta.Attributes {
		if attr.IsSpecies() && !strings.Contains(attr.FieldName, "NOTALY") {
			speciesAttr[attr.FieldName] = true
		}
	}

	common := speciesData.
		Filter(func(r tabular.Row) bool {
			return speciesAttr[r.Get("SPECIES")] && r.Float("PREVALENCE") >= 0.005
		}).
		SortBy(func(a, b tabular.Row) bool { return a.Get("SPECIES") < b.Get("SPECIES") })
	return common.Unique("SPECIES"), nil
}

func speciesRow(speciesData *tabular.Table, field string, reportMeta *metadata.ReportMetadata) ([]layout.Cell, error) {
	subset := speciesData.Filter(func(r tabular.Row) bool { return r.Get("SPECIES") == field })
	if subset.Len() == 0 {
		return nil, fmt.Errorf("%w %s", core.ErrSpeciesUnknown, field)
	}
	prevalence, err := subset.Floats("PREVALENCE")
	if err != nil {
		return nil, err
	}
	kappa, err := subset.Floats("KAPPA")
	if err != nil {
		return nil, err
	}

	return []layout.Cell{
		{Content: layout.Paragraph{Text: speciesName(field, reportMeta), Style: "contact"}},
		{Content: layout.Paragraph{Text: fmt.Sprintf("%.4f", prevalence[0]), Style: "contact_right"}},
		{Content: presenceGrid(
			subset.Cell(0, "OP_PP"), subset.Cell(0, "OP_PA"),
			subset.Cell(0, "OA_PP"), subset.Cell(0, "OA_PA"))},
		{Content: layout.Paragraph{Text: fmt.Sprintf("%.4f", kappa[0]), Style: "contact_right"}},
	}, nil
}

// speciesName expands a species field to its PLANTS symbol with scientific
// and common names when the report metadata knows it
func speciesName(field string, reportMeta *metadata.ReportMetadata) string {
	if reportMeta == nil {
		return field
	}
	symbol := strings.SplitN(field, "_", 2)[0]
	info, err := reportMeta.Species(symbol)
	if err != nil {
		return field
	}
	return fmt.Sprintf("%s\n%s/%s", info.Symbol, info.ScientificName, info.CommonName)
}

// presenceGrid is the 2x2 sub-table of presence/absence cells
func presenceGrid(opPP, opPA, oaPP, oaPA string) *layout.Table {
	cell := func(text string) layout.Cell {
		return layout.Cell{Content: layout.Paragraph{Text: text, Style: "contact_right"}}
	}
	return &layout.Table{
		Cells: [][]layout.Cell{
			{cell(opPP), cell(opPA)},
			{cell(oaPP), cell(oaPA)},
		},
		ColWidths: []float64{0.75 * layout.Inch, 0.75 * layout.Inch},
		Style:     shadedTable(),
	}
}
