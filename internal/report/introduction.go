package report

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"gnnreport/adapters/xmlmeta"
	"gnnreport/domain/layout"
	"gnnreport/domain/metadata"
	"gnnreport/internal"
	"gnnreport/internal/params"
)

// Introduction builds the report cover and the general model information
// pages: region overview, contacts, plot inventory and spatial predictors.
type Introduction struct {
	p   params.Params
	log *internal.Logger
}

func NewIntroduction(p params.Params, log *internal.Logger) *Introduction {
	return &Introduction{p: p, log: log}
}

func (f *Introduction) Name() string { return params.SectionIntroduction }

func (f *Introduction) Required() []string {
	return []string{f.p.Files.ReportMetadataFile}
}

func (f *Introduction) Figures() ([]FigureJob, error) { return nil, nil }

func (f *Introduction) CleanUp() {}

func (f *Introduction) Run() ([]layout.Flowable, error) {
	meta, err := xmlmeta.NewReportMetadataReader(f.p.Files.ReportMetadataFile).Read()
	if err != nil {
		return nil, err
	}

	var story []layout.Flowable
	story = append(story, f.heading(meta)...)
	story = append(story, f.regionDescription(meta)...)
	story = append(story, f.contactInformation(meta)...)
	story = append(story, f.websiteInformation()...)
	story = append(story, pageBreak(layout.TemplatePortrait)...)
	story = append(story, f.modelInformation(meta)...)
	story = append(story, f.plotMatching()...)
	story = append(story, f.maskInformation()...)
	story = append(story, pageBreak(layout.TemplatePortrait)...)
	story = append(story, f.plotsByDate(meta)...)
	story = append(story, pageBreak(layout.TemplatePortrait)...)
	story = append(story, f.spatialPredictors(meta)...)
	return story, nil
}

// heading is the report cover block: program logo beside the title and the
// model identification lines
func (f *Introduction) heading(meta *metadata.ReportMetadata) []layout.Flowable {
	logo := layout.Image{
		Path:   asset(f.p, logoImage),
		Width:  2.0 * layout.Inch,
		Height: 1.96 * layout.Inch,
	}
	titleBlock := []layout.Cell{
		{Content: layout.Spacer{Height: 0.2 * layout.Inch}},
		{Content: layout.Paragraph{Text: "GNN Accuracy Assessment Report", Style: "title"}},
		{Content: layout.Paragraph{
			Text:  fmt.Sprintf("%s (Modeling Region %d)", meta.ModelRegionName, f.p.ModelRegion),
			Style: "sub_title",
		}},
		{Content: layout.Paragraph{
			Text:  fmt.Sprintf("Model Type: %s", f.p.ModelType.Description()),
			Style: "sub_title",
		}},
		{Content: layout.Paragraph{
			Text:  fmt.Sprintf("Release Version: %s", ReleaseVersion),
			Style: "sub_title",
		}},
	}
	return []layout.Flowable{
		sideBySide(logo, titleBlock, true, 12),
		layout.Spacer{Height: 0.3 * layout.Inch},
	}
}

// regionDescription shows the model region locator map beside the overview
func (f *Introduction) regionDescription(meta *metadata.ReportMetadata) []layout.Flowable {
	regionMap := layout.Image{
		Path:   meta.ImagePath,
		Width:  3.0 * layout.Inch,
		Height: 3.86 * layout.Inch,
	}
	overview := []layout.Cell{
		{Content: layout.Paragraph{Text: "Overview", Style: "heading"}},
		{Content: layout.Paragraph{Text: meta.Overview, Style: "body"}},
	}
	return []layout.Flowable{
		sideBySide(regionMap, overview, true, 6),
		layout.Spacer{Height: 0.2 * layout.Inch},
	}
}

func (f *Introduction) contactInformation(meta *metadata.ReportMetadata) []layout.Flowable {
	cols := len(meta.Contacts)
	if cols > 3 {
		cols = 3
	}
	if cols == 0 {
		cols = 1
	}

	var rows [][]layout.Cell
	var row []layout.Cell
	for _, c := range meta.Contacts {
		text := fmt.Sprintf("**%s**\n%s\n%s\nPhone: %s\nEmail: %s",
			c.Name, c.PositionTitle, c.Affiliation, c.PhoneNumber, c.EmailAddress)
		row = append(row, layout.Cell{Content: layout.Paragraph{Text: text, Style: "body_9"}})
		if len(row) == cols {
			rows = append(rows, row)
			row = nil
		}
	}
	if len(row) > 0 {
		for len(row) < cols {
			row = append(row, layout.Cell{})
		}
		rows = append(rows, row)
	}

	widths := make([]float64, cols)
	for i := range widths {
		widths[i] = 7.5 * layout.Inch / float64(cols)
	}
	table := &layout.Table{Cells: rows, ColWidths: widths, Style: contactsTable()}

	return []layout.Flowable{
		layout.Paragraph{Text: "Contact Information:", Style: "heading"},
		layout.Spacer{Height: 0.1 * layout.Inch},
		table,
		layout.Spacer{Height: 0.15 * layout.Inch},
	}
}

func (f *Introduction) websiteInformation() []layout.Flowable {
	return []layout.Flowable{
		layout.Paragraph{
			Text:  "**LEMMA Website:** [https://lemma.forestry.oregonstate.edu](https://lemma.forestry.oregonstate.edu/)",
			Style: "body",
		},
	}
}

func (f *Introduction) modelInformation(meta *metadata.ReportMetadata) []layout.Flowable {
	regionHa := meta.ModelRegionArea
	regionAc := regionHa * acresPerHectare
	forestHa := meta.ForestArea
	forestAc := forestHa * acresPerHectare

	rows := []string{
		fmt.Sprintf("**Report Date:** %s", time.Now().Format("2006.01.02")),
		fmt.Sprintf("**Model Region Area:** %s hectares (%s acres)",
			humanize.Comma(int64(regionHa)), humanize.Comma(int64(regionAc))),
		fmt.Sprintf("**Forest Area:** %s hectares (%s acres) - %.1f%%",
			humanize.Comma(int64(forestHa)), humanize.Comma(int64(forestAc)), meta.ForestPercent()),
		fmt.Sprintf("**Model Imagery Date:** %d", f.p.ModelYear),
	}

	story := []layout.Flowable{
		layout.Paragraph{Text: "General Information", Style: "heading"},
		layout.Spacer{Height: 0.1 * layout.Inch},
	}
	for _, text := range rows {
		story = append(story,
			layout.Paragraph{Text: text, Style: "body"},
			layout.Spacer{Height: 0.1 * layout.Inch})
	}
	return story
}

const plotMatchingText = "The current versions of the GNN maps were developed " +
	"using data from inventory plots that span a range of dates, and from a " +
	"yearly time-series of Landsat imagery mosaics from 1985 to 2017 developed " +
	"using the Landscape Change Monitoring Study (LCMS) algorithms (Cohen et " +
	"al., 2018). For model development, plots were matched to spectral data " +
	"for the same year as plot measurement. In addition, because as many as " +
	"four plots were measured at a given plot location, we constrained the " +
	"imputation for a given map year to only one plot from each location -- " +
	"the plot nearest in date to the imagery (map) year. See Ohmann et al. " +
	"(2014) for more detailed information about the GNN modeling process."

func (f *Introduction) plotMatching() []layout.Flowable {
	return []layout.Flowable{
		layout.Paragraph{
			Text:  "**Matching Plots to Imagery for Model Development:**",
			Style: "body",
		},
		layout.Spacer{Height: 0.1 * layout.Inch},
		layout.Paragraph{Text: plotMatchingText, Style: "body"},
		layout.Spacer{Height: 0.10 * layout.Inch},
	}
}

const maskText = "An important limitation of the GNN map products is the " +
	"separation of forest and nonforest lands. The GNN modeling applies to " +
	"forest areas only, where we have detailed field plot data. Nonforest " +
	"areas are 'masked' as such using an ancillary map. In California, Oregon, " +
	"Washington and parts of adjacent states, we are using maps of Ecological " +
	"Systems developed for the Gap Analysis Program (GAP) as our nonforest " +
	"mask. For our current GNN rasters, nonforest pixels are designated by " +
	"the value -1.\n\nThere are 'unmasked' versions of our GNN maps available " +
	"upon request, in case you have an alternative map of nonforest for your " +
	"area of interest that you would like to apply to the GNN maps."

func (f *Introduction) maskInformation() []layout.Flowable {
	return []layout.Flowable{
		layout.Paragraph{Text: "**Nonforest Mask Information:**", Style: "body"},
		layout.Spacer{Height: 0.1 * layout.Inch},
		layout.Paragraph{Text: maskText, Style: "body"},
		layout.Spacer{Height: 0.1 * layout.Inch},
	}
}

// yearSpanThreshold switches a source's year listing from a nested table to
// a single min-max summary line
const yearSpanThreshold = 30

func (f *Introduction) plotsByDate(meta *metadata.ReportMetadata) []layout.Flowable {
	header := []layout.Cell{
		{Content: layout.Paragraph{Text: "**Data Source**", Style: "contact"}},
		{Content: layout.Paragraph{Text: "**Description**", Style: "contact"}},
		{Content: layout.Paragraph{Text: "**Plot Count by Year**", Style: "contact"}},
	}
	rows := [][]layout.Cell{header}

	total := 0
	for _, source := range meta.PlotDataSources {
		total += source.TotalPlots()
		rows = append(rows, f.dataSourceRow(source))
	}

	rows = append(rows, []layout.Cell{
		{},
		{Content: layout.Paragraph{Text: "Total Plots", Style: "contact_right_bold"}},
		{Content: layout.Paragraph{Text: fmt.Sprintf("%d", total), Style: "contact_right_bold"}},
	})

	table := &layout.Table{
		Cells:     rows,
		ColWidths: []float64{1.5 * layout.Inch, 4.2 * layout.Inch, 1.5 * layout.Inch},
		Style:     plotListingTable(),
	}
	table.Style.HAlign = "LEFT"

	return []layout.Flowable{
		layout.Paragraph{Text: "**Inventory Plots in Model Development**", Style: "heading"},
		layout.Spacer{Height: 0.10 * layout.Inch},
		table,
	}
}

func (f *Introduction) dataSourceRow(source metadata.PlotDataSource) []layout.Cell {
	row := []layout.Cell{
		{Content: layout.Paragraph{Text: source.DataSource, Style: "contact"}},
		{Content: layout.Paragraph{Text: source.Description, Style: "contact"}},
	}

	if len(source.AssessmentYears) > yearSpanThreshold {
		minYear, maxYear := source.YearRange()
		summary := fmt.Sprintf("%d-%d: %d", minYear, maxYear, source.TotalPlots())
		return append(row, layout.Cell{
			Content: layout.Paragraph{Text: summary, Style: "contact_right"},
		})
	}

	var yearRows [][]layout.Cell
	for _, y := range source.AssessmentYears {
		yearRows = append(yearRows, []layout.Cell{
			{Content: layout.Paragraph{Text: fmt.Sprintf("%d", y.Year), Style: "contact_right"}},
			{Content: layout.Paragraph{Text: fmt.Sprintf("%d", y.PlotCount), Style: "contact_right"}},
		})
	}
	years := &layout.Table{
		Cells:     yearRows,
		ColWidths: []float64{0.7 * layout.Inch, 0.7 * layout.Inch},
		Style:     shadedTable(),
	}
	return append(row, layout.Cell{Content: years})
}

const predictorsIntro = "The list below represents the spatial predictor " +
	"(GIS/remote sensing) variables that were used in creating this model."

func (f *Introduction) spatialPredictors(meta *metadata.ReportMetadata) []layout.Flowable {
	rows := [][]layout.Cell{{
		{Content: layout.Paragraph{Text: "**Variable**", Style: "contact"}},
		{Content: layout.Paragraph{Text: "**Description**", Style: "contact"}},
		{Content: layout.Paragraph{Text: "**Data Source**", Style: "contact"}},
	}}
	for _, v := range meta.OrdinationVariables {
		rows = append(rows, []layout.Cell{
			{Content: layout.Paragraph{Text: v.FieldName, Style: "contact"}},
			{Content: layout.Paragraph{Text: v.Description, Style: "contact"}},
			{Content: layout.Paragraph{Text: v.Source, Style: "contact"}},
		})
	}

	table := &layout.Table{
		Cells:     rows,
		ColWidths: []float64{1.0 * layout.Inch, 2.4 * layout.Inch, 3.8 * layout.Inch},
		Style:     shadedTable(),
	}
	table.Style.HAlign = "LEFT"
	table.Style.TextStyle = "contact"

	return []layout.Flowable{
		layout.Paragraph{Text: "Spatial Predictor Variables in Model Development", Style: "heading"},
		layout.Spacer{Height: 0.10 * layout.Inch},
		layout.Paragraph{Text: predictorsIntro, Style: "body"},
		layout.Spacer{Height: 0.1 * layout.Inch},
		table,
	}
}
