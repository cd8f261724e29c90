// Package report builds the accuracy-assessment document one section at a
// time. Each section is a Formatter that declares the input files it needs,
// contributes the figures it wants rendered, and produces its page flowables
// for the document engine.
package report

import (
	"fmt"
	"math"
	"os"
	"strconv"

	"gnnreport/domain/core"
	"gnnreport/domain/layout"
	"gnnreport/domain/metadata"
	"gnnreport/internal"
	"gnnreport/internal/params"
	"gnnreport/ports"
)

// Formatter is one report section. Figures runs before Run so the section's
// charts exist on disk by the time the pages reference them. CleanUp removes
// the generated figure files once the document is written.
type Formatter interface {
	Name() string
	Required() []string
	Figures() ([]FigureJob, error)
	Run() ([]layout.Flowable, error)
	CleanUp()
}

// FigureJob is one chart to render. Exactly one of the two requests is set.
type FigureJob struct {
	Scatter   *ports.ScatterRequest
	Histogram *ports.HistogramRequest
}

// Build returns the formatters for the run's enabled sections, in the
// configured section order.
func Build(p params.Params, log *internal.Logger) []Formatter {
	var formatters []Formatter
	for _, section := range p.Sections {
		switch section {
		case params.SectionIntroduction:
			formatters = append(formatters, NewIntroduction(p, log))
		case params.SectionAccuracyKey:
			formatters = append(formatters, NewAccuracyKey(p, log))
		case params.SectionAttribute:
			formatters = append(formatters, NewAttributeAccuracy(p, log))
		case params.SectionCategorical:
			formatters = append(formatters, NewCategoricalAccuracy(p, log))
		case params.SectionSpecies:
			formatters = append(formatters, NewSpeciesAccuracy(p, log))
		case params.SectionVegclass:
			formatters = append(formatters, NewVegClassMatrix(p, log))
		case params.SectionLocal:
			formatters = append(formatters, NewLocalScatter(p, log))
		case params.SectionRegional:
			formatters = append(formatters, NewRegionalHistogram(p, log))
		case params.SectionRiemann:
			formatters = append(formatters, NewRiemannAccuracy(p, log))
		case params.SectionDictionary:
			formatters = append(formatters, NewDataDictionary(p, log))
		case params.SectionReferences:
			formatters = append(formatters, NewReferences(p, log))
		}
	}
	return formatters
}

// CheckInputs verifies that every file a formatter requires exists on disk
func CheckInputs(f Formatter) error {
	var missing []string
	for _, path := range f.Required() {
		if path == "" {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, path)
		}
	}
	if len(missing) > 0 {
		return core.NewMissingInputError(f.Name(), missing)
	}
	return nil
}

func pageBreak(template string) []layout.Flowable {
	return []layout.Flowable{layout.PageBreak{Template: template}}
}

// makeTitle renders a section banner: the title centered on a brown bar
// spanning the text frame
func makeTitle(text string) layout.Flowable {
	return titleBanner(text, 7.5*layout.Inch, 6, 6)
}

func titleBanner(text string, width, padTop, padBottom float64) layout.Flowable {
	return &layout.Table{
		Cells:     [][]layout.Cell{{{Content: layout.Paragraph{Text: text, Style: "section"}}}},
		ColWidths: []float64{width},
		Style: layout.TableStyle{
			GridWidth: 0.25,
			GridColor: layout.Black,
			Backgrounds: []layout.Background{
				{StartCol: 0, StartRow: 0, EndCol: -1, EndRow: -1, Color: layout.TitleBrown},
			},
			HAlign:    "LEFT",
			VAlign:    "TOP",
			TextStyle: "section",
			PadLeft:   6,
			PadRight:  6,
			PadTop:    padTop,
			PadBottom: padBottom,
		},
	}
}

// figureTable lays figure images out two to a row at 3.4 x 3.0 inches
func figureTable(paths []string) *layout.Table {
	const (
		imgWidth  = 3.4 * layout.Inch
		imgHeight = 3.0 * layout.Inch
	)
	var rows [][]layout.Cell
	for i := 0; i < len(paths); i += 2 {
		row := []layout.Cell{
			{Content: layout.Image{Path: paths[i], Width: imgWidth, Height: imgHeight}},
		}
		if i+1 < len(paths) {
			row = append(row, layout.Cell{
				Content: layout.Image{Path: paths[i+1], Width: imgWidth, Height: imgHeight},
			})
		} else {
			row = append(row, layout.Cell{})
		}
		rows = append(rows, row)
	}
	return &layout.Table{
		Cells:     rows,
		ColWidths: []float64{3.75 * layout.Inch, 3.75 * layout.Inch},
		Style: layout.TableStyle{
			CellAlign: "center",
			VAlign:    "MIDDLE",
			TextStyle: "body",
			PadLeft:   6,
			PadRight:  6,
			PadTop:    6,
			PadBottom: 6,
		},
	}
}

// sideBySide places an image next to a stack of flowable cells in a
// borderless two-column table. When imageLeft is false the image sits on
// the right.
func sideBySide(img layout.Image, cells []layout.Cell, imageLeft bool, gap float64) *layout.Table {
	inner := &layout.Table{
		Cells:     make([][]layout.Cell, len(cells)),
		ColWidths: []float64{7.5*layout.Inch - img.Width - gap},
		Style:     stackStyle(),
	}
	for i, c := range cells {
		inner.Cells[i] = []layout.Cell{c}
	}

	imgCell := layout.Cell{Content: img}
	textCell := layout.Cell{Content: inner}
	row := []layout.Cell{imgCell, textCell}
	widths := []float64{img.Width + gap, inner.ColWidths[0]}
	if !imageLeft {
		row = []layout.Cell{textCell, imgCell}
		widths = []float64{inner.ColWidths[0], img.Width + gap}
	}
	return &layout.Table{
		Cells:     [][]layout.Cell{row},
		ColWidths: widths,
		Style: layout.TableStyle{
			HAlign:    "LEFT",
			VAlign:    "TOP",
			TextStyle: "body",
		},
	}
}

// stackStyle is a zero-padding single-column treatment for nested stacks
func stackStyle() layout.TableStyle {
	return layout.TableStyle{
		CellAlign: "left",
		VAlign:    "TOP",
		TextStyle: "body",
	}
}

// Named table treatments shared across sections.

func shadedTable() layout.TableStyle {
	s := layout.DefaultTableStyle()
	s.Backgrounds = []layout.Background{
		{StartCol: 0, StartRow: 0, EndCol: -1, EndRow: -1, Color: layout.TableCream},
	}
	return s
}

func noPaddingTable() layout.TableStyle {
	return layout.TableStyle{
		CellAlign: "left",
		VAlign:    "TOP",
		TextStyle: "body",
	}
}

func contactsTable() layout.TableStyle {
	return layout.TableStyle{
		CellAlign: "left",
		VAlign:    "TOP",
		TextStyle: "body_9",
		PadLeft:   2,
		PadRight:  2,
		PadTop:    2,
		PadBottom: 2,
	}
}

func plotListingTable() layout.TableStyle {
	s := shadedTable()
	s.TextStyle = "contact"
	return s
}

func speciesAccuracyTable() layout.TableStyle {
	s := shadedTable()
	s.VAlign = "MIDDLE"
	s.TextStyle = "contact"
	return s
}

func matrixTable() layout.TableStyle {
	return layout.TableStyle{
		VAlign:    "MIDDLE",
		TextStyle: "matrix_cell",
		PadLeft:   1,
		PadRight:  1,
		PadTop:    1,
		PadBottom: 1,
	}
}

// shortDescription prefers the display description, falling back to the
// full description for attributes without one
func shortDescription(attr metadata.Attribute) string {
	if attr.ShortDescription != "" {
		return attr.ShortDescription
	}
	return attr.Description
}

// formatCount renders a matrix count the way the source files carry it:
// whole values without a decimal, fractional values to one place
func formatCount(v float64) string {
	if v == math.Trunc(v) {
		return strconv.Itoa(int(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

// removeFiles deletes generated figures, ignoring ones already gone
func removeFiles(log *internal.Logger, paths []string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			log.Warn("could not remove %s: %v", path, err)
		}
	}
}
