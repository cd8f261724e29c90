package pdf

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-pdf/fpdf"

	"gnnreport/domain/layout"
)

func TestParseSpans(t *testing.T) {
	spans := parseSpans("**Code 1:** Sparse *vegetation* at [PLANTS](https://plants.usda.gov)")

	if len(spans) < 4 {
		t.Fatalf("Expected at least 4 spans, got %d: %+v", len(spans), spans)
	}
	if spans[0].text != "Code 1:" || !spans[0].bold {
		t.Errorf("First span = %+v, expected bold 'Code 1:'", spans[0])
	}

	var sawItalic, sawLink bool
	for _, sp := range spans {
		if sp.italic && strings.TrimSpace(sp.text) == "vegetation" {
			sawItalic = true
		}
		if sp.link == "https://plants.usda.gov" {
			sawLink = true
		}
	}
	if !sawItalic {
		t.Error("Missing italic span for 'vegetation'")
	}
	if !sawLink {
		t.Error("Missing link span")
	}
}

func TestParseSpansHardBreak(t *testing.T) {
	spans := parseSpans("first\nsecond")

	var sawBreak bool
	for _, sp := range spans {
		if sp.brk {
			sawBreak = true
		}
	}
	if !sawBreak {
		t.Errorf("Expected a hard break span: %+v", spans)
	}
}

func TestTokenizeGlue(t *testing.T) {
	tokens := tokenize(parseSpans("R**2** value"))

	if len(tokens) != 3 {
		t.Fatalf("Expected 3 tokens, got %d: %+v", len(tokens), tokens)
	}
	if tokens[0].text != "R" || tokens[0].glue {
		t.Errorf("tokens[0] = %+v", tokens[0])
	}
	if tokens[1].text != "2" || !tokens[1].bold || !tokens[1].glue {
		t.Errorf("tokens[1] = %+v, expected glued bold '2'", tokens[1])
	}
	if tokens[2].text != "value" || tokens[2].glue {
		t.Errorf("tokens[2] = %+v, expected spaced 'value'", tokens[2])
	}
}

func TestResolveSpansNegativeIndexes(t *testing.T) {
	table := &layout.Table{
		Cells:     makeCells(3, 3),
		ColWidths: []float64{10, 10, 10},
		Style: layout.TableStyle{
			Spans: []layout.Span{{StartCol: 0, StartRow: 0, EndCol: -1, EndRow: 0}},
		},
	}

	anchors, covered := resolveSpans(table)
	ext, ok := anchors[gridKey{0, 0}]
	if !ok || ext.cols != 3 || ext.rows != 1 {
		t.Fatalf("Anchor extent = %+v, ok=%v", ext, ok)
	}
	if !covered[gridKey{0, 1}] || !covered[gridKey{0, 2}] {
		t.Error("Span should cover the rest of the first row")
	}
	if covered[gridKey{1, 1}] {
		t.Error("Second row should not be covered")
	}
}

func makeCells(rows, cols int) [][]layout.Cell {
	cells := make([][]layout.Cell, rows)
	for r := range cells {
		cells[r] = make([]layout.Cell, cols)
	}
	return cells
}

func TestFrameFor(t *testing.T) {
	portrait := frameFor(layout.TemplatePortrait)
	if portrait.w != 7.5*layout.Inch || portrait.h != 10*layout.Inch {
		t.Errorf("Portrait frame = %+v", portrait)
	}

	landscape := frameFor(layout.TemplateLandscape)
	if landscape.w != 10*layout.Inch || landscape.h != 7.5*layout.Inch {
		t.Errorf("Landscape frame = %+v", landscape)
	}

	title := frameFor(layout.TemplateTitle)
	if title.w != portrait.w || title.h != portrait.h {
		t.Errorf("Title frame should match portrait, got %+v", title)
	}
}

func newTestDocument() *document {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	return &document{
		pdf:             pdf,
		fonts:           registerFonts(pdf, ""),
		styles:          layout.Styles(),
		pendingBreak:    true,
		pendingTemplate: layout.TemplateTitle,
	}
}

func TestRowHeightsExplicitOverride(t *testing.T) {
	d := newTestDocument()
	table := &layout.Table{
		Cells: [][]layout.Cell{
			{{Content: "one"}, {Content: "two"}},
			{{Content: "three"}, {Content: "four"}},
		},
		ColWidths:  []float64{100, 100},
		RowHeights: []float64{50, 0},
		Style:      layout.DefaultTableStyle(),
	}

	heights := d.rowHeights(table)
	if heights[0] != 50 {
		t.Errorf("Explicit row height = %v, expected 50", heights[0])
	}
	if heights[1] <= 0 {
		t.Errorf("Content row height = %v, expected positive", heights[1])
	}
}

func TestTableHeightSumsRows(t *testing.T) {
	d := newTestDocument()
	table := &layout.Table{
		Cells: [][]layout.Cell{
			{{Content: "a"}},
			{{Content: "b"}},
		},
		ColWidths:  []float64{100},
		RowHeights: []float64{40, 60},
		Style:      layout.DefaultTableStyle(),
	}

	if h := d.tableHeight(table); h != 100 {
		t.Errorf("tableHeight = %v, expected 100", h)
	}
}

func writeTestPNG(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 30), G: uint8(y * 30), B: 128, A: 255})
		}
	}
	path := filepath.Join(dir, "figure.png")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create test image: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode test image: %v", err)
	}
	return path
}

func TestRenderWritesPDF(t *testing.T) {
	dir := t.TempDir()
	imgPath := writeTestPNG(t, dir)
	outPath := filepath.Join(dir, "report.pdf")

	matrix := &layout.Table{
		Cells: [][]layout.Cell{
			{{}, {Content: layout.Paragraph{Text: "Predicted class", Style: "matrix_center"}}, {}},
			{{Content: layout.Rotated{Text: "Observed class", Style: "matrix_center"}}, {Content: "12"}, {Content: "3"}},
			{{}, {Content: "4"}, {Content: "15"}},
		},
		ColWidths: []float64{0.25 * layout.Inch, 0.8 * layout.Inch, 0.8 * layout.Inch},
		Style: layout.TableStyle{
			GridWidth: 0.25,
			GridColor: layout.Black,
			CellAlign: "right",
			VAlign:    "MIDDLE",
			TextStyle: "matrix_cell",
			Spans: []layout.Span{
				{StartCol: 1, StartRow: 0, EndCol: -1, EndRow: 0},
				{StartCol: 0, StartRow: 1, EndCol: 0, EndRow: -1},
			},
			Backgrounds: []layout.Background{
				{StartCol: 1, StartRow: 1, EndCol: 1, EndRow: 1, Color: layout.ShadeCorrect},
				{StartCol: 2, StartRow: 1, EndCol: 2, EndRow: 1, Color: layout.ShadeFuzzy},
			},
			PadLeft: 2, PadRight: 2, PadTop: 2, PadBottom: 2,
		},
	}

	story := []layout.Flowable{
		layout.Spacer{Height: 0.5 * layout.Inch},
		layout.Paragraph{Text: "GNN Accuracy Assessment Report", Style: "title"},
		layout.Paragraph{Text: "Basal area **observed** versus *predicted* counts.", Style: "body"},
		layout.Image{Path: imgPath, Width: 1.5 * layout.Inch, Height: 1.5 * layout.Inch},
		matrix,
		layout.PageBreak{Template: layout.TemplateLandscape},
		layout.Paragraph{Text: "Vegetation class error matrix", Style: "body_16"},
		layout.PageBreak{Template: layout.TemplatePortrait},
		layout.Paragraph{Text: "References", Style: "heading"},
	}

	engine := NewEngine("")
	if err := engine.Render(story, outPath); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Output missing: %v", err)
	}
	if len(data) < 1000 {
		t.Errorf("PDF suspiciously small: %d bytes", len(data))
	}
	if !strings.HasPrefix(string(data[:5]), "%PDF-") {
		t.Errorf("Output does not start with PDF magic: %q", data[:8])
	}
}

func TestRenderMissingImageFails(t *testing.T) {
	dir := t.TempDir()
	story := []layout.Flowable{
		layout.Image{Path: filepath.Join(dir, "no_such.png"), Width: 72, Height: 72},
	}

	engine := NewEngine("")
	err := engine.Render(story, filepath.Join(dir, "broken.pdf"))
	if err == nil {
		t.Fatal("Expected error for missing image")
	}
}

func TestLongStoryBreaksPages(t *testing.T) {
	dir := t.TempDir()
	outPath := filepath.Join(dir, "long.pdf")

	var story []layout.Flowable
	for i := 0; i < 120; i++ {
		story = append(story, layout.Paragraph{
			Text:  "Accuracy assessment compares plot observations against model predictions across the region.",
			Style: "body",
		})
	}

	engine := NewEngine("")
	if err := engine.Render(story, outPath); err != nil {
		t.Fatalf("Render() failed: %v", err)
	}

	info, err := os.Stat(outPath)
	if err != nil || info.Size() == 0 {
		t.Fatalf("Output missing or empty: %v", err)
	}
}
