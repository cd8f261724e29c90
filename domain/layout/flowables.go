package layout

// Inch is one inch in points, the unit of every layout length
const Inch = 72.0

// Page template names a PageBreak can switch to
const (
	TemplateTitle     = "title"
	TemplatePortrait  = "portrait"
	TemplateLandscape = "landscape"
)

// Flowable is one element of a document story. The document engine consumes
// the story top to bottom, breaking pages as needed.
type Flowable interface {
	isFlowable()
}

// Paragraph is styled text. Text carries a minimal markdown subset: **bold**,
// *italic*, [text](url) links, and single newlines as hard line breaks.
type Paragraph struct {
	Text  string
	Style string
}

// Spacer reserves vertical space
type Spacer struct {
	Width  float64
	Height float64
}

// Image places a raster image by path at a fixed size
type Image struct {
	Path   string
	Width  float64
	Height float64
}

// PageBreak ends the page and switches to the named template
type PageBreak struct {
	Template string
}

// Rotated is cell text drawn bottom-to-top
type Rotated struct {
	Text  string
	Style string
}

// Cell is one table cell. Content may be nil (empty), a string (styled by
// the table's TextStyle), a Paragraph, an Image, a Rotated, or a *Table.
type Cell struct {
	Content any
}

// Table lays out cells on fixed column widths. RowHeights may be nil for
// content-sized rows.
type Table struct {
	Cells      [][]Cell
	ColWidths  []float64
	RowHeights []float64
	Style      TableStyle
}

func (Paragraph) isFlowable() {}
func (Spacer) isFlowable()    {}
func (Image) isFlowable()     {}
func (PageBreak) isFlowable() {}
func (*Table) isFlowable()    {}

// Rows returns the row count
func (t *Table) Rows() int {
	return len(t.Cells)
}

// Cols returns the column count
func (t *Table) Cols() int {
	return len(t.ColWidths)
}

// Width sums the column widths
func (t *Table) Width() float64 {
	total := 0.0
	for _, w := range t.ColWidths {
		total += w
	}
	return total
}

// Background shades a rectangular cell range. Coordinates are (column, row)
// pairs; negative indexes count from the end (-1 is the last row or column).
type Background struct {
	StartCol, StartRow int
	EndCol, EndRow     int
	Color              Color
}

// Span merges a rectangular cell range into its top-left cell
type Span struct {
	StartCol, StartRow int
	EndCol, EndRow     int
}

// TableStyle carries the visual treatment of a table
type TableStyle struct {
	GridWidth   float64
	GridColor   Color
	Backgrounds []Background
	Spans       []Span
	HAlign      string // table placement in the frame: LEFT, CENTER, RIGHT
	CellAlign   string // default in-cell text alignment
	VAlign      string // TOP, MIDDLE, BOTTOM
	TextStyle   string // paragraph style applied to raw string cells
	PadLeft     float64
	PadRight    float64
	PadTop      float64
	PadBottom   float64
}

// ResolveIndex maps a possibly negative index onto [0, size)
func ResolveIndex(i, size int) int {
	if i < 0 {
		i += size
	}
	if i < 0 {
		return 0
	}
	if i >= size {
		return size - 1
	}
	return i
}
