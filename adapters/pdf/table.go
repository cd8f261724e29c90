package pdf

import (
	"strings"

	"gnnreport/domain/layout"
)

type gridKey struct{ row, col int }

type extent struct{ rows, cols int }

// resolveSpans returns the merge extent per anchor cell and the set of
// cells hidden under another cell's span
func resolveSpans(t *layout.Table) (map[gridKey]extent, map[gridKey]bool) {
	anchors := make(map[gridKey]extent)
	covered := make(map[gridKey]bool)
	rows, cols := t.Rows(), t.Cols()

	for _, sp := range t.Style.Spans {
		c0 := layout.ResolveIndex(sp.StartCol, cols)
		r0 := layout.ResolveIndex(sp.StartRow, rows)
		c1 := layout.ResolveIndex(sp.EndCol, cols)
		r1 := layout.ResolveIndex(sp.EndRow, rows)
		if c1 < c0 {
			c0, c1 = c1, c0
		}
		if r1 < r0 {
			r0, r1 = r1, r0
		}
		anchors[gridKey{r0, c0}] = extent{rows: r1 - r0 + 1, cols: c1 - c0 + 1}
		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				if r == r0 && c == c0 {
					continue
				}
				covered[gridKey{r, c}] = true
			}
		}
	}
	return anchors, covered
}

// cellTextStyle resolves the style for a raw string cell, applying the
// table's default cell alignment
func (d *document) cellTextStyle(tblSty layout.TableStyle) layout.TextStyle {
	sty := layout.StyleOrBody(d.styles, tblSty.TextStyle)
	if align := strings.ToLower(tblSty.CellAlign); align != "" && align != "left" {
		sty.Alignment = align
	}
	return sty
}

func (d *document) cellContentHeight(cell layout.Cell, width float64, tblSty layout.TableStyle) float64 {
	switch v := cell.Content.(type) {
	case nil:
		return 0
	case string:
		if v == "" {
			return 0
		}
		return d.textHeight(v, d.cellTextStyle(tblSty), width)
	case layout.Paragraph:
		return d.textHeight(v.Text, layout.StyleOrBody(d.styles, v.Style), width)
	case layout.Image:
		return v.Height
	case layout.Spacer:
		return v.Height
	case layout.Rotated:
		return layout.StyleOrBody(d.styles, v.Style).Leading
	case *layout.Table:
		return d.tableHeight(v)
	}
	return 0
}

// rowHeights sizes each row: explicit heights win, otherwise the tallest
// cell content plus vertical padding. Cells spanning multiple rows do not
// drive the height of their start row.
func (d *document) rowHeights(t *layout.Table) []float64 {
	rows := t.Rows()
	heights := make([]float64, rows)
	anchors, covered := resolveSpans(t)

	for r := 0; r < rows; r++ {
		if r < len(t.RowHeights) && t.RowHeights[r] > 0 {
			heights[r] = t.RowHeights[r]
			continue
		}
		max := 0.0
		for c := 0; c < len(t.Cells[r]) && c < t.Cols(); c++ {
			key := gridKey{r, c}
			if covered[key] {
				continue
			}
			spanCols := 1
			if ext, ok := anchors[key]; ok {
				if ext.rows > 1 {
					continue
				}
				spanCols = ext.cols
			}
			width := spanWidth(t.ColWidths, c, spanCols) - t.Style.PadLeft - t.Style.PadRight
			h := d.cellContentHeight(t.Cells[r][c], width, t.Style)
			if h > 0 {
				h += t.Style.PadTop + t.Style.PadBottom
			}
			if h > max {
				max = h
			}
		}
		heights[r] = max
	}
	return heights
}

func spanWidth(widths []float64, start, count int) float64 {
	total := 0.0
	for i := start; i < start+count && i < len(widths); i++ {
		total += widths[i]
	}
	return total
}

func (d *document) tableHeight(t *layout.Table) float64 {
	total := 0.0
	for _, h := range d.rowHeights(t) {
		total += h
	}
	return total
}

// drawTableAt paints the table with its top-left corner at (x, y):
// backgrounds first, then the grid, then cell contents
func (d *document) drawTableAt(t *layout.Table, x, y float64) {
	heights := d.rowHeights(t)
	rows, cols := t.Rows(), t.Cols()
	anchors, covered := resolveSpans(t)

	xs := make([]float64, cols+1)
	xs[0] = x
	for i, w := range t.ColWidths {
		xs[i+1] = xs[i] + w
	}
	ys := make([]float64, rows+1)
	ys[0] = y
	for i, h := range heights {
		ys[i+1] = ys[i] + h
	}

	for _, bg := range t.Style.Backgrounds {
		c0 := layout.ResolveIndex(bg.StartCol, cols)
		r0 := layout.ResolveIndex(bg.StartRow, rows)
		c1 := layout.ResolveIndex(bg.EndCol, cols)
		r1 := layout.ResolveIndex(bg.EndRow, rows)
		if c1 < c0 {
			c0, c1 = c1, c0
		}
		if r1 < r0 {
			r0, r1 = r1, r0
		}
		d.pdf.SetFillColor(int(bg.Color.R), int(bg.Color.G), int(bg.Color.B))
		d.pdf.Rect(xs[c0], ys[r0], xs[c1+1]-xs[c0], ys[r1+1]-ys[r0], "F")
	}

	if t.Style.GridWidth > 0 {
		gc := t.Style.GridColor
		d.pdf.SetDrawColor(int(gc.R), int(gc.G), int(gc.B))
		d.pdf.SetLineWidth(t.Style.GridWidth)
		for r := 0; r < rows; r++ {
			for c := 0; c < cols; c++ {
				key := gridKey{r, c}
				if covered[key] {
					continue
				}
				spanRows, spanCols := 1, 1
				if ext, ok := anchors[key]; ok {
					spanRows, spanCols = ext.rows, ext.cols
				}
				d.pdf.Rect(xs[c], ys[r], xs[c+spanCols]-xs[c], ys[r+spanRows]-ys[r], "D")
			}
		}
	}

	for r := 0; r < rows; r++ {
		for c := 0; c < len(t.Cells[r]) && c < cols; c++ {
			key := gridKey{r, c}
			if covered[key] {
				continue
			}
			spanRows, spanCols := 1, 1
			if ext, ok := anchors[key]; ok {
				spanRows, spanCols = ext.rows, ext.cols
			}
			d.drawCell(t.Cells[r][c],
				xs[c], ys[r], xs[c+spanCols]-xs[c], ys[r+spanRows]-ys[r], t.Style)
		}
	}
}

func (d *document) drawCell(cell layout.Cell, x, y, w, h float64, tblSty layout.TableStyle) {
	contentX := x + tblSty.PadLeft
	contentW := w - tblSty.PadLeft - tblSty.PadRight

	place := func(contentH float64) float64 {
		switch strings.ToUpper(tblSty.VAlign) {
		case "MIDDLE":
			return y + (h-contentH)/2
		case "BOTTOM":
			return y + h - contentH - tblSty.PadBottom
		}
		return y + tblSty.PadTop
	}

	switch v := cell.Content.(type) {
	case nil:
	case layout.Spacer:
	case string:
		if v == "" {
			return
		}
		sty := d.cellTextStyle(tblSty)
		d.drawText(v, sty, contentX, place(d.textHeight(v, sty, contentW)), contentW)
	case layout.Paragraph:
		sty := layout.StyleOrBody(d.styles, v.Style)
		d.drawText(v.Text, sty, contentX, place(d.textHeight(v.Text, sty, contentW)), contentW)
	case layout.Image:
		ix := contentX
		if strings.EqualFold(tblSty.CellAlign, "center") {
			ix = contentX + (contentW-v.Width)/2
		}
		d.placeImage(v, ix, place(v.Height))
	case layout.Rotated:
		d.drawRotated(v, x+w/2, y+h/2)
	case *layout.Table:
		nx := contentX
		if strings.EqualFold(tblSty.CellAlign, "center") {
			nx = contentX + (contentW-v.Width())/2
		}
		d.drawTableAt(v, nx, place(d.tableHeight(v)))
	}
}

// drawRotated paints cell text rotated a quarter turn, centered on the cell
func (d *document) drawRotated(v layout.Rotated, cx, cy float64) {
	sty := layout.StyleOrBody(d.styles, v.Style)
	d.setFont(sty, sty.Bold, sty.Italic)
	d.pdf.SetTextColor(int(sty.Color.R), int(sty.Color.G), int(sty.Color.B))
	tw := d.pdf.GetStringWidth(d.fonts.encode(v.Text))

	d.pdf.TransformBegin()
	d.pdf.TransformRotate(90, cx, cy)
	d.pdf.Text(cx-tw/2, cy+sty.Size*0.35, d.fonts.encode(v.Text))
	d.pdf.TransformEnd()
}
