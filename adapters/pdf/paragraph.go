package pdf

import (
	"gnnreport/domain/layout"
)

// word is a measured token placed on a line
type word struct {
	text   string
	width  float64
	bold   bool
	italic bool
	link   string
	spaced bool
}

// line is one wrapped row of words with its total width
type line struct {
	words []word
	width float64
}

// baselineRatio positions the first baseline below the line top
const baselineRatio = 0.80

func (d *document) setFont(sty layout.TextStyle, bold, italic bool) {
	style := d.fonts.styleString(sty.Bold || bold, sty.Italic || italic)
	d.pdf.SetFont(d.fonts.family, style, sty.Size)
}

func (d *document) textWidth(s string, sty layout.TextStyle, bold, italic bool) float64 {
	d.setFont(sty, bold, italic)
	return d.pdf.GetStringWidth(d.fonts.encode(s))
}

func (d *document) spaceWidth(sty layout.TextStyle) float64 {
	return d.textWidth(" ", sty, false, false)
}

// layoutText wraps the paragraph markup into lines no wider than width,
// honoring the style's left indent and explicit breaks
func (d *document) layoutText(text string, sty layout.TextStyle, width float64) []line {
	tokens := tokenize(parseSpans(text))
	avail := width - sty.LeftIndent
	spaceW := d.spaceWidth(sty)

	var lines []line
	var cur line
	flush := func() {
		lines = append(lines, cur)
		cur = line{}
	}

	for _, tk := range tokens {
		if tk.brk {
			flush()
			continue
		}
		tokenW := d.textWidth(tk.text, sty, tk.bold, tk.italic)
		gap := spaceW
		if tk.glue || len(cur.words) == 0 {
			gap = 0
		}
		if len(cur.words) > 0 && cur.width+gap+tokenW > avail {
			flush()
			gap = 0
		}
		cur.words = append(cur.words, word{
			text:   tk.text,
			width:  tokenW,
			bold:   tk.bold,
			italic: tk.italic,
			link:   tk.link,
			spaced: gap > 0,
		})
		cur.width += gap + tokenW
	}
	if len(cur.words) > 0 || len(lines) == 0 {
		flush()
	}
	return lines
}

// textHeight measures the wrapped paragraph without drawing it
func (d *document) textHeight(text string, sty layout.TextStyle, width float64) float64 {
	lines := d.layoutText(text, sty, width)
	return float64(len(lines))*sty.Leading + sty.SpaceAfter
}

// drawText lays out and draws the paragraph at (x, y), returning its height.
// y is the top of the first line box.
func (d *document) drawText(text string, sty layout.TextStyle, x, y, width float64) float64 {
	lines := d.layoutText(text, sty, width)
	spaceW := d.spaceWidth(sty)
	d.pdf.SetTextColor(int(sty.Color.R), int(sty.Color.G), int(sty.Color.B))

	for i, ln := range lines {
		bx := x + sty.LeftIndent
		switch sty.Alignment {
		case "center":
			bx = x + sty.LeftIndent + (width-sty.LeftIndent-ln.width)/2
		case "right":
			bx = x + width - ln.width
		}
		by := y + baselineRatio*sty.Size + float64(i)*sty.Leading

		for _, w := range ln.words {
			if w.spaced {
				bx += spaceW
			}
			d.setFont(sty, w.bold, w.italic)
			if w.link != "" {
				d.pdf.SetTextColor(0, 0, 255)
			}
			d.pdf.Text(bx, by, d.fonts.encode(w.text))
			if w.link != "" {
				d.pdf.LinkString(bx, by-sty.Size, w.width, sty.Leading, w.link)
				d.pdf.SetTextColor(int(sty.Color.R), int(sty.Color.G), int(sty.Color.B))
			}
			bx += w.width
		}
	}
	return float64(len(lines))*sty.Leading + sty.SpaceAfter
}
