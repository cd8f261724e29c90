package pdf

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"gnnreport/domain/layout"
	"gnnreport/internal/errors"
)

const (
	pageWidth    = 8.5 * layout.Inch
	pageHeight   = 11 * layout.Inch
	pageMargin   = 0.5 * layout.Inch
	cornerRadius = 0.15 * layout.Inch
)

// Engine renders flowable stories to paginated PDF files. It implements
// ports.DocumentEngine.
type Engine struct {
	fontDir string
}

// NewEngine creates an engine that looks for the Garamond faces in fontDir.
// An empty dir (or missing faces) falls back to built-in Helvetica.
func NewEngine(fontDir string) *Engine {
	return &Engine{fontDir: fontDir}
}

// frame is the content area of a page, top-left anchored
type frame struct {
	x, y, w, h float64
}

func (f frame) bottom() float64 {
	return f.y + f.h
}

// document tracks layout state while a story is consumed
type document struct {
	pdf    *fpdf.Fpdf
	fonts  fontSet
	styles map[string]layout.TextStyle

	frame           frame
	cursor          float64
	template        string
	started         bool
	pendingBreak    bool
	pendingTemplate string
}

// Render lays out the story and writes the document to outPath
func (e *Engine) Render(story []layout.Flowable, outPath string) error {
	start := time.Now()

	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	d := &document{
		pdf:             pdf,
		fonts:           registerFonts(pdf, e.fontDir),
		styles:          layout.Styles(),
		pendingBreak:    true,
		pendingTemplate: layout.TemplateTitle,
	}

	for _, f := range story {
		d.place(f)
	}
	if !d.started {
		d.startPage()
	}

	if err := pdf.Error(); err != nil {
		return errors.DocumentError("document assembly failed", err)
	}
	if err := pdf.OutputFileAndClose(outPath); err != nil {
		return errors.DocumentError(fmt.Sprintf("failed to write %s", outPath), err)
	}

	log.Printf("[Document] Wrote %s (%d pages) in %dms",
		outPath, pdf.PageCount(), time.Since(start).Milliseconds())
	return nil
}

func (d *document) place(f layout.Flowable) {
	switch v := f.(type) {
	case layout.PageBreak:
		tpl := v.Template
		if tpl == "" {
			tpl = layout.TemplatePortrait
		}
		d.pendingBreak = true
		d.pendingTemplate = tpl

	case layout.Spacer:
		d.ensureSpace(v.Height)
		d.cursor += v.Height

	case layout.Paragraph:
		sty := layout.StyleOrBody(d.styles, v.Style)
		h := d.textHeight(v.Text, sty, d.nextFrame().w)
		d.ensureSpace(h)
		d.drawText(v.Text, sty, d.frame.x, d.cursor, d.frame.w)
		d.cursor += h

	case layout.Image:
		d.ensureSpace(v.Height)
		x := d.frame.x + (d.frame.w-v.Width)/2
		d.placeImage(v, x, d.cursor)
		d.cursor += v.Height

	case *layout.Table:
		h := d.tableHeight(v)
		d.ensureSpace(h)
		d.drawTableAt(v, d.tableX(v), d.cursor)
		d.cursor += h
	}
}

// nextFrame is the frame a new flowable will land in, accounting for a
// pending page break onto a different template
func (d *document) nextFrame() frame {
	if d.started && !d.pendingBreak {
		return d.frame
	}
	return frameFor(d.pendingTemplate)
}

// ensureSpace starts a fresh page when the pending break is set or the
// content cannot fit in what remains of the frame. Content taller than a
// whole frame is placed anyway and clips.
func (d *document) ensureSpace(h float64) {
	if !d.started || d.pendingBreak {
		d.startPage()
		return
	}
	if d.cursor+h > d.frame.bottom() && h <= d.frame.h {
		d.pendingTemplate = d.template
		d.startPage()
	}
}

func frameFor(template string) frame {
	if template == layout.TemplateLandscape {
		return frame{x: pageMargin, y: pageMargin, w: 10 * layout.Inch, h: 7.5 * layout.Inch}
	}
	return frame{x: pageMargin, y: pageMargin, w: 7.5 * layout.Inch, h: 10 * layout.Inch}
}

// startPage begins a page on the pending template and paints the parchment
// background the content frame sits on
func (d *document) startPage() {
	orientation := "P"
	if d.pendingTemplate == layout.TemplateLandscape {
		orientation = "L"
	}
	d.pdf.AddPageFormat(orientation, fpdf.SizeType{Wd: pageWidth, Ht: pageHeight})

	fr := frameFor(d.pendingTemplate)
	bg := layout.Parchment
	d.pdf.SetFillColor(int(bg.R), int(bg.G), int(bg.B))
	d.pdf.SetDrawColor(0, 0, 0)
	d.pdf.SetLineWidth(1)
	d.pdf.RoundedRect(fr.x, fr.y, fr.w, fr.h, cornerRadius, "1234", "FD")

	d.frame = fr
	d.cursor = fr.y
	d.template = d.pendingTemplate
	d.started = true
	d.pendingBreak = false
}

// tableX places the table in the frame by its HAlign, centered by default
func (d *document) tableX(t *layout.Table) float64 {
	switch strings.ToUpper(t.Style.HAlign) {
	case "LEFT":
		return d.frame.x
	case "RIGHT":
		return d.frame.x + d.frame.w - t.Width()
	}
	return d.frame.x + (d.frame.w-t.Width())/2
}

func (d *document) placeImage(img layout.Image, x, y float64) {
	if !fileExists(img.Path) {
		d.pdf.SetError(fmt.Errorf("image not found: %s", img.Path))
		return
	}
	opts := fpdf.ImageOptions{ReadDpi: false}
	d.pdf.ImageOptions(img.Path, x, y, img.Width, img.Height, false, opts, 0, "")
}
