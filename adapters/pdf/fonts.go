package pdf

import (
	"log"
	"os"
	"path/filepath"

	"github.com/go-pdf/fpdf"
)

const garamond = "Garamond"

// fontSet is the typeface the document draws with. Core fonts need their
// text run through the codepage translator; TTF fonts take UTF-8 directly.
type fontSet struct {
	family    string
	translate func(string) string
}

// registerFonts loads the Garamond faces from dir when all three are
// present, otherwise falls back to the built-in Helvetica.
func registerFonts(doc *fpdf.Fpdf, dir string) fontSet {
	if dir != "" {
		regular := filepath.Join(dir, "GARA.TTF")
		bold := filepath.Join(dir, "GARABD.TTF")
		italic := filepath.Join(dir, "GARAIT.TTF")
		if fileExists(regular) && fileExists(bold) && fileExists(italic) {
			doc.AddUTF8Font(garamond, "", regular)
			doc.AddUTF8Font(garamond, "B", bold)
			doc.AddUTF8Font(garamond, "I", italic)
			return fontSet{family: garamond}
		}
		log.Printf("[Document] Garamond faces not found in %s, using Helvetica", dir)
	}
	return fontSet{family: "Helvetica", translate: doc.UnicodeTranslatorFromDescriptor("")}
}

// styleString maps emphasis flags onto the fpdf font style code. Only one
// face variant applies at a time; bold wins over italic.
func (f fontSet) styleString(bold, italic bool) string {
	switch {
	case bold:
		return "B"
	case italic:
		return "I"
	}
	return ""
}

func (f fontSet) encode(s string) string {
	if f.translate == nil {
		return s
	}
	return f.translate(s)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
