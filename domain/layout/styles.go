package layout

import "fmt"

// Color is an opaque RGB color
type Color struct {
	R, G, B uint8
}

// RGB builds a color from components
func RGB(r, g, b uint8) Color {
	return Color{R: r, G: g, B: b}
}

// Hex parses a "#rrggbb" color, returning black on malformed input
func Hex(s string) Color {
	var r, g, b uint8
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return Color{}
	}
	return Color{R: r, G: g, B: b}
}

// House colors used across the report
var (
	Black        = RGB(0, 0, 0)
	White        = RGB(255, 255, 255)
	TitleBrown   = Hex("#957348")
	Parchment    = Hex("#e6ded5")
	TableCream   = Hex("#f1efe4")
	CodeCream    = Hex("#f7f7ea")
	ShadeCorrect = Hex("#aaaaaa")
	ShadeFuzzy   = Hex("#dddddd")
)

// TextStyle is one named paragraph style. The zero Color is black.
type TextStyle struct {
	Size       float64
	Leading    float64
	Bold       bool
	Italic     bool
	Alignment  string // left, center, right
	LeftIndent float64
	SpaceAfter float64
	Color      Color
}

// leadRatio is the leading multiplier applied to every style
const leadRatio = 1.20

func style(size float64) TextStyle {
	return TextStyle{Size: size, Leading: size * leadRatio, Alignment: "left"}
}

func styleWith(size float64, mutate func(*TextStyle)) TextStyle {
	s := style(size)
	mutate(&s)
	return s
}

// Styles returns the named paragraph styles of the report
func Styles() map[string]TextStyle {
	return map[string]TextStyle{
		"body":           style(11.5),
		"body_right":     styleWith(11.5, func(s *TextStyle) { s.Alignment = "right" }),
		"body_center":    styleWith(11.5, func(s *TextStyle) { s.Alignment = "center" }),
		"body_9":         styleWith(9, func(s *TextStyle) { s.Leading = 9 }),
		"body_10":        style(10),
		"body_10_right":  styleWith(10, func(s *TextStyle) { s.Alignment = "right" }),
		"body_10_center": styleWith(10, func(s *TextStyle) { s.Alignment = "center" }),
		"body_10_bold": styleWith(10, func(s *TextStyle) {
			s.Bold = true
			s.Alignment = "center"
		}),
		"body_11": styleWith(11, func(s *TextStyle) { s.Leading = 11 }),
		"body_16": styleWith(16, func(s *TextStyle) {
			s.Bold = true
			s.Leading = 16
		}),
		"indented":      styleWith(11.5, func(s *TextStyle) { s.LeftIndent = 24 }),
		"contact":       style(10),
		"contact_right": styleWith(10, func(s *TextStyle) { s.Alignment = "right" }),
		"contact_right_bold": styleWith(10, func(s *TextStyle) {
			s.Alignment = "right"
			s.Bold = true
		}),
		"heading": styleWith(16, func(s *TextStyle) { s.Bold = true }),
		"code":    style(7),
		"code_right": styleWith(7, func(s *TextStyle) {
			s.Alignment = "right"
		}),
		"title":     styleWith(18, func(s *TextStyle) { s.Bold = true }),
		"sub_title": style(14),
		"section": styleWith(18, func(s *TextStyle) {
			s.Bold = true
			s.Alignment = "center"
		}),
		"subheading": styleWith(10, func(s *TextStyle) { s.Alignment = "center" }),
		"matrix_cell": styleWith(7, func(s *TextStyle) {
			s.Leading = 7
			s.Alignment = "right"
		}),
		"matrix_center": styleWith(7, func(s *TextStyle) {
			s.Leading = 7
			s.Alignment = "center"
		}),
		"matrix_rot": styleWith(7, func(s *TextStyle) { s.Leading = 7 }),
	}
}

// StyleOrBody resolves a named style, falling back to body
func StyleOrBody(styles map[string]TextStyle, name string) TextStyle {
	if s, ok := styles[name]; ok {
		return s
	}
	return styles["body"]
}

// DefaultTableStyle is the base table treatment: white hairline grid, left
// and top aligned cells, 2 point padding
func DefaultTableStyle() TableStyle {
	return TableStyle{
		GridWidth: 1,
		GridColor: White,
		CellAlign: "left",
		VAlign:    "TOP",
		TextStyle: "body",
		PadLeft:   2,
		PadRight:  2,
		PadTop:    2,
		PadBottom: 2,
	}
}
