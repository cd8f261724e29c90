package charts

import (
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

var (
	colorBlack = color.Black
	colorWhite = color.White
	colorBlue  = color.RGBA{B: 0xff, A: 0xff}
)

// seriesColors cycle through the grouped-bar series
var seriesColors = []color.Color{
	color.RGBA{R: 0x9b, G: 0x59, B: 0xb6, A: 0xff},
	color.RGBA{R: 0x34, G: 0x98, B: 0xdb, A: 0xff},
	color.RGBA{R: 0x95, G: 0xa5, B: 0xa6, A: 0xff},
	color.RGBA{R: 0xe7, G: 0x4c, B: 0x3c, A: 0xff},
	color.RGBA{R: 0x34, G: 0x49, B: 0x5e, A: 0xff},
	color.RGBA{R: 0x2e, G: 0xcc, B: 0x71, A: 0xff},
}

// textStyle builds a black text style at the given point size
func textStyle(size font.Length) draw.TextStyle {
	return draw.TextStyle{
		Color:   colorBlack,
		Font:    font.From(plot.DefaultFont, size),
		Handler: text.Plain{Fonts: font.DefaultCache},
	}
}

// fracPoint maps plot-area fractions to canvas coordinates
func fracPoint(c draw.Canvas, fx, fy float64) vg.Point {
	return vg.Point{
		X: c.Min.X + vg.Length(fx)*(c.Max.X-c.Min.X),
		Y: c.Min.Y + vg.Length(fy)*(c.Max.Y-c.Min.Y),
	}
}

// fillRect fills an axis-aligned rectangle on the canvas
func fillRect(c draw.Canvas, min, max vg.Point, fill color.Color) {
	var path vg.Path
	path.Move(min)
	path.Line(vg.Point{X: max.X, Y: min.Y})
	path.Line(max)
	path.Line(vg.Point{X: min.X, Y: max.Y})
	path.Close()
	c.SetColor(fill)
	c.Fill(path)
}
