package charts

import (
	"fmt"
	"math"
	"os"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

const (
	// DefaultDPI matches the print resolution the report pages expect
	DefaultDPI = 250.0

	// exponentThreshold switches axis labels to mantissa/exponent form
	exponentThreshold = 1000.0
)

// Renderer draws the report figures with gonum/plot and writes PNG files.
// It implements ports.ChartRenderer.
type Renderer struct {
	dpi float64
}

// NewRenderer creates a renderer with the given default DPI (0 uses 250)
func NewRenderer(dpi float64) *Renderer {
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &Renderer{dpi: dpi}
}

func (r *Renderer) resolveDPI(requested float64) float64 {
	if requested > 0 {
		return requested
	}
	return r.dpi
}

// writePNG rasterizes the plot at the given size and DPI. The optional
// border is stroked around the full canvas after the plot is drawn.
func writePNG(p *plot.Plot, width, height vg.Length, dpi float64, border vg.Length, path string) error {
	canvas := vgimg.NewWith(
		vgimg.UseWH(width, height),
		vgimg.UseDPI(int(dpi)),
	)
	dc := draw.New(canvas)
	p.Draw(dc)

	if border > 0 {
		dc.StrokeLines(draw.LineStyle{Color: colorBlack, Width: border}, []vg.Point{
			{X: 0, Y: 0},
			{X: width, Y: 0},
			{X: width, Y: height},
			{X: 0, Y: height},
			{X: 0, Y: 0},
		})
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer file.Close()

	png := vgimg.PngCanvas{Canvas: canvas}
	if _, err := png.WriteTo(file); err != nil {
		return fmt.Errorf("failed to write chart png: %w", err)
	}
	return nil
}

// inches converts a size in inches to canvas length, falling back on def
func inches(v, def float64) vg.Length {
	if v <= 0 {
		v = def
	}
	return vg.Length(v) * vg.Inch
}

// linspace returns count evenly spaced values from lo to hi inclusive
func linspace(lo, hi float64, count int) []float64 {
	if count < 2 {
		return []float64{lo}
	}
	out := make([]float64, count)
	step := (hi - lo) / float64(count-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[count-1] = hi
	return out
}

// axisTicks places ticks at linspace(lo, hi, 8) dropping the last so the
// top corner stays clear. Labels use mantissa/exponent form once the axis
// maximum passes the threshold.
func axisTicks(lo, hi float64) []plot.Tick {
	values := linspace(lo, hi, 8)
	values = values[:len(values)-1]
	exponent := math.Abs(hi) > exponentThreshold

	ticks := make([]plot.Tick, len(values))
	for i, v := range values {
		ticks[i] = plot.Tick{Value: v, Label: tickLabel(v, exponent)}
	}
	return ticks
}

func tickLabel(v float64, exponent bool) string {
	if !exponent || v == 0 {
		return fmt.Sprintf("%.1f", v)
	}
	exp := int(math.Floor(math.Log10(math.Abs(v))))
	mantissa := v / math.Pow(10, float64(exp))
	return fmt.Sprintf("%.1fe%d", mantissa, exp)
}
