package charts

import (
	"fmt"
	"image/color"
	"log"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"gnnreport/domain/accuracy"
	"gnnreport/internal/errors"
	"gnnreport/ports"
)

// Scatter renders an observed(y) vs predicted(x) plot on shared square axes
// with a 1:1 reference line and a stats annotation block in the top-left.
func (r *Renderer) Scatter(req ports.ScatterRequest) error {
	start := time.Now()

	n := len(req.Observed)
	if n == 0 || n != len(req.Predicted) {
		return errors.ChartError(
			fmt.Sprintf("scatter for %s needs matching observed and predicted series", req.Name), nil)
	}

	// shared limits over both series, widened by one percent
	lo := math.Min(floats.Min(req.Observed), floats.Min(req.Predicted))
	hi := math.Max(floats.Max(req.Observed), floats.Max(req.Predicted))
	if lo == hi {
		hi = lo + 1
	}
	buffer := (hi - lo) * 0.01
	lo -= buffer
	hi += buffer

	p := plot.New()
	p.X.Min, p.X.Max = lo, hi
	p.Y.Min, p.Y.Max = lo, hi

	ticks := plot.ConstantTicks(axisTicks(lo, hi))
	p.X.Tick.Marker = ticks
	p.Y.Tick.Marker = ticks
	p.X.Label.Text = axisTitle("Predicted", req.Name, req.Units)
	p.Y.Label.Text = axisTitle("Observed", req.Name, req.Units)
	styleSquareAxes(p)

	points, glyphs := scatterPoints(req)
	sc, err := plotter.NewScatter(points)
	if err != nil {
		return errors.ChartError("failed to build scatter points", err)
	}
	if glyphs != nil {
		sc.GlyphStyleFunc = glyphs
	} else {
		sc.GlyphStyle = draw.GlyphStyle{Color: colorBlue, Radius: 1, Shape: draw.CircleGlyph{}}
	}

	ref, err := plotter.NewLine(plotter.XYs{{X: lo, Y: lo}, {X: hi, Y: hi}})
	if err != nil {
		return errors.ChartError("failed to build reference line", err)
	}
	ref.LineStyle = draw.LineStyle{Color: colorBlack, Width: 0.5}

	p.Add(sc, ref, newStatsBox(req.Stats), newAngledLabel(0.89, 0.93, "1:1", 4.5, math.Pi/4))

	width := inches(req.WidthInches, 3.2)
	height := inches(req.HeightInches, 3.2)
	if err := writePNG(p, width, height, r.resolveDPI(req.DPI), 2, req.OutputPath); err != nil {
		return errors.ChartError(fmt.Sprintf("failed to render scatter for %s", req.Name), err)
	}

	log.Printf("[Charts] Rendered scatter %s (%d points) in %dms",
		req.Name, n, time.Since(start).Milliseconds())
	return nil
}

// scatterPoints orders points for drawing. With KDE coloring the points are
// sorted by ascending density so the densest land on top, colored over a
// blue-to-yellow sweep; otherwise the plain order with a nil style func.
func scatterPoints(req ports.ScatterRequest) (plotter.XYs, func(int) draw.GlyphStyle) {
	n := len(req.Observed)
	if !req.KDE || n < 3 {
		points := make(plotter.XYs, n)
		for i := range points {
			points[i] = plotter.XY{X: req.Predicted[i], Y: req.Observed[i]}
		}
		return points, nil
	}

	density := accuracy.GaussianKDE2D(req.Predicted, req.Observed)
	order := accuracy.DensityOrder(density)
	dmin := floats.Min(density)
	dmax := floats.Max(density)
	ramp := palette.Rainbow(256, palette.Blue, palette.Yellow, 1, 1, 1).Colors()

	points := make(plotter.XYs, n)
	colors := make([]color.Color, n)
	for i, idx := range order {
		points[i] = plotter.XY{X: req.Predicted[idx], Y: req.Observed[idx]}
		frac := 0.0
		if dmax > dmin {
			frac = (density[idx] - dmin) / (dmax - dmin)
		}
		colors[i] = ramp[int(frac*float64(len(ramp)-1))]
	}

	return points, func(i int) draw.GlyphStyle {
		return draw.GlyphStyle{Color: colors[i], Radius: 1, Shape: draw.CircleGlyph{}}
	}
}

func axisTitle(prefix, name, units string) string {
	if units == "" {
		return fmt.Sprintf("%s %s", prefix, name)
	}
	return fmt.Sprintf("%s %s (%s)", prefix, name, units)
}

func styleSquareAxes(p *plot.Plot) {
	for _, ax := range []*plot.Axis{&p.X, &p.Y} {
		ax.LineStyle.Width = 0.2
		ax.Tick.LineStyle.Width = 0.2
		ax.Tick.Length = 2
		ax.Tick.Label.Font.Size = 4.5
		ax.Label.TextStyle.Font.Size = 5
	}
}

// statsBox draws the annotation rows on a white backing rectangle in the
// top-left corner of the plot area. The rectangle grows downward as the
// optional rows are added.
type statsBox struct {
	lines []string
}

func newStatsBox(stats ports.ScatterStats) *statsBox {
	lines := []string{
		fmt.Sprintf("Correlation coeff.: %.4f", stats.Correlation),
		fmt.Sprintf("Normalized RMSE: %.4f", stats.NormalizedRMSE),
		fmt.Sprintf("R-square: %.4f", stats.RSquare),
	}
	if stats.AvgPlotCount != nil {
		lines = append(lines, fmt.Sprintf("Average plot count: %.1f", *stats.AvgPlotCount))
	}
	if stats.HexagonCount != nil {
		lines = append(lines, fmt.Sprintf("Hexagon count: %d", *stats.HexagonCount))
	}
	return &statsBox{lines: lines}
}

func (b *statsBox) Plot(c draw.Canvas, plt *plot.Plot) {
	height := 0.12 + 0.04*float64(len(b.lines)-3)
	top := 0.96
	fillRect(c, fracPoint(c, 0.04, top-height), fracPoint(c, 0.42, top), colorWhite)

	sty := textStyle(5)
	for i, line := range b.lines {
		c.FillText(sty, fracPoint(c, 0.05, 0.93-0.04*float64(i)), line)
	}
}

// angledLabel places rotated text at plot-area fractions
type angledLabel struct {
	fx, fy float64
	text   string
	sty    draw.TextStyle
}

func newAngledLabel(fx, fy float64, txt string, size vg.Length, rotation float64) *angledLabel {
	sty := textStyle(size)
	sty.Rotation = rotation
	return &angledLabel{fx: fx, fy: fy, text: txt, sty: sty}
}

func (l *angledLabel) Plot(c draw.Canvas, plt *plot.Plot) {
	c.FillText(l.sty, fracPoint(c, l.fx, l.fy), l.text)
}
